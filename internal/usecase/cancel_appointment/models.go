package cancel_appointment

import "time"

// Request запрос на отмену
type Request struct {
	BookingID string
	UserID    string // из токена
}

// Response отмененное бронирование
type Response struct {
	ID          string
	Status      string
	CancelledAt *time.Time
}
