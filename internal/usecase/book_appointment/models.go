package book_appointment

import (
	"time"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
)

// Request модель запроса на бронирование
type Request struct {
	UserID    string // из токена
	UserName  string
	UserEmail string

	DoctorID   string
	DoctorName string
	Date       string // YYYY-MM-DD
	TimeSlot   string // "10:00 AM"
}

// Response созданное бронирование
type Response struct {
	ID         string
	DoctorID   string
	DoctorName string
	UserID     string
	Date       string
	TimeSlot   string
	Status     string
	CreatedAt  time.Time
}

func (r *Request) toDraft() domain.BookingDraft {
	return domain.BookingDraft{
		DoctorID:   r.DoctorID,
		DoctorName: r.DoctorName,
		UserID:     r.UserID,
		UserName:   r.UserName,
		UserEmail:  r.UserEmail,
		Date:       r.Date,
		TimeSlot:   r.TimeSlot,
	}
}

func fromDomain(b *domain.Booking) *Response {
	return &Response{
		ID:         b.ID,
		DoctorID:   b.DoctorID,
		DoctorName: b.DoctorName,
		UserID:     b.UserID,
		Date:       b.Date,
		TimeSlot:   b.TimeSlot,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
	}
}
