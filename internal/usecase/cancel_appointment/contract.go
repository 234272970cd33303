package cancel_appointment

import (
	"context"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
)

// Ledger хранилище бронирований (durable или transient)
type Ledger interface {
	Cancel(ctx context.Context, bookingID, userID string) (*domain.Booking, error)
}

// Notifier отправляет уведомление об отмене, не блокируя вызывающего
type Notifier interface {
	BookingCancelled(b *domain.Booking)
}

// FallbackRecorder учитывает переходы на transient леджер
type FallbackRecorder interface {
	ObserveFallback(op string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
