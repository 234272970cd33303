package bookings

import (
	"context"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
)

// Ledger читающая часть леджера бронирований
type Ledger interface {
	ListForUser(ctx context.Context, userID string) ([]*domain.Booking, error)
	GetByID(ctx context.Context, bookingID string) (*domain.Booking, error)
	ListAll(ctx context.Context) ([]*domain.Booking, error)
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
