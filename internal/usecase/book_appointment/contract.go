package book_appointment

import (
	"context"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
)

// Ledger хранилище бронирований (durable или transient)
type Ledger interface {
	Reserve(ctx context.Context, draft domain.BookingDraft) (*domain.Booking, error)
}

// ScheduleResolver возвращает расписание врача
type ScheduleResolver interface {
	Resolve(doctorID string) domain.DoctorSchedule
}

// Notifier отправляет уведомление о бронировании, не блокируя вызывающего
type Notifier interface {
	BookingConfirmed(b *domain.Booking)
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
