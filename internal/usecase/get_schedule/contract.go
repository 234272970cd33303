package get_schedule

import (
	"context"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
)

// Ledger источник занятых слотов
type Ledger interface {
	ListBookedSlots(ctx context.Context, doctorID, date string) ([]string, error)
}

// ScheduleResolver возвращает расписание врача
type ScheduleResolver interface {
	Resolve(doctorID string) domain.DoctorSchedule
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
