package schedule

import (
	"time"

	"github.com/m04kA/CareClarity-AppointmentService/internal/config"
	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
)

// Resolver возвращает недельное расписание врача
// Переопределения берутся из конфигурации, иначе используется расписание по умолчанию
type Resolver struct {
	defaults  domain.DoctorSchedule
	overrides map[string]domain.DoctorSchedule
}

// NewResolver создает резолвер со встроенным расписанием по умолчанию
func NewResolver() *Resolver {
	return &Resolver{
		defaults: domain.DoctorSchedule{
			AvailableDays:       domain.DefaultAvailableDays,
			TimeSlots:           domain.DefaultTimeSlots,
			SlotDurationMinutes: domain.DefaultSlotDurationMinutes,
		},
		overrides: make(map[string]domain.DoctorSchedule),
	}
}

// NewResolverFromConfig создает резолвер из секции schedule конфигурации
// Конфигурация должна быть предварительно провалидирована (config.Validate)
func NewResolverFromConfig(cfg config.ScheduleConfig) *Resolver {
	r := NewResolver()
	if len(cfg.Default.TimeSlots) > 0 {
		r.defaults = fromConfig(cfg.Default)
	}
	for _, d := range cfg.Doctors {
		r.overrides[d.DoctorID] = fromConfig(d)
	}
	return r
}

// Resolve возвращает расписание врача. Никогда не возвращает ошибку
func (r *Resolver) Resolve(doctorID string) domain.DoctorSchedule {
	s, ok := r.overrides[doctorID]
	if !ok {
		s = r.defaults
	}
	s = s.Clone()
	s.DoctorID = doctorID
	return s
}

func fromConfig(c config.DoctorSchedule) domain.DoctorSchedule {
	days := make([]time.Weekday, 0, len(c.AvailableDays))
	for _, d := range c.AvailableDays {
		days = append(days, time.Weekday(d))
	}
	duration := c.SlotDurationMinutes
	if duration == 0 {
		duration = domain.DefaultSlotDurationMinutes
	}
	return domain.DoctorSchedule{
		AvailableDays:       days,
		TimeSlots:           append([]string(nil), c.TimeSlots...),
		SlotDurationMinutes: duration,
	}
}
