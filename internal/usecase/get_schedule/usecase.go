package get_schedule

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
	"github.com/m04kA/CareClarity-AppointmentService/internal/infra/storage/ledger"
)

// UseCase use case получения расписания врача
type UseCase struct {
	durable   Ledger
	transient Ledger
	schedules ScheduleResolver
	fallbacks FallbackRecorder
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	durable Ledger,
	transient Ledger,
	schedules ScheduleResolver,
	fallbacks FallbackRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		durable:   durable,
		transient: transient,
		schedules: schedules,
		fallbacks: fallbacks,
		logger:    logger,
	}
}

// Execute возвращает расписание и, если указана дата, занятые слоты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	req.DoctorID = strings.TrimSpace(req.DoctorID)
	req.Date = strings.TrimSpace(req.Date)

	if req.DoctorID == "" {
		return nil, fmt.Errorf("%w: doctorId is required", ErrInvalidInput)
	}

	resp := &Response{
		Schedule:    uc.schedules.Resolve(req.DoctorID),
		BookedSlots: []string{},
	}
	if req.Date == "" {
		return resp, nil
	}

	if _, err := domain.ParseDate(req.Date); err != nil {
		uc.logger.Warn("GetSchedule: invalid date %q", req.Date)
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	slots, err := uc.bookedSlots(ctx, req.DoctorID, req.Date)
	if err != nil {
		return nil, err
	}
	if slots != nil {
		resp.BookedSlots = slots
	}

	uc.logger.Info("GetSchedule: doctor=%s, date=%s, booked=%d", req.DoctorID, req.Date, len(resp.BookedSlots))
	return resp, nil
}

func (uc *UseCase) bookedSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	slots, err := uc.durable.ListBookedSlots(ctx, doctorID, date)
	if err == nil {
		return slots, nil
	}
	if !ledger.IsUnavailable(err) {
		uc.logger.Error("GetSchedule: durable ledger returned unexpected error: %v", err)
		return nil, fmt.Errorf("%w: durable list slots: %v", ErrInternal, err)
	}

	uc.logger.Warn("GetSchedule: durable ledger unavailable, using transient ledger: %v", err)
	uc.fallbacks.ObserveFallback("list_booked_slots")

	slots, err = uc.transient.ListBookedSlots(ctx, doctorID, date)
	if err != nil {
		uc.logger.Error("GetSchedule: both ledgers unavailable: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return slots, nil
}
