package book_appointment

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
	"github.com/m04kA/CareClarity-AppointmentService/internal/infra/storage/ledger"
)

var tracer = otel.Tracer("careclarity/usecase/book_appointment")

// UseCase use case бронирования приема
type UseCase struct {
	durable   Ledger
	transient Ledger
	schedules ScheduleResolver
	notifier  Notifier
	fallbacks FallbackRecorder
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	durable Ledger,
	transient Ledger,
	schedules ScheduleResolver,
	notifier Notifier,
	fallbacks FallbackRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		durable:   durable,
		transient: transient,
		schedules: schedules,
		notifier:  notifier,
		fallbacks: fallbacks,
		logger:    logger,
	}
}

// Execute бронирует слот
// Единственный арбитр занятости слота леджер; transient используется только
// если durable недоступен, и не используется при бизнес-отказе
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "BookAppointment")
	defer span.End()

	uc.logger.Info("BookAppointment: user=%s, doctor=%s, date=%s, slot=%q",
		req.UserID, req.DoctorID, req.Date, req.TimeSlot)

	// 1. Валидация входных данных
	date, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("doctor.id", req.DoctorID),
		attribute.String("appointment.date", req.Date),
		attribute.String("appointment.slot", req.TimeSlot),
	)

	// 2. Проверяем слот по расписанию врача
	schedule := uc.schedules.Resolve(req.DoctorID)
	if err := validateSlot(schedule, date, req.TimeSlot); err != nil {
		uc.logger.Warn("BookAppointment: %v", err)
		return nil, err
	}

	// 3. Резервируем слот
	booking, servedBy, err := uc.reserve(ctx, req.toDraft())
	span.SetAttributes(attribute.String("ledger.served_by", servedBy))
	if err != nil {
		if !errors.Is(err, ErrAlreadyBooked) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "reserve failed")
		}
		return nil, err
	}

	uc.logger.Info("BookAppointment: booked id=%s via %s ledger", booking.ID, servedBy)

	// 4. Уведомление не влияет на результат
	uc.notifier.BookingConfirmed(booking)

	return fromDomain(booking), nil
}

func (uc *UseCase) reserve(ctx context.Context, draft domain.BookingDraft) (*domain.Booking, string, error) {
	booking, err := uc.durable.Reserve(ctx, draft)
	switch {
	case err == nil:
		return booking, "durable", nil
	case errors.Is(err, ledger.ErrAlreadyBooked):
		uc.logger.Warn("BookAppointment: slot %s %s %q already booked", draft.DoctorID, draft.Date, draft.TimeSlot)
		return nil, "durable", ErrAlreadyBooked
	case !ledger.IsUnavailable(err):
		uc.logger.Error("BookAppointment: durable ledger returned unexpected error: %v", err)
		return nil, "durable", fmt.Errorf("%w: durable reserve: %v", ErrInternal, err)
	}

	uc.logger.Warn("BookAppointment: durable ledger unavailable, using transient ledger: %v", err)
	uc.fallbacks.ObserveFallback("reserve")

	booking, err = uc.transient.Reserve(ctx, draft)
	switch {
	case err == nil:
		return booking, "transient", nil
	case errors.Is(err, ledger.ErrAlreadyBooked):
		uc.logger.Warn("BookAppointment: slot %s %s %q already booked in transient ledger", draft.DoctorID, draft.Date, draft.TimeSlot)
		return nil, "transient", ErrAlreadyBooked
	case ledger.IsUnavailable(err):
		uc.logger.Error("BookAppointment: both ledgers unavailable: %v", err)
		return nil, "none", fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		uc.logger.Error("BookAppointment: transient ledger returned unexpected error: %v", err)
		return nil, "transient", fmt.Errorf("%w: transient reserve: %v", ErrInternal, err)
	}
}
