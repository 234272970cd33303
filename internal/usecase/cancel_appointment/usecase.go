package cancel_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
	"github.com/m04kA/CareClarity-AppointmentService/internal/infra/storage/ledger"
)

var tracer = otel.Tracer("careclarity/usecase/cancel_appointment")

// UseCase use case отмены приема
type UseCase struct {
	durable   Ledger
	transient Ledger
	notifier  Notifier
	fallbacks FallbackRecorder
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	durable Ledger,
	transient Ledger,
	notifier Notifier,
	fallbacks FallbackRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		durable:   durable,
		transient: transient,
		notifier:  notifier,
		fallbacks: fallbacks,
		logger:    logger,
	}
}

// Execute отменяет бронирование владельца
// Запись может существовать только в transient леджере, поэтому NotFound
// от durable приводит к одной попытке в transient
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "CancelAppointment")
	defer span.End()

	req.BookingID = strings.TrimSpace(req.BookingID)
	if req.BookingID == "" || req.UserID == "" {
		return nil, fmt.Errorf("%w: booking id and user are required", ErrInvalidInput)
	}
	span.SetAttributes(attribute.String("booking.id", req.BookingID))

	uc.logger.Info("CancelAppointment: booking=%s, user=%s", req.BookingID, req.UserID)

	booking, servedBy, err := uc.cancel(ctx, req.BookingID, req.UserID)
	span.SetAttributes(attribute.String("ledger.served_by", servedBy))
	if err != nil {
		if errors.Is(err, ErrUnavailable) || errors.Is(err, ErrInternal) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "cancel failed")
		}
		return nil, err
	}

	uc.logger.Info("CancelAppointment: booking=%s cancelled via %s ledger", booking.ID, servedBy)

	uc.notifier.BookingCancelled(booking)

	return &Response{
		ID:          booking.ID,
		Status:      string(booking.Status),
		CancelledAt: booking.CancelledAt,
	}, nil
}

func (uc *UseCase) cancel(ctx context.Context, bookingID, userID string) (*domain.Booking, string, error) {
	booking, err := uc.durable.Cancel(ctx, bookingID, userID)
	durableDown := false
	switch {
	case err == nil:
		return booking, "durable", nil
	case errors.Is(err, ledger.ErrNotOwner):
		uc.logger.Warn("CancelAppointment: user %s is not the owner of booking %s", userID, bookingID)
		return nil, "durable", ErrNotOwner
	case errors.Is(err, ledger.ErrBookingNotFound):
		uc.logger.Info("CancelAppointment: booking %s not in durable ledger, checking transient", bookingID)
	case ledger.IsUnavailable(err):
		durableDown = true
		uc.logger.Warn("CancelAppointment: durable ledger unavailable, using transient ledger: %v", err)
		uc.fallbacks.ObserveFallback("cancel")
	default:
		uc.logger.Error("CancelAppointment: durable ledger returned unexpected error: %v", err)
		return nil, "durable", fmt.Errorf("%w: durable cancel: %v", ErrInternal, err)
	}

	booking, err = uc.transient.Cancel(ctx, bookingID, userID)
	switch {
	case err == nil:
		return booking, "transient", nil
	case errors.Is(err, ledger.ErrNotOwner):
		uc.logger.Warn("CancelAppointment: user %s is not the owner of booking %s", userID, bookingID)
		return nil, "transient", ErrNotOwner
	case errors.Is(err, ledger.ErrBookingNotFound):
		// durable не ответил, значит отсутствие в transient ничего не доказывает
		if durableDown {
			return nil, "none", fmt.Errorf("%w: booking %s is not reachable", ErrUnavailable, bookingID)
		}
		return nil, "transient", ErrBookingNotFound
	case ledger.IsUnavailable(err):
		uc.logger.Error("CancelAppointment: both ledgers unavailable: %v", err)
		return nil, "none", fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		uc.logger.Error("CancelAppointment: transient ledger returned unexpected error: %v", err)
		return nil, "transient", fmt.Errorf("%w: transient cancel: %v", ErrInternal, err)
	}
}
