package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
	"github.com/m04kA/CareClarity-AppointmentService/internal/infra/storage/ledger"
	"github.com/m04kA/CareClarity-AppointmentService/internal/service/bookings/models"
)

// Service сервис чтения бронирований
// Каждое чтение идет в durable леджер, а при его недоступности в transient
type Service struct {
	durable   Ledger
	transient Ledger
	fallbacks FallbackRecorder
	logger    Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	durable Ledger,
	transient Ledger,
	fallbacks FallbackRecorder,
	logger Logger,
) *Service {
	return &Service{
		durable:   durable,
		transient: transient,
		fallbacks: fallbacks,
		logger:    logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь может видеть только своё бронирование
func (s *Service) GetByID(ctx context.Context, bookingID, userID string) (*models.BookingResponse, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" || userID == "" {
		return nil, fmt.Errorf("%w: booking id and user are required", ErrInvalidInput)
	}

	s.logger.Info("GetByID: fetching booking id=%s for user=%s", bookingID, userID)

	booking, err := s.durable.GetByID(ctx, bookingID)
	durableDown := false
	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrBookingNotFound):
		booking = nil
	case ledger.IsUnavailable(err):
		durableDown = true
		s.logger.Warn("GetByID: durable ledger unavailable, using transient ledger: %v", err)
		s.fallbacks.ObserveFallback("get")
	default:
		s.logger.Error("GetByID: durable ledger error for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetByID - durable ledger error: %v", ErrInternal, err)
	}

	if booking == nil {
		booking, err = s.transient.GetByID(ctx, bookingID)
		switch {
		case err == nil:
		case errors.Is(err, ledger.ErrBookingNotFound) && !durableDown:
			s.logger.Warn("GetByID: booking id=%s not found", bookingID)
			return nil, ErrBookingNotFound
		case errors.Is(err, ledger.ErrBookingNotFound), ledger.IsUnavailable(err):
			s.logger.Error("GetByID: booking id=%s is not reachable: %v", bookingID, err)
			return nil, fmt.Errorf("%w: GetByID: %v", ErrUnavailable, err)
		default:
			s.logger.Error("GetByID: transient ledger error for booking id=%s: %v", bookingID, err)
			return nil, fmt.Errorf("%w: GetByID - transient ledger error: %v", ErrInternal, err)
		}
	}

	if !booking.IsOwnedBy(userID) {
		s.logger.Warn("GetByID: access denied for user=%s to booking id=%s", userID, bookingID)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", bookingID)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает бронирования пользователя, новые первыми
func (s *Service) GetUserBookings(ctx context.Context, userID string) (*models.BookingListResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}

	s.logger.Info("GetUserBookings: fetching bookings for user=%s", userID)

	bookings, err := s.list(ctx, "list_for_user", func(l Ledger) ([]*domain.Booking, error) {
		return l.ListForUser(ctx, userID)
	})
	if err != nil {
		s.logger.Error("GetUserBookings: failed for user=%s: %v", userID, err)
		return nil, err
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%s", len(bookings), userID)
	return models.FromDomainBookingList(bookings), nil
}

// ListAll получает все бронирования, новые первыми
// Проверка прав администратора выполняется в middleware
func (s *Service) ListAll(ctx context.Context) (*models.BookingListResponse, error) {
	s.logger.Info("ListAll: fetching all bookings")

	bookings, err := s.list(ctx, "list_all", func(l Ledger) ([]*domain.Booking, error) {
		return l.ListAll(ctx)
	})
	if err != nil {
		s.logger.Error("ListAll: failed: %v", err)
		return nil, err
	}

	s.logger.Info("ListAll: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Вспомогательные методы

// list выполняет чтение в durable леджере и один раз повторяет его в transient
func (s *Service) list(ctx context.Context, op string, read func(Ledger) ([]*domain.Booking, error)) ([]*domain.Booking, error) {
	bookings, err := read(s.durable)
	if err == nil {
		return bookings, nil
	}
	if !ledger.IsUnavailable(err) {
		return nil, fmt.Errorf("%w: %s - durable ledger error: %v", ErrInternal, op, err)
	}

	s.logger.Warn("%s: durable ledger unavailable, using transient ledger: %v", op, err)
	s.fallbacks.ObserveFallback(op)

	bookings, err = read(s.transient)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	return bookings, nil
}
