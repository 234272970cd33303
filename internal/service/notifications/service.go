package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
	"github.com/m04kA/CareClarity-AppointmentService/internal/integrations/email"
)

// Service отправляет письма о бронированиях в фоне
// Ошибки отправки логируются и учитываются в метриках, вызывающему не возвращаются
type Service struct {
	sender  EmailSender
	metrics Recorder
	timeout time.Duration
	logger  Logger
	wg      sync.WaitGroup
}

// NewService создает сервис уведомлений. metrics может быть nil
func NewService(sender EmailSender, metrics Recorder, timeout time.Duration, logger Logger) *Service {
	return &Service{
		sender:  sender,
		metrics: metrics,
		timeout: timeout,
		logger:  logger,
	}
}

// BookingConfirmed отправляет письмо о подтверждении бронирования, не дожидаясь результата
func (s *Service) BookingConfirmed(b *domain.Booking) {
	s.dispatch(KindBookingConfirmed, b)
}

// BookingCancelled отправляет письмо об отмене бронирования, не дожидаясь результата
func (s *Service) BookingCancelled(b *domain.Booking) {
	s.dispatch(KindBookingCancelled, b)
}

// Wait дожидается завершения отправленных уведомлений (graceful shutdown, тесты)
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) dispatch(kind Kind, b *domain.Booking) {
	if b == nil {
		return
	}
	booking := b.Clone()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		err := s.send(kind, booking)
		if s.metrics != nil {
			s.metrics.ObserveNotification(string(kind), err)
		}
		if err != nil {
			s.logger.Warn("Notification %s for booking id=%s failed: %v", kind, booking.ID, err)
			return
		}
		s.logger.Info("Notification %s sent for booking id=%s", kind, booking.ID)
	}()
}

func (s *Service) send(kind Kind, b *domain.Booking) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("notifications: panic while sending %s: %v", kind, p)
		}
	}()

	if b.UserEmail == "" {
		return email.ErrNoRecipient
	}

	subject, text, html, err := render(kind, b)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	return s.sender.Send(ctx, email.Message{
		To:      b.UserEmail,
		ToName:  b.UserName,
		Subject: subject,
		Body:    text,
		HTML:    html,
	})
}
