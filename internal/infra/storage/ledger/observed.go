package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
)

// Recorder принимает результат операции леджера (pkg/metrics.Metrics)
type Recorder interface {
	ObserveLedger(ledger, op, outcome string)
}

// Observed оборачивает леджер: ограничивает каждый вызов таймаутом
// и записывает результат в метрики
type Observed struct {
	inner   Ledger
	name    string
	timeout time.Duration
	rec     Recorder
}

// NewObserved создает обертку. timeout <= 0 отключает ограничение, rec может быть nil
func NewObserved(inner Ledger, name string, timeout time.Duration, rec Recorder) *Observed {
	return &Observed{inner: inner, name: name, timeout: timeout, rec: rec}
}

// Name имя обернутого леджера
func (o *Observed) Name() string {
	return o.name
}

func (o *Observed) ListBookedSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	ctx, cancel := o.bound(ctx)
	defer cancel()
	slots, err := o.inner.ListBookedSlots(ctx, doctorID, date)
	return slots, o.observe("list_booked_slots", err)
}

func (o *Observed) Reserve(ctx context.Context, draft domain.BookingDraft) (*domain.Booking, error) {
	ctx, cancel := o.bound(ctx)
	defer cancel()
	b, err := o.inner.Reserve(ctx, draft)
	return b, o.observe("reserve", err)
}

func (o *Observed) Cancel(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
	ctx, cancel := o.bound(ctx)
	defer cancel()
	b, err := o.inner.Cancel(ctx, bookingID, userID)
	return b, o.observe("cancel", err)
}

func (o *Observed) ListForUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	ctx, cancel := o.bound(ctx)
	defer cancel()
	list, err := o.inner.ListForUser(ctx, userID)
	return list, o.observe("list_for_user", err)
}

func (o *Observed) GetByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	ctx, cancel := o.bound(ctx)
	defer cancel()
	b, err := o.inner.GetByID(ctx, bookingID)
	return b, o.observe("get_by_id", err)
}

func (o *Observed) ListAll(ctx context.Context) ([]*domain.Booking, error) {
	ctx, cancel := o.bound(ctx)
	defer cancel()
	list, err := o.inner.ListAll(ctx)
	return list, o.observe("list_all", err)
}

func (o *Observed) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, o.timeout)
}

// observe классифицирует ошибку. Все, что не является бизнес-отказом,
// включая истекший дедлайн, считается недоступностью хранилища
func (o *Observed) observe(op string, err error) error {
	outcome := "success"
	switch {
	case err == nil:
	case IsRejection(err):
		outcome = "rejected"
	default:
		outcome = "unavailable"
		if !IsUnavailable(err) {
			err = fmt.Errorf("%w: %s %s: %v", ErrUnavailable, o.name, op, err)
		}
	}
	if o.rec != nil {
		o.rec.ObserveLedger(o.name, op, outcome)
	}
	return err
}
