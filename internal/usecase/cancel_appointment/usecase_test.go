package cancel_appointment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
	"github.com/m04kA/CareClarity-AppointmentService/internal/infra/storage/ledger"
	"github.com/m04kA/CareClarity-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/CareClarity-AppointmentService/internal/service/schedule"
	"github.com/m04kA/CareClarity-AppointmentService/internal/usecase/book_appointment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeNotifier struct {
	mu        sync.Mutex
	confirmed int
	cancelled []*domain.Booking
}

func (f *fakeNotifier) BookingConfirmed(*domain.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed++
}

func (f *fakeNotifier) BookingCancelled(b *domain.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, b)
}

type nopFallbacks struct{}

func (nopFallbacks) ObserveFallback(string) {}

// stubLedger возвращает заданную ошибку и считает вызовы
type stubLedger struct {
	err   error
	calls int
}

func (s *stubLedger) Cancel(context.Context, string, string) (*domain.Booking, error) {
	s.calls++
	return nil, s.err
}

func reserve(t *testing.T, l *memory.Ledger, userID, slot string) *domain.Booking {
	t.Helper()
	b, err := l.Reserve(context.Background(), domain.BookingDraft{
		DoctorID:   "doc1",
		DoctorName: "Dr. Priya Sharma",
		UserID:     userID,
		Date:       "2026-03-10",
		TimeSlot:   slot,
	})
	require.NoError(t, err)
	return b
}

func TestExecute_CancelsOnDurable(t *testing.T) {
	durable := memory.NewLedger()
	transient := &stubLedger{}
	notifier := &fakeNotifier{}
	uc := NewUseCase(durable, transient, notifier, nopFallbacks{}, nopLogger{})
	b := reserve(t, durable, "userA", "10:00 AM")

	resp, err := uc.Execute(context.Background(), &Request{BookingID: b.ID, UserID: "userA"})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.NotNil(t, resp.CancelledAt)
	assert.Equal(t, 0, transient.calls)
	require.Len(t, notifier.cancelled, 1)
	assert.Equal(t, b.ID, notifier.cancelled[0].ID)
}

func TestExecute_ForeignUserIsRejectedWithoutFallback(t *testing.T) {
	durable := memory.NewLedger()
	transient := &stubLedger{}
	uc := NewUseCase(durable, transient, &fakeNotifier{}, nopFallbacks{}, nopLogger{})
	b := reserve(t, durable, "userA", "10:00 AM")

	_, err := uc.Execute(context.Background(), &Request{BookingID: b.ID, UserID: "userB"})
	assert.ErrorIs(t, err, ErrNotOwner)

	// тот же ответ и после отмены владельцем
	_, err = uc.Execute(context.Background(), &Request{BookingID: b.ID, UserID: "userA"})
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), &Request{BookingID: b.ID, UserID: "userB"})
	assert.ErrorIs(t, err, ErrNotOwner)

	assert.Equal(t, 0, transient.calls)
}

func TestExecute_RepeatedCancelIsIdempotent(t *testing.T) {
	durable := memory.NewLedger()
	uc := NewUseCase(durable, &stubLedger{}, &fakeNotifier{}, nopFallbacks{}, nopLogger{})
	b := reserve(t, durable, "userA", "10:00 AM")

	first, err := uc.Execute(context.Background(), &Request{BookingID: b.ID, UserID: "userA"})
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), &Request{BookingID: b.ID, UserID: "userA"})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), second.Status)
	require.NotNil(t, second.CancelledAt)
	assert.True(t, first.CancelledAt.Equal(*second.CancelledAt))
}

func TestExecute_NotFoundInDurableChecksTransient(t *testing.T) {
	durable := memory.NewLedger()
	transient := memory.NewLedger()
	uc := NewUseCase(durable, transient, &fakeNotifier{}, nopFallbacks{}, nopLogger{})
	b := reserve(t, transient, "userA", "10:00 AM")

	resp, err := uc.Execute(context.Background(), &Request{BookingID: b.ID, UserID: "userA"})
	require.NoError(t, err)
	assert.Equal(t, b.ID, resp.ID)

	_, err = uc.Execute(context.Background(), &Request{BookingID: "missing", UserID: "userA"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_DurableUnavailable(t *testing.T) {
	tests := []struct {
		name      string
		seed      bool
		wantErr   error
		wantFound bool
	}{
		{name: "booking in transient", seed: true, wantFound: true},
		{name: "booking unknown", seed: false, wantErr: ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			durable := &stubLedger{err: ledger.ErrUnavailable}
			transient := memory.NewLedger()
			uc := NewUseCase(durable, transient, &fakeNotifier{}, nopFallbacks{}, nopLogger{})
			id := "mem-42"
			if tt.seed {
				id = reserve(t, transient, "userA", "10:00 AM").ID
			}

			resp, err := uc.Execute(context.Background(), &Request{BookingID: id, UserID: "userA"})

			assert.Equal(t, 1, durable.calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, resp.ID)
		})
	}
}

func TestExecute_BothUnavailable(t *testing.T) {
	notifier := &fakeNotifier{}
	uc := NewUseCase(
		&stubLedger{err: ledger.ErrUnavailable},
		&stubLedger{err: ledger.ErrUnavailable},
		notifier, nopFallbacks{}, nopLogger{},
	)

	_, err := uc.Execute(context.Background(), &Request{BookingID: "b1", UserID: "userA"})

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, notifier.cancelled)
}

func TestExecute_UnexpectedError(t *testing.T) {
	transient := &stubLedger{}
	uc := NewUseCase(&stubLedger{err: errors.New("boom")}, transient, &fakeNotifier{}, nopFallbacks{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: "b1", UserID: "userA"})

	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 0, transient.calls)
}

func TestExecute_InvalidInput(t *testing.T) {
	durable := &stubLedger{}
	uc := NewUseCase(durable, &stubLedger{}, &fakeNotifier{}, nopFallbacks{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: " ", UserID: "userA"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BookingID: "b1"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, 0, durable.calls)
}

// A бронирует, B получает конфликт, A отменяет, B бронирует освободившийся слот
func TestBookCancelRebookScenario(t *testing.T) {
	for _, durableDown := range []bool{false, true} {
		t.Run(map[bool]string{false: "durable", true: "transient"}[durableDown], func(t *testing.T) {
			var durable interface {
				book_appointment.Ledger
				Ledger
			} = memory.NewLedger()
			if durableDown {
				durable = ledger.Disabled{}
			}
			transient := memory.NewLedger()
			notifier := &fakeNotifier{}

			book := book_appointment.NewUseCase(durable, transient, schedule.NewResolver(), notifier, nopFallbacks{}, nopLogger{})
			cancel := NewUseCase(durable, transient, notifier, nopFallbacks{}, nopLogger{})

			request := func(userID string) *book_appointment.Request {
				return &book_appointment.Request{
					UserID:     userID,
					DoctorID:   "doc1",
					DoctorName: "Dr. Priya Sharma",
					Date:       "2026-03-10",
					TimeSlot:   "10:00 AM",
				}
			}
			ctx := context.Background()

			a, err := book.Execute(ctx, request("userA"))
			require.NoError(t, err)

			_, err = book.Execute(ctx, request("userB"))
			require.ErrorIs(t, err, book_appointment.ErrAlreadyBooked)

			_, err = cancel.Execute(ctx, &Request{BookingID: a.ID, UserID: "userA"})
			require.NoError(t, err)

			b, err := book.Execute(ctx, request("userB"))
			require.NoError(t, err)
			assert.NotEqual(t, a.ID, b.ID)
			assert.Equal(t, 2, notifier.confirmed)
			assert.Len(t, notifier.cancelled, 1)
		})
	}
}
