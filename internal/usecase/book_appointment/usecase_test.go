package book_appointment

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
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeNotifier struct {
	mu     sync.Mutex
	booked []*domain.Booking
}

func (f *fakeNotifier) BookingConfirmed(b *domain.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.booked = append(f.booked, b)
}

type fakeFallbacks struct {
	mu  sync.Mutex
	ops []string
}

func (f *fakeFallbacks) ObserveFallback(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, op)
}

// countingLedger records calls and optionally fails every Reserve
type countingLedger struct {
	mu    sync.Mutex
	calls int
	err   error
	inner Ledger
}

func (c *countingLedger) Reserve(ctx context.Context, d domain.BookingDraft) (*domain.Booking, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.Reserve(ctx, d)
}

type fixture struct {
	uc        *UseCase
	durable   *countingLedger
	transient *countingLedger
	notifier  *fakeNotifier
	fallbacks *fakeFallbacks
}

func newFixture(durableErr, transientErr error) *fixture {
	f := &fixture{
		durable:   &countingLedger{err: durableErr, inner: memory.NewLedger()},
		transient: &countingLedger{err: transientErr, inner: memory.NewLedger()},
		notifier:  &fakeNotifier{},
		fallbacks: &fakeFallbacks{},
	}
	f.uc = NewUseCase(f.durable, f.transient, schedule.NewResolver(), f.notifier, f.fallbacks, nopLogger{})
	return f
}

func request(userID, slot string) *Request {
	return &Request{
		UserID:     userID,
		UserName:   "User " + userID,
		UserEmail:  userID + "@example.com",
		DoctorID:   "doc1",
		DoctorName: "Dr. Priya Sharma",
		Date:       "2026-03-10", // Tuesday
		TimeSlot:   slot,
	}
}

func TestExecute_BooksOnDurable(t *testing.T) {
	f := newFixture(nil, nil)

	resp, err := f.uc.Execute(context.Background(), request("userA", "10:00 AM"))

	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, 1, f.durable.calls)
	assert.Equal(t, 0, f.transient.calls)
	assert.Empty(t, f.fallbacks.ops)
	require.Len(t, f.notifier.booked, 1)
	assert.Equal(t, resp.ID, f.notifier.booked[0].ID)
}

func TestExecute_ConflictDoesNotFallBack(t *testing.T) {
	f := newFixture(nil, nil)

	_, err := f.uc.Execute(context.Background(), request("userA", "10:00 AM"))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), request("userB", "10:00 AM"))

	assert.ErrorIs(t, err, ErrAlreadyBooked)
	assert.Equal(t, 2, f.durable.calls)
	assert.Equal(t, 0, f.transient.calls)
	assert.Len(t, f.notifier.booked, 1)
}

func TestExecute_FallsBackWhenDurableUnavailable(t *testing.T) {
	f := newFixture(ledger.ErrUnavailable, nil)

	resp, err := f.uc.Execute(context.Background(), request("userA", "10:00 AM"))

	require.NoError(t, err)
	assert.True(t, len(resp.ID) > len(memory.IDPrefix))
	assert.Equal(t, 1, f.durable.calls)
	assert.Equal(t, 1, f.transient.calls)
	assert.Equal(t, []string{"reserve"}, f.fallbacks.ops)
	assert.Len(t, f.notifier.booked, 1)

	_, err = f.uc.Execute(context.Background(), request("userB", "10:00 AM"))
	assert.ErrorIs(t, err, ErrAlreadyBooked, "the transient ledger arbitrates while durable is down")
}

func TestExecute_BothLedgersUnavailable(t *testing.T) {
	f := newFixture(ledger.ErrUnavailable, ledger.ErrUnavailable)

	_, err := f.uc.Execute(context.Background(), request("userA", "10:00 AM"))

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, f.transient.calls, "transient is tried exactly once")
	assert.Empty(t, f.notifier.booked)
}

func TestExecute_UnexpectedDurableError(t *testing.T) {
	f := newFixture(errors.New("not classified"), nil)

	_, err := f.uc.Execute(context.Background(), request("userA", "10:00 AM"))

	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 0, f.transient.calls)
}

func TestExecute_InvalidSlotNeverReachesLedger(t *testing.T) {
	tests := []struct {
		name string
		date string
		slot string
	}{
		{name: "slot not offered", date: "2026-03-10", slot: "9:00 AM"},
		{name: "saturday", date: "2026-03-14", slot: "10:00 AM"},
		{name: "sunday", date: "2026-03-15", slot: "10:00 AM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(nil, nil)
			req := request("userA", tt.slot)
			req.Date = tt.date

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidSlot)
			assert.Equal(t, 0, f.durable.calls)
			assert.Equal(t, 0, f.transient.calls)
		})
	}
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{name: "no user", mutate: func(r *Request) { r.UserID = "" }},
		{name: "no doctor", mutate: func(r *Request) { r.DoctorID = "  " }},
		{name: "no doctor name", mutate: func(r *Request) { r.DoctorName = "" }},
		{name: "bad date", mutate: func(r *Request) { r.Date = "10/03/2026" }},
		{name: "impossible date", mutate: func(r *Request) { r.Date = "2026-02-30" }},
		{name: "no slot", mutate: func(r *Request) { r.TimeSlot = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(nil, nil)
			req := request("userA", "10:00 AM")
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, 0, f.durable.calls)
		})
	}
}

func TestExecute_ConcurrentRequestsHaveOneWinner(t *testing.T) {
	for _, durableErr := range []error{nil, ledger.ErrUnavailable} {
		f := newFixture(durableErr, nil)
		const n = 32

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.uc.Execute(context.Background(), request("user", "3:00 PM"))
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					successes++
				} else if errors.Is(err, ErrAlreadyBooked) {
					conflicts++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, n-1, conflicts)
	}
}
