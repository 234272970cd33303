package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
	"github.com/m04kA/CareClarity-AppointmentService/internal/infra/storage/ledger"
)

var _ ledger.Ledger = (*Ledger)(nil)

func draft(userID, slot string) domain.BookingDraft {
	return domain.BookingDraft{
		DoctorID:   "doc1",
		DoctorName: "Dr. Priya Sharma",
		UserID:     userID,
		UserName:   "User " + userID,
		UserEmail:  userID + "@example.com",
		Date:       "2026-03-10",
		TimeSlot:   slot,
	}
}

func fixedClock() func() time.Time {
	t := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestLedger_ReserveAndConflict(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()

	b, err := l.Reserve(ctx, draft("userA", "10:00 AM"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(b.ID, IDPrefix))
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.False(t, b.CreatedAt.IsZero())

	_, err = l.Reserve(ctx, draft("userB", "10:00 AM"))
	assert.ErrorIs(t, err, ledger.ErrAlreadyBooked)

	other, err := l.Reserve(ctx, draft("userB", "10:30 AM"))
	require.NoError(t, err)
	assert.NotEqual(t, b.ID, other.ID)
}

func TestLedger_ConcurrentReserveHasOneWinner(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()

	for _, n := range []int{1, 2, 16, 64} {
		slot := time.Date(2026, 1, 1, 9, n%60, 0, 0, time.UTC).Format(domain.SlotLabelFormat)
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
				_, err := l.Reserve(ctx, draft("user", slot))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case errors.Is(err, ledger.ErrAlreadyBooked):
					conflicts++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, successes, "n=%d", n)
		assert.Equal(t, n-1, conflicts, "n=%d", n)
	}
}

func TestLedger_ListBookedSlotsIsStable(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()

	for _, slot := range []string{"2:00 PM", "10:00 AM", "11:30 AM"} {
		_, err := l.Reserve(ctx, draft("userA", slot))
		require.NoError(t, err)
	}

	first, err := l.ListBookedSlots(ctx, "doc1", "2026-03-10")
	require.NoError(t, err)
	second, err := l.ListBookedSlots(ctx, "doc1", "2026-03-10")
	require.NoError(t, err)

	assert.Equal(t, []string{"10:00 AM", "11:30 AM", "2:00 PM"}, first)
	assert.Equal(t, first, second)

	empty, err := l.ListBookedSlots(ctx, "doc2", "2026-03-10")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLedger_Cancel(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()

	b, err := l.Reserve(ctx, draft("userA", "10:00 AM"))
	require.NoError(t, err)

	t.Run("not found", func(t *testing.T) {
		_, err := l.Cancel(ctx, "mem-999", "userA")
		assert.ErrorIs(t, err, ledger.ErrBookingNotFound)
	})

	t.Run("foreign user on confirmed booking", func(t *testing.T) {
		_, err := l.Cancel(ctx, b.ID, "userB")
		assert.ErrorIs(t, err, ledger.ErrNotOwner)
	})

	cancelled, err := l.Cancel(ctx, b.ID, "userA")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	t.Run("foreign user on cancelled booking", func(t *testing.T) {
		_, err := l.Cancel(ctx, b.ID, "userB")
		assert.ErrorIs(t, err, ledger.ErrNotOwner)
	})

	t.Run("owner re-cancel is idempotent", func(t *testing.T) {
		again, err := l.Cancel(ctx, b.ID, "userA")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, again.Status)
		assert.Equal(t, *cancelled.CancelledAt, *again.CancelledAt)
	})

	t.Run("slot is freed and old booking stays cancelled", func(t *testing.T) {
		slots, err := l.ListBookedSlots(ctx, "doc1", "2026-03-10")
		require.NoError(t, err)
		assert.NotContains(t, slots, "10:00 AM")

		rebooked, err := l.Reserve(ctx, draft("userB", "10:00 AM"))
		require.NoError(t, err)
		assert.NotEqual(t, b.ID, rebooked.ID)

		old, err := l.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, old.Status)

		_, err = l.Cancel(ctx, b.ID, "userA")
		require.NoError(t, err)
		slots, err = l.ListBookedSlots(ctx, "doc1", "2026-03-10")
		require.NoError(t, err)
		assert.Contains(t, slots, "10:00 AM", "re-cancel must not free someone else's booking")
	})
}

func TestLedger_ListForUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(WithClock(fixedClock()))

	first, err := l.Reserve(ctx, draft("userA", "10:00 AM"))
	require.NoError(t, err)
	_, err = l.Reserve(ctx, draft("userB", "10:30 AM"))
	require.NoError(t, err)
	second, err := l.Reserve(ctx, draft("userA", "11:00 AM"))
	require.NoError(t, err)

	list, err := l.ListForUser(ctx, "userA")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	all, err := l.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLedger_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()

	b, err := l.Reserve(ctx, draft("userA", "10:00 AM"))
	require.NoError(t, err)
	b.Status = domain.StatusCancelled

	stored, err := l.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
}

func TestLedger_Seed(t *testing.T) {
	ctx := context.Background()
	clock := fixedClock()
	l := NewLedger(WithClock(clock))

	l.Seed()
	l.Seed()

	assert.Equal(t, 2, l.Len())
	tomorrow := clock().AddDate(0, 0, 1).Format(domain.DateFormat)

	slots, err := l.ListBookedSlots(ctx, "doc1", tomorrow)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00 AM"}, slots)

	seeded, err := l.ListForUser(ctx, SeedUserID)
	require.NoError(t, err)
	assert.Len(t, seeded, 2)
}
