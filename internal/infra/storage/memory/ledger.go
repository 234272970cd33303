// Package memory implements the transient in-process appointment ledger used
// while the durable ledger is unreachable. Its contents live until process exit.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
	"github.com/m04kA/CareClarity-AppointmentService/internal/infra/storage/ledger"
)

// IDPrefix префикс ID бронирований этого леджера
const IDPrefix = "mem-"

// SeedUserID пользователь демо-бронирований
const SeedUserID = "__seed__"

type entry struct {
	booking *domain.Booking
	seq     uint64
}

// Ledger транзиентный леджер. Проверка слота и запись выполняются
// в одной критической секции под mu
type Ledger struct {
	mu     sync.Mutex
	byID   map[string]*entry
	bySlot map[domain.SlotKey]string // slot -> ID подтвержденного бронирования
	seq    uint64
	now    func() time.Time
}

// Option настройка леджера
type Option func(*Ledger)

// WithClock подменяет источник времени (тесты)
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger создает пустой леджер
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		byID:   make(map[string]*entry),
		bySlot: make(map[domain.SlotKey]string),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Seed добавляет демо-бронирования на завтра: doc1 в 10:00 AM и doc2 в 2:00 PM
func (l *Ledger) Seed() {
	tomorrow := l.now().AddDate(0, 0, 1).Format(domain.DateFormat)
	drafts := []domain.BookingDraft{
		{DoctorID: "doc1", DoctorName: "Dr. Priya Sharma", Date: tomorrow, TimeSlot: "10:00 AM"},
		{DoctorID: "doc2", DoctorName: "Dr. Arjun Mehta", Date: tomorrow, TimeSlot: "2:00 PM"},
	}
	for _, d := range drafts {
		d.UserID = SeedUserID
		d.UserName = "Seed User"
		d.UserEmail = "seed@example.com"
		// slot is free in a fresh ledger; on a repeated Seed the error is expected
		_, _ = l.Reserve(context.Background(), d)
	}
}

func (l *Ledger) ListBookedSlots(_ context.Context, doctorID, date string) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var slots []string
	for key := range l.bySlot {
		if key.DoctorID == doctorID && key.Date == date {
			slots = append(slots, key.TimeSlot)
		}
	}
	sortSlots(slots)
	return slots, nil
}

func (l *Ledger) Reserve(_ context.Context, draft domain.BookingDraft) (*domain.Booking, error) {
	key := draft.SlotKey()

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.bySlot[key]; taken {
		return nil, ledger.ErrAlreadyBooked
	}

	l.seq++
	b := &domain.Booking{
		ID:         fmt.Sprintf("%s%d", IDPrefix, l.seq),
		DoctorID:   draft.DoctorID,
		DoctorName: draft.DoctorName,
		UserID:     draft.UserID,
		UserName:   draft.UserName,
		UserEmail:  draft.UserEmail,
		Date:       draft.Date,
		TimeSlot:   draft.TimeSlot,
		Status:     domain.StatusConfirmed,
		CreatedAt:  l.now(),
	}
	l.byID[b.ID] = &entry{booking: b, seq: l.seq}
	l.bySlot[key] = b.ID

	return b.Clone(), nil
}

func (l *Ledger) Cancel(_ context.Context, bookingID, userID string) (*domain.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byID[bookingID]
	if !ok {
		return nil, ledger.ErrBookingNotFound
	}
	b := e.booking
	if !b.IsOwnedBy(userID) {
		return nil, ledger.ErrNotOwner
	}
	if b.IsCancelled() {
		return b.Clone(), nil
	}

	now := l.now()
	b.Status = domain.StatusCancelled
	b.CancelledAt = &now
	if l.bySlot[b.SlotKey()] == b.ID {
		delete(l.bySlot, b.SlotKey())
	}

	return b.Clone(), nil
}

func (l *Ledger) ListForUser(_ context.Context, userID string) ([]*domain.Booking, error) {
	return l.collect(func(b *domain.Booking) bool { return b.IsOwnedBy(userID) }), nil
}

func (l *Ledger) GetByID(_ context.Context, bookingID string) (*domain.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byID[bookingID]
	if !ok {
		return nil, ledger.ErrBookingNotFound
	}
	return e.booking.Clone(), nil
}

func (l *Ledger) ListAll(_ context.Context) ([]*domain.Booking, error) {
	return l.collect(func(*domain.Booking) bool { return true }), nil
}

// collect возвращает копии подходящих бронирований, новые первыми
// При равном CreatedAt порядок определяет номер вставки
func (l *Ledger) collect(match func(*domain.Booking) bool) []*domain.Booking {
	l.mu.Lock()
	entries := make([]*entry, 0, len(l.byID))
	for _, e := range l.byID {
		if match(e.booking) {
			entries = append(entries, &entry{booking: e.booking.Clone(), seq: e.seq})
		}
	}
	l.mu.Unlock()

	sortEntries(entries)

	out := make([]*domain.Booking, len(entries))
	for i, e := range entries {
		out[i] = e.booking
	}
	return out
}

// Len количество бронирований в леджере
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byID)
}
