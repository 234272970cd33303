package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// IsValid reports whether the status is one of the known values
func (s BookingStatus) IsValid() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// Booking represents a doctor appointment held by a ledger
type Booking struct {
	ID         string
	DoctorID   string
	DoctorName string

	// The user who booked the appointment; only this user may cancel it
	UserID    string
	UserName  string
	UserEmail string

	Date     string // YYYY-MM-DD, doctor-local
	TimeSlot string // one of the doctor's offered slots, e.g. "10:00 AM"
	Status   BookingStatus

	CreatedAt   time.Time
	CancelledAt *time.Time
}

// IsActive returns true if the booking still holds its slot
func (b *Booking) IsActive() bool {
	return b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsOwnedBy returns true if the booking was created by userID
func (b *Booking) IsOwnedBy(userID string) bool {
	return b.UserID == userID
}

// SlotKey returns the key a ledger uses to enforce one confirmed booking per slot
func (b *Booking) SlotKey() SlotKey {
	return SlotKey{DoctorID: b.DoctorID, Date: b.Date, TimeSlot: b.TimeSlot}
}

// Clone returns a deep copy, so callers never share mutable state with a ledger
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	if b.CancelledAt != nil {
		t := *b.CancelledAt
		c.CancelledAt = &t
	}
	return &c
}

// BookingDraft is a booking before a ledger has accepted it
type BookingDraft struct {
	DoctorID   string
	DoctorName string
	UserID     string
	UserName   string
	UserEmail  string
	Date       string
	TimeSlot   string
}

// SlotKey returns the slot the draft wants to reserve
func (d BookingDraft) SlotKey() SlotKey {
	return SlotKey{DoctorID: d.DoctorID, Date: d.Date, TimeSlot: d.TimeSlot}
}

// SlotKey identifies a single bookable slot of a doctor on a date
type SlotKey struct {
	DoctorID string
	Date     string
	TimeSlot string
}

// SortNewestFirst orders bookings by CreatedAt descending, ties broken by ID descending
func SortNewestFirst(bookings []*Booking) {
	sortBookings(bookings)
}
