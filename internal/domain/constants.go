package domain

import (
	"slices"
	"strings"
	"time"
)

// Default schedule, used for every doctor without an override
const (
	DefaultSlotDurationMinutes = 30
)

// DefaultAvailableDays Monday to Friday
var DefaultAvailableDays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
}

// DefaultTimeSlots slot labels offered when a doctor has no override
var DefaultTimeSlots = []string{
	"10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
	"2:00 PM", "2:30 PM", "3:00 PM", "3:30 PM", "4:00 PM",
}

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 hours
	MaxNameLength          = 200
	MaxTimeSlotLength      = 32
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ParseDate parses a YYYY-MM-DD calendar date without a timezone
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateFormat, date)
}

func sortBookings(bookings []*Booking) {
	slices.SortStableFunc(bookings, func(a, b *Booking) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
}
