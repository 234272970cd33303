package domain

import (
	"slices"
	"time"
)

// DoctorSchedule is the weekly availability template of a doctor
type DoctorSchedule struct {
	DoctorID            string
	AvailableDays       []time.Weekday // 0=Sunday ... 6=Saturday
	TimeSlots           []string       // ordered slot labels
	SlotDurationMinutes int
}

// IsAvailableOn returns true if the doctor works on the weekday of date
func (s *DoctorSchedule) IsAvailableOn(date time.Time) bool {
	return slices.Contains(s.AvailableDays, date.Weekday())
}

// OffersSlot returns true if timeSlot is one of the doctor's slot labels
func (s *DoctorSchedule) OffersSlot(timeSlot string) bool {
	return slices.Contains(s.TimeSlots, timeSlot)
}

// Clone returns a copy that does not share slices with s
func (s DoctorSchedule) Clone() DoctorSchedule {
	s.AvailableDays = slices.Clone(s.AvailableDays)
	s.TimeSlots = slices.Clone(s.TimeSlots)
	return s
}
