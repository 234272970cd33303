package domain

import (
	"cmp"
	"strings"
	"time"
)

// SlotLabelFormat is the layout of slot labels such as "10:00 AM"
const SlotLabelFormat = "3:04 PM"

// SlotMinutes returns minutes since midnight for a slot label, or -1 if the label is not a clock time
func SlotMinutes(label string) int {
	t, err := time.Parse(SlotLabelFormat, strings.TrimSpace(label))
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}

// CompareSlots orders slot labels by time of day; labels that are not clock times go last, alphabetically
func CompareSlots(a, b string) int {
	ma, mb := SlotMinutes(a), SlotMinutes(b)
	switch {
	case ma >= 0 && mb >= 0:
		if c := cmp.Compare(ma, mb); c != 0 {
			return c
		}
	case ma >= 0:
		return -1
	case mb >= 0:
		return 1
	}
	return strings.Compare(a, b)
}
