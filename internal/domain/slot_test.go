package domain

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotMinutes(t *testing.T) {
	assert.Equal(t, 600, SlotMinutes("10:00 AM"))
	assert.Equal(t, 870, SlotMinutes("2:30 PM"))
	assert.Equal(t, 720, SlotMinutes("12:00 PM"))
	assert.Equal(t, -1, SlotMinutes("morning"))
}

func TestCompareSlots(t *testing.T) {
	slots := []string{"2:00 PM", "evening", "10:30 AM", "4:00 PM", "10:00 AM"}

	slices.SortFunc(slots, CompareSlots)

	assert.Equal(t, []string{"10:00 AM", "10:30 AM", "2:00 PM", "4:00 PM", "evening"}, slots)
}
