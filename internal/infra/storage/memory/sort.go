package memory

import (
	"cmp"
	"slices"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
)

func sortEntries(entries []*entry) {
	slices.SortFunc(entries, func(a, b *entry) int {
		if c := b.booking.CreatedAt.Compare(a.booking.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})
}

// sortSlots упорядочивает метки в порядке дня, неизвестные метки в конце
func sortSlots(slots []string) {
	slices.SortFunc(slots, domain.CompareSlots)
}
