package ledger

import (
	"context"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
)

// Disabled durable леджер, который всегда недоступен
// Используется при ledger.durable = "none": все операции обслуживает transient леджер
type Disabled struct{}

func (Disabled) ListBookedSlots(context.Context, string, string) ([]string, error) {
	return nil, ErrUnavailable
}

func (Disabled) Reserve(context.Context, domain.BookingDraft) (*domain.Booking, error) {
	return nil, ErrUnavailable
}

func (Disabled) Cancel(context.Context, string, string) (*domain.Booking, error) {
	return nil, ErrUnavailable
}

func (Disabled) ListForUser(context.Context, string) ([]*domain.Booking, error) {
	return nil, ErrUnavailable
}

func (Disabled) GetByID(context.Context, string) (*domain.Booking, error) {
	return nil, ErrUnavailable
}

func (Disabled) ListAll(context.Context) ([]*domain.Booking, error) {
	return nil, ErrUnavailable
}
