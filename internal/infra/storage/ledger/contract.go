// Package ledger describes the store of appointments shared by the durable
// and transient backends.
package ledger

import (
	"context"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
)

// Ledger хранилище бронирований. Гарантирует не более одного подтвержденного
// бронирования на (doctorID, date, timeSlot) в пределах одного экземпляра
type Ledger interface {
	// ListBookedSlots слоты с подтвержденным бронированием у врача на дату
	ListBookedSlots(ctx context.Context, doctorID, date string) ([]string, error)

	// Reserve атомарно создает подтвержденное бронирование или возвращает ErrAlreadyBooked
	Reserve(ctx context.Context, draft domain.BookingDraft) (*domain.Booking, error)

	// Cancel переводит бронирование в cancelled. ErrBookingNotFound или ErrNotOwner
	// Повторная отмена владельцем успешна и не меняет запись
	Cancel(ctx context.Context, bookingID, userID string) (*domain.Booking, error)

	// ListForUser бронирования пользователя, новые первыми
	ListForUser(ctx context.Context, userID string) ([]*domain.Booking, error)

	// GetByID бронирование по ID или ErrBookingNotFound
	GetByID(ctx context.Context, bookingID string) (*domain.Booking, error)

	// ListAll все бронирования, новые первыми
	ListAll(ctx context.Context) ([]*domain.Booking, error)
}

// Names used in logs and metric labels
const (
	NamePostgres = "postgres"
	NameDynamoDB = "dynamodb"
	NameMemory   = "memory"
	NameDisabled = "disabled"
)
