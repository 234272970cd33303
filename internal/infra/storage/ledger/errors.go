package ledger

import "errors"

// Бизнес-отказы. Возвращаются любым леджером как есть, на них fallback не выполняется
var (
	// ErrAlreadyBooked слот уже занят подтвержденным бронированием
	ErrAlreadyBooked = errors.New("ledger: slot already booked")

	// ErrBookingNotFound бронирование отсутствует в этом леджере
	ErrBookingNotFound = errors.New("ledger: booking not found")

	// ErrNotOwner бронирование принадлежит другому пользователю
	ErrNotOwner = errors.New("ledger: booking belongs to another user")
)

// ErrUnavailable инфраструктурный отказ хранилища (сеть, таймаут, драйвер)
// Durable леджеры оборачивают в него любую ошибку, которая не является бизнес-отказом
var ErrUnavailable = errors.New("ledger: store unavailable")

// IsUnavailable сообщает, что операцию можно повторить на другом леджере
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsRejection сообщает, что леджер дал окончательный бизнес-ответ
func IsRejection(err error) bool {
	return errors.Is(err, ErrAlreadyBooked) ||
		errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrNotOwner)
}
