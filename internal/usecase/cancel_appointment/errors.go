package cancel_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_appointment: invalid input")

	// ErrBookingNotFound бронирование не найдено ни в одном леджере
	ErrBookingNotFound = errors.New("cancel_appointment: booking not found")

	// ErrNotOwner бронирование принадлежит другому пользователю
	ErrNotOwner = errors.New("cancel_appointment: booking belongs to another user")

	// ErrUnavailable ни один леджер не смог обработать запрос
	ErrUnavailable = errors.New("cancel_appointment: storage unavailable")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("cancel_appointment: internal error")
)
