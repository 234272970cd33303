package book_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_appointment: invalid input")

	// ErrInvalidSlot врач не принимает в этот день недели или не предлагает этот слот
	ErrInvalidSlot = errors.New("book_appointment: slot is not offered by this doctor")

	// ErrAlreadyBooked слот уже занят
	ErrAlreadyBooked = errors.New("book_appointment: slot already booked")

	// ErrUnavailable ни один леджер не смог обработать запрос
	ErrUnavailable = errors.New("book_appointment: storage unavailable")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("book_appointment: internal error")
)
