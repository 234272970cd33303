package get_schedule

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_schedule: invalid input")

	// ErrUnavailable ни один леджер не вернул занятые слоты
	ErrUnavailable = errors.New("get_schedule: storage unavailable")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("get_schedule: internal error")
)
