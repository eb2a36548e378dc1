package get_available_slots

import "errors"

var (
	// ErrExcursionNotFound возвращается, когда экскурсия не найдена или неактивна
	ErrExcursionNotFound = errors.New("get_available_slots: excursion not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
