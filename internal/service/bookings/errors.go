package bookings

import "errors"

var (
	// ErrBookingNotFound бронирование не найдено
	ErrBookingNotFound = errors.New("bookings: booking not found")
	// ErrAlreadyCancelled бронирование уже отменено
	ErrAlreadyCancelled = errors.New("bookings: booking already cancelled")
	// ErrAlreadyConfirmed бронирование уже подтверждено
	ErrAlreadyConfirmed = errors.New("bookings: booking already confirmed")
	// ErrCannotConfirm бронирование нельзя подтвердить из текущего статуса
	ErrCannotConfirm = errors.New("bookings: booking cannot be confirmed")
	// ErrCannotComplete бронирование нельзя завершить из текущего статуса
	ErrCannotComplete = errors.New("bookings: booking cannot be completed")
	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("bookings: invalid input")
	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("bookings: internal error")
)
