package create_booking

import (
	"errors"
	"fmt"
)

var (
	// ErrSlotUnavailable возвращается, когда слот не существует, снят с продажи
	// или его экскурсия отсутствует/неактивна
	ErrSlotUnavailable = errors.New("create_booking: slot is not available")

	// ErrPastDate возвращается, когда дата слота раньше сегодняшнего дня
	ErrPastDate = errors.New("create_booking: slot date is in the past")

	// ErrInsufficientSpots возвращается, когда запрошено больше мест, чем свободно
	ErrInsufficientSpots = errors.New("create_booking: insufficient spots")

	// ErrGuideUnavailable возвращается, когда у гида нет ни одного открытого
	// слота на дату бронирования
	ErrGuideUnavailable = errors.New("create_booking: guide is not available on this date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// InsufficientSpotsError ошибка нехватки мест с фактическим остатком
// для отображения клиенту. Сопоставляется с ErrInsufficientSpots через errors.Is
type InsufficientSpotsError struct {
	AvailableSpots int
}

func (e *InsufficientSpotsError) Error() string {
	return fmt.Sprintf("create_booking: insufficient spots, %d available", e.AvailableSpots)
}

// Is позволяет errors.Is(err, ErrInsufficientSpots)
func (e *InsufficientSpotsError) Is(target error) bool {
	return target == ErrInsufficientSpots
}
