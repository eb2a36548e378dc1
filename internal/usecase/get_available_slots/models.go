package get_available_slots

import (
	"time"

	"github.com/velmar/excursion-service/pkg/types"
)

// Request модель запроса доступных слотов экскурсии
type Request struct {
	ExcursionID int64
}

// Slot слот с живой (пересчитанной) доступностью
type Slot struct {
	ID              int64
	SlotDate        time.Time
	StartTime       types.TimeString
	MaxParticipants int
	AvailableSpots  int
	IsAvailable     bool
	PricePerPerson  float64
}

// Response модель ответа со слотами экскурсии
type Response struct {
	ExcursionID int64
	Title       string
	Slots       []Slot
}
