package domain

import (
	"time"

	"github.com/velmar/excursion-service/pkg/types"
)

// AvailabilitySlot represents a bookable (excursion, date, start time) instance
// with its own capacity
type AvailabilitySlot struct {
	ID              int64
	ExcursionID     int64
	SlotDate        time.Time
	StartTime       types.TimeString
	MaxParticipants int
	PriceOverride   *float64
	IsAvailable     bool

	// AvailableSpots денормализованный кэш свободных мест
	// Инвариант: available_spots == max(0, max_participants - сумма участников
	// подтвержденных бронирований). Пересчитывается при каждой мутации бронирований
	// внутри той же транзакции (см. usecase/create_booking и service/bookings)
	AvailableSpots int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectivePrice возвращает цену за участника: переопределение слота,
// если оно задано, иначе базовая цена экскурсии
func (s *AvailabilitySlot) EffectivePrice(excursionBasePrice float64) float64 {
	if s.PriceOverride != nil {
		return *s.PriceOverride
	}
	return excursionBasePrice
}

// IsFull returns true if the slot has no available spots
func (s *AvailabilitySlot) IsFull() bool {
	return s.AvailableSpots <= 0
}

// IsInPast возвращает true, если дата слота строго раньше сегодняшнего дня
// Сравнение только по дате, время игнорируется
func (s *AvailabilitySlot) IsInPast(now time.Time) bool {
	slotDay := time.Date(s.SlotDate.Year(), s.SlotDate.Month(), s.SlotDate.Day(), 0, 0, 0, 0, s.SlotDate.Location())
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return slotDay.Before(nowDay)
}
