package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_CountsAgainstCapacity(t *testing.T) {
	// Места занимают только подтвержденные бронирования
	assert.False(t, (&Booking{Status: StatusPending}).CountsAgainstCapacity())
	assert.True(t, (&Booking{Status: StatusConfirmed}).CountsAgainstCapacity())
	assert.False(t, (&Booking{Status: StatusCancelled}).CountsAgainstCapacity())
	assert.False(t, (&Booking{Status: StatusCompleted}).CountsAgainstCapacity())
}

func TestBooking_StatusTransitions(t *testing.T) {
	pending := &Booking{Status: StatusPending}
	confirmed := &Booking{Status: StatusConfirmed}
	cancelled := &Booking{Status: StatusCancelled}
	completed := &Booking{Status: StatusCompleted}

	assert.True(t, pending.CanBeConfirmed())
	assert.False(t, confirmed.CanBeConfirmed())
	assert.False(t, cancelled.CanBeConfirmed())

	assert.True(t, pending.CanBeCancelled())
	assert.True(t, confirmed.CanBeCancelled())
	assert.False(t, cancelled.CanBeCancelled())
	assert.False(t, completed.CanBeCancelled())

	assert.True(t, confirmed.CanBeCompleted())
	assert.False(t, pending.CanBeCompleted())
}

func TestSlot_IsInPast(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	yesterday := &AvailabilitySlot{SlotDate: time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)}
	today := &AvailabilitySlot{SlotDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)}
	tomorrow := &AvailabilitySlot{SlotDate: time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)}

	assert.True(t, yesterday.IsInPast(now))
	// Сегодняшний слот бронировать можно
	assert.False(t, today.IsInPast(now))
	assert.False(t, tomorrow.IsInPast(now))
}

func TestSlot_EffectivePrice(t *testing.T) {
	override := 150.0

	withOverride := &AvailabilitySlot{PriceOverride: &override}
	assert.Equal(t, 150.0, withOverride.EffectivePrice(100.0))

	withoutOverride := &AvailabilitySlot{}
	assert.Equal(t, 100.0, withoutOverride.EffectivePrice(100.0))
}

func TestBookingConflict_DedupKey(t *testing.T) {
	a := BookingConflict{SlotID: 7, Type: ConflictInsufficientSpots, BookingID: 100}
	b := BookingConflict{SlotID: 7, Type: ConflictInsufficientSpots, BookingID: 101}
	c := BookingConflict{SlotID: 7, Type: ConflictSlotUnavailable, BookingID: 100}

	// Разные бронирования на один слот - разные конфликты
	assert.NotEqual(t, a.DedupKey(), b.DedupKey())
	assert.NotEqual(t, a.DedupKey(), c.DedupKey())
	assert.Equal(t, a.DedupKey(), BookingConflict{SlotID: 7, Type: ConflictInsufficientSpots, BookingID: 100}.DedupKey())
}
