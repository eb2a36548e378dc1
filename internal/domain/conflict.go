package domain

import (
	"fmt"
	"time"
)

// ConflictType вид обнаруженного конфликта доступности
type ConflictType string

const (
	ConflictInsufficientSpots ConflictType = "insufficient_spots"
	ConflictSlotUnavailable   ConflictType = "slot_unavailable"
	ConflictGuideUnavailable  ConflictType = "guide_unavailable"
)

// BookingConflict производное, не персистентное уведомление о нарушении
// инварианта доступности. Требует ручного разрешения на стороне оператора
type BookingConflict struct {
	SlotID      int64
	ExcursionID int64
	BookingID   int64
	Type        ConflictType

	RequestedSpots int
	AvailableSpots int

	DetectedAt time.Time
}

// DedupKey ключ дедупликации конфликтов
// Включает ID бронирования: два разных бронирования на один слот
// дают два разных конфликта
func (c BookingConflict) DedupKey() string {
	return fmt.Sprintf("%d:%s:%d", c.SlotID, c.Type, c.BookingID)
}
