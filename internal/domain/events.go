package domain

import "time"

// ChangeEventType тип изменения строки
type ChangeEventType string

const (
	ChangeInsert ChangeEventType = "INSERT"
	ChangeUpdate ChangeEventType = "UPDATE"
	ChangeDelete ChangeEventType = "DELETE"
)

// AvailabilityUpdate нормализованное событие изменения доступности слота,
// рассылаемое подписчикам экскурсии
type AvailabilityUpdate struct {
	SlotID         int64     `json:"slotId"`
	ExcursionID    int64     `json:"excursionId"`
	AvailableSpots int       `json:"availableSpots"`
	IsAvailable    bool      `json:"isAvailable"`
	Timestamp      time.Time `json:"timestamp"`
}

// BookingChange событие изменения бронирования
// Потребляется детектором конфликтов
type BookingChange struct {
	EventType         ChangeEventType `json:"eventType"`
	BookingID         int64           `json:"bookingId"`
	SlotID            int64           `json:"slotId"`
	ExcursionID       int64           `json:"excursionId"`
	Status            BookingStatus   `json:"status"`
	ParticipantsCount int             `json:"participantsCount"`
	Timestamp         time.Time       `json:"timestamp"`
}
