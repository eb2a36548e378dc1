package availability_stream

import (
	"time"

	"github.com/velmar/excursion-service/internal/domain"
)

// Типы сообщений исходящего потока
const (
	MessageAvailability = "availability"
	MessageConflict     = "conflict"
)

// StreamMessage конверт сообщения websocket-потока
type StreamMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ConflictPayload представление конфликта для клиента
type ConflictPayload struct {
	SlotID         int64  `json:"slotId"`
	ExcursionID    int64  `json:"excursionId"`
	BookingID      int64  `json:"bookingId"`
	ConflictType   string `json:"conflictType"`
	RequestedSpots int    `json:"requestedSpots"`
	AvailableSpots int    `json:"availableSpots"`
	DetectedAt     string `json:"detectedAt"`
}

func availabilityMessage(upd domain.AvailabilityUpdate) StreamMessage {
	return StreamMessage{
		Type:    MessageAvailability,
		Payload: upd,
	}
}

func conflictMessage(c domain.BookingConflict) StreamMessage {
	return StreamMessage{
		Type: MessageConflict,
		Payload: ConflictPayload{
			SlotID:         c.SlotID,
			ExcursionID:    c.ExcursionID,
			BookingID:      c.BookingID,
			ConflictType:   string(c.Type),
			RequestedSpots: c.RequestedSpots,
			AvailableSpots: c.AvailableSpots,
			DetectedAt:     c.DetectedAt.Format(time.RFC3339),
		},
	}
}
