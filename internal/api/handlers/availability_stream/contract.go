package availability_stream

import (
	"github.com/velmar/excursion-service/internal/realtime"
)

// AvailabilitySubscriber источник подписок на обновления доступности
type AvailabilitySubscriber interface {
	Subscribe(excursionID int64) *realtime.Subscription
}

// ConflictSubscriber источник подписок на конфликты бронирований
type ConflictSubscriber interface {
	Subscribe(excursionID int64) *realtime.ConflictSubscription
}

type Metrics interface {
	RealtimeSubscriberAdded()
	RealtimeSubscriberRemoved()
	RealtimeUpdateSent()
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
