package realtime

import (
	"context"

	"github.com/velmar/excursion-service/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics интерфейс метрик realtime-подсистемы (может быть nil)
type Metrics interface {
	RealtimeSubscriberAdded()
	RealtimeSubscriberRemoved()
	RealtimeUpdateSent()
	ConflictDetected(conflictType string)
}

// SlotReader интерфейс чтения слотов для детектора конфликтов
type SlotReader interface {
	GetByID(ctx context.Context, id int64) (*domain.AvailabilitySlot, error)
}

// BookingCounter интерфейс подсчета подтвержденных участников слота
type BookingCounter interface {
	SumConfirmedParticipants(ctx context.Context, slotID int64) (int, error)
}
