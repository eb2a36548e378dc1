package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/velmar/excursion-service/internal/domain"
)

// conflictBuffer размер буфера канала подписки на конфликты
const conflictBuffer = 8

// ConflictSubscription подписка на конфликты бронирований одной экскурсии
type ConflictSubscription struct {
	excursionID int64
	conflicts   chan domain.BookingConflict

	once sync.Once
	d    *ConflictDetector
}

// Conflicts канал обнаруженных конфликтов
func (s *ConflictSubscription) Conflicts() <-chan domain.BookingConflict {
	return s.conflicts
}

// Unsubscribe снимает подписку и закрывает канал
func (s *ConflictSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.d.removeSubscription(s)
		close(s.conflicts)
	})
}

// ConflictDetector наблюдает за изменениями бронирований и обнаруживает
// овербукинг постфактум: для каждого затронутого слота независимо пересчитывает
// сумму подтвержденных участников и синтезирует конфликт insufficient_spots,
// если пересчитанный остаток отрицателен.
//
// Это страховочный механизм: собственные мутации сервиса сериализуются
// транзакциями и овербукинга не создают, но строки могут менять и внешние
// акторы. Конфликты дедуплицируются по ключу (slotID, тип, bookingID)
type ConflictDetector struct {
	slots    SlotReader
	bookings BookingCounter
	log      Logger
	metrics  Metrics

	mu   sync.RWMutex
	seen map[string]struct{}
	subs map[int64]map[*ConflictSubscription]struct{}
}

// NewConflictDetector создает новый детектор конфликтов
// metrics может быть nil
func NewConflictDetector(slots SlotReader, bookings BookingCounter, m Metrics, log Logger) *ConflictDetector {
	return &ConflictDetector{
		slots:    slots,
		bookings: bookings,
		log:      log,
		metrics:  m,
		seen:     make(map[string]struct{}),
		subs:     make(map[int64]map[*ConflictSubscription]struct{}),
	}
}

// HandleBookingChange обрабатывает событие изменения бронирования
// Регистрируется обработчиком в Broadcaster
func (d *ConflictDetector) HandleBookingChange(ctx context.Context, change domain.BookingChange) {
	// Удаления и неподтвержденные бронирования капасити не трогают
	if change.EventType == domain.ChangeDelete || change.Status != domain.StatusConfirmed {
		return
	}

	slot, err := d.slots.GetByID(ctx, change.SlotID)
	if err != nil {
		d.log.Error("ConflictDetector: failed to get slot id=%d: %v", change.SlotID, err)
		return
	}

	confirmedSum, err := d.bookings.SumConfirmedParticipants(ctx, change.SlotID)
	if err != nil {
		d.log.Error("ConflictDetector: failed to sum confirmed participants for slot id=%d: %v",
			change.SlotID, err)
		return
	}

	remaining := domain.RemainingSpots(slot.MaxParticipants, confirmedSum)
	if remaining >= 0 {
		return
	}

	conflict := domain.BookingConflict{
		SlotID:         change.SlotID,
		ExcursionID:    change.ExcursionID,
		BookingID:      change.BookingID,
		Type:           domain.ConflictInsufficientSpots,
		RequestedSpots: change.ParticipantsCount,
		AvailableSpots: remaining,
		DetectedAt:     time.Now().UTC(),
	}

	if !d.markSeen(conflict) {
		return
	}

	d.log.Warn("ConflictDetector: overbooking detected slot=%d excursion=%d booking=%d remaining=%d",
		conflict.SlotID, conflict.ExcursionID, conflict.BookingID, remaining)

	if d.metrics != nil {
		d.metrics.ConflictDetected(string(conflict.Type))
	}

	d.dispatch(conflict)
}

// Subscribe оформляет подписку на конфликты экскурсии
func (d *ConflictDetector) Subscribe(excursionID int64) *ConflictSubscription {
	sub := &ConflictSubscription{
		excursionID: excursionID,
		conflicts:   make(chan domain.BookingConflict, conflictBuffer),
		d:           d,
	}

	d.mu.Lock()
	if d.subs[excursionID] == nil {
		d.subs[excursionID] = make(map[*ConflictSubscription]struct{})
	}
	d.subs[excursionID][sub] = struct{}{}
	d.mu.Unlock()

	return sub
}

// markSeen возвращает true, если конфликт с таким ключом еще не наблюдался
func (d *ConflictDetector) markSeen(c domain.BookingConflict) bool {
	key := c.DedupKey()

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}

func (d *ConflictDetector) dispatch(c domain.BookingConflict) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for sub := range d.subs[c.ExcursionID] {
		select {
		case sub.conflicts <- c:
		default:
			d.log.Warn("ConflictDetector: subscriber buffer full, dropping conflict for slot=%d", c.SlotID)
		}
	}
}

func (d *ConflictDetector) removeSubscription(sub *ConflictSubscription) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if subsForExcursion, ok := d.subs[sub.excursionID]; ok {
		delete(subsForExcursion, sub)
		if len(subsForExcursion) == 0 {
			delete(d.subs, sub.excursionID)
		}
	}
}
