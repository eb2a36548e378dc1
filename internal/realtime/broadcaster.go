package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/velmar/excursion-service/internal/domain"
)

const (
	// availabilityChannelPrefix префикс Redis-канала обновлений доступности,
	// полный канал: availability:{excursionID}
	availabilityChannelPrefix = "availability:"

	// bookingsChannelPrefix префикс Redis-канала изменений бронирований
	bookingsChannelPrefix = "bookings:"

	// subscriptionBuffer размер буфера канала подписки
	// Медленный подписчик теряет обновления, а не блокирует рассылку
	subscriptionBuffer = 16
)

var (
	// ErrClosed возвращается при публикации через закрытый broadcaster
	ErrClosed = errors.New("realtime: broadcaster is closed")
)

// Subscription подписка на обновления доступности одной экскурсии
// Подписчик обязан явно вызвать Unsubscribe - автоматического истечения нет
type Subscription struct {
	excursionID int64
	updates     chan domain.AvailabilityUpdate

	once sync.Once
	b    *Broadcaster
}

// Updates канал нормализованных обновлений доступности
// Закрывается при Unsubscribe или остановке broadcaster'а
func (s *Subscription) Updates() <-chan domain.AvailabilityUpdate {
	return s.updates
}

// ExcursionID возвращает экскурсию, на которую оформлена подписка
func (s *Subscription) ExcursionID() int64 {
	return s.excursionID
}

// Unsubscribe снимает подписку и закрывает канал обновлений
// Повторные вызовы безопасны
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.b.removeSubscription(s)
		close(s.updates)
	})
}

// BookingChangeHandler обработчик событий изменения бронирований
type BookingChangeHandler func(ctx context.Context, change domain.BookingChange)

// Broadcaster раздает обновления доступности слотов подписчикам,
// сгруппированным по экскурсии. Явно конструируется и внедряется зависимостью,
// жизненный цикл: NewBroadcaster -> Start -> Close.
//
// При наличии Redis-клиента события публикуются в Redis-каналы и доставляются
// всеми инстансами сервиса через подписку на паттерн; без Redis доставка
// выполняется напрямую внутри процесса
type Broadcaster struct {
	rdb     *redis.Client
	log     Logger
	metrics Metrics

	mu              sync.RWMutex
	subs            map[int64]map[*Subscription]struct{}
	bookingHandlers []BookingChangeHandler
	closed          bool

	pubsub *redis.PubSub
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBroadcaster создает новый broadcaster
// rdb может быть nil - тогда события доставляются только внутри процесса
// metrics может быть nil
func NewBroadcaster(rdb *redis.Client, m Metrics, log Logger) *Broadcaster {
	return &Broadcaster{
		rdb:     rdb,
		log:     log,
		metrics: m,
		subs:    make(map[int64]map[*Subscription]struct{}),
	}
}

// Start запускает потребление Redis-каналов
// Без Redis-клиента ничего не делает
func (b *Broadcaster) Start(ctx context.Context) error {
	if b.rdb == nil {
		b.log.Info("Broadcaster: redis disabled, in-process delivery only")
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	b.pubsub = b.rdb.PSubscribe(runCtx, availabilityChannelPrefix+"*", bookingsChannelPrefix+"*")

	// Дожидаемся подтверждения подписки, чтобы не терять ранние события
	if _, err := b.pubsub.Receive(ctx); err != nil {
		cancel()
		return fmt.Errorf("realtime: failed to subscribe to redis channels: %w", err)
	}

	b.wg.Add(1)
	go b.consume(runCtx)

	b.log.Info("Broadcaster: subscribed to redis patterns %s*, %s*",
		availabilityChannelPrefix, bookingsChannelPrefix)
	return nil
}

// consume читает сообщения Redis и раздает их локальным подписчикам
func (b *Broadcaster) consume(ctx context.Context) {
	defer b.wg.Done()

	ch := b.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.handleRedisMessage(ctx, msg)
		}
	}
}

func (b *Broadcaster) handleRedisMessage(ctx context.Context, msg *redis.Message) {
	switch {
	case strings.HasPrefix(msg.Channel, availabilityChannelPrefix):
		var upd domain.AvailabilityUpdate
		if err := json.Unmarshal([]byte(msg.Payload), &upd); err != nil {
			b.log.Warn("Broadcaster: failed to decode availability update: %v", err)
			return
		}
		b.dispatchLocal(upd)

	case strings.HasPrefix(msg.Channel, bookingsChannelPrefix):
		var change domain.BookingChange
		if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
			b.log.Warn("Broadcaster: failed to decode booking change: %v", err)
			return
		}
		b.handleBookingLocal(ctx, change)
	}
}

// PublishAvailability публикует обновление доступности слота
// С Redis событие уходит в канал экскурсии и возвращается всем инстансам
// через подписку; без Redis доставляется локальным подписчикам напрямую
func (b *Broadcaster) PublishAvailability(ctx context.Context, upd domain.AvailabilityUpdate) error {
	if b.isClosed() {
		return ErrClosed
	}

	if b.rdb == nil {
		b.dispatchLocal(upd)
		return nil
	}

	payload, err := json.Marshal(upd)
	if err != nil {
		return fmt.Errorf("realtime: failed to marshal availability update: %w", err)
	}

	channel := fmt.Sprintf("%s%d", availabilityChannelPrefix, upd.ExcursionID)
	if err := b.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("realtime: failed to publish availability update: %w", err)
	}

	return nil
}

// PublishBookingChange публикует событие изменения бронирования
// для детектора конфликтов и других зарегистрированных обработчиков
func (b *Broadcaster) PublishBookingChange(ctx context.Context, change domain.BookingChange) error {
	if b.isClosed() {
		return ErrClosed
	}

	if b.rdb == nil {
		b.handleBookingLocal(ctx, change)
		return nil
	}

	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("realtime: failed to marshal booking change: %w", err)
	}

	channel := fmt.Sprintf("%s%d", bookingsChannelPrefix, change.ExcursionID)
	if err := b.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("realtime: failed to publish booking change: %w", err)
	}

	return nil
}

// Subscribe оформляет подписку на обновления доступности экскурсии
// Возвращает handle с каналом обновлений и явным Unsubscribe
func (b *Broadcaster) Subscribe(excursionID int64) *Subscription {
	sub := &Subscription{
		excursionID: excursionID,
		updates:     make(chan domain.AvailabilityUpdate, subscriptionBuffer),
		b:           b,
	}

	b.mu.Lock()
	if b.subs[excursionID] == nil {
		b.subs[excursionID] = make(map[*Subscription]struct{})
	}
	b.subs[excursionID][sub] = struct{}{}
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.RealtimeSubscriberAdded()
	}

	return sub
}

// RegisterBookingHandler регистрирует обработчик событий изменения бронирований
// Обработчики вызываются синхронно в порядке регистрации
func (b *Broadcaster) RegisterBookingHandler(h BookingChangeHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bookingHandlers = append(b.bookingHandlers, h)
}

// Close останавливает broadcaster и закрывает все подписки
func (b *Broadcaster) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true

	for _, subsForExcursion := range b.subs {
		for sub := range subsForExcursion {
			sub.once.Do(func() {
				close(sub.updates)
			})
			if b.metrics != nil {
				b.metrics.RealtimeSubscriberRemoved()
			}
		}
	}
	b.subs = make(map[int64]map[*Subscription]struct{})
	b.mu.Unlock()

	if b.cancel != nil {
		b.cancel()
	}
	if b.pubsub != nil {
		_ = b.pubsub.Close()
	}
	b.wg.Wait()

	b.log.Info("Broadcaster: closed")
}

// dispatchLocal раздает обновление локальным подпискам экскурсии
// Переполненные буферы подписчиков пропускаются
func (b *Broadcaster) dispatchLocal(upd domain.AvailabilityUpdate) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs[upd.ExcursionID] {
		select {
		case sub.updates <- upd:
			if b.metrics != nil {
				b.metrics.RealtimeUpdateSent()
			}
		default:
			b.log.Warn("Broadcaster: subscriber buffer full, dropping update for excursion=%d slot=%d",
				upd.ExcursionID, upd.SlotID)
		}
	}
}

// handleBookingLocal вызывает зарегистрированные обработчики изменений бронирований
func (b *Broadcaster) handleBookingLocal(ctx context.Context, change domain.BookingChange) {
	b.mu.RLock()
	handlers := make([]BookingChangeHandler, len(b.bookingHandlers))
	copy(handlers, b.bookingHandlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, change)
	}
}

func (b *Broadcaster) removeSubscription(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subsForExcursion, ok := b.subs[sub.excursionID]; ok {
		if _, exists := subsForExcursion[sub]; exists {
			delete(subsForExcursion, sub)
			if len(subsForExcursion) == 0 {
				delete(b.subs, sub.excursionID)
			}
			if b.metrics != nil {
				b.metrics.RealtimeSubscriberRemoved()
			}
		}
	}
}

func (b *Broadcaster) isClosed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}
