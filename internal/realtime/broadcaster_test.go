package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmar/excursion-service/internal/domain"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func update(excursionID, slotID int64, spots int) domain.AvailabilityUpdate {
	return domain.AvailabilityUpdate{
		SlotID:         slotID,
		ExcursionID:    excursionID,
		AvailableSpots: spots,
		IsAvailable:    spots > 0,
		Timestamp:      time.Now(),
	}
}

func TestBroadcaster_InProcessDelivery(t *testing.T) {
	b := NewBroadcaster(nil, nil, noopLogger{})
	require.NoError(t, b.Start(context.Background()))
	defer b.Close()

	sub := b.Subscribe(1)
	other := b.Subscribe(2)

	require.NoError(t, b.PublishAvailability(context.Background(), update(1, 10, 5)))

	select {
	case upd := <-sub.Updates():
		assert.Equal(t, int64(10), upd.SlotID)
		assert.Equal(t, 5, upd.AvailableSpots)
	case <-time.After(time.Second):
		t.Fatal("expected update for excursion 1")
	}

	// Подписчик другой экскурсии событие не получает
	select {
	case <-other.Updates():
		t.Fatal("unexpected update for excursion 2")
	default:
	}
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := NewBroadcaster(nil, nil, noopLogger{})
	require.NoError(t, b.Start(context.Background()))
	defer b.Close()

	sub := b.Subscribe(1)
	sub.Unsubscribe()
	// Повторный Unsubscribe безопасен
	sub.Unsubscribe()

	// Канал закрыт
	_, ok := <-sub.Updates()
	assert.False(t, ok)

	// Публикация после отписки не паникует
	require.NoError(t, b.PublishAvailability(context.Background(), update(1, 10, 3)))
}

func TestBroadcaster_CloseClosesSubscriptions(t *testing.T) {
	b := NewBroadcaster(nil, nil, noopLogger{})
	require.NoError(t, b.Start(context.Background()))

	sub := b.Subscribe(1)
	b.Close()

	_, ok := <-sub.Updates()
	assert.False(t, ok)

	// Публикация через закрытый broadcaster возвращает ошибку
	err := b.PublishAvailability(context.Background(), update(1, 10, 3))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestBroadcaster_BookingHandlers(t *testing.T) {
	b := NewBroadcaster(nil, nil, noopLogger{})
	require.NoError(t, b.Start(context.Background()))
	defer b.Close()

	var received []domain.BookingChange
	b.RegisterBookingHandler(func(ctx context.Context, change domain.BookingChange) {
		received = append(received, change)
	})

	change := domain.BookingChange{
		EventType:   domain.ChangeInsert,
		BookingID:   100,
		SlotID:      10,
		ExcursionID: 1,
		Status:      domain.StatusPending,
	}
	require.NoError(t, b.PublishBookingChange(context.Background(), change))

	require.Len(t, received, 1)
	assert.Equal(t, int64(100), received[0].BookingID)
}

func TestBroadcaster_SlowSubscriberDropsUpdates(t *testing.T) {
	b := NewBroadcaster(nil, nil, noopLogger{})
	require.NoError(t, b.Start(context.Background()))
	defer b.Close()

	sub := b.Subscribe(1)

	// Переполняем буфер: рассылка не блокируется, лишнее отбрасывается
	for i := 0; i < subscriptionBuffer+5; i++ {
		require.NoError(t, b.PublishAvailability(context.Background(), update(1, 10, i)))
	}

	count := 0
	for {
		select {
		case <-sub.Updates():
			count++
		default:
			assert.Equal(t, subscriptionBuffer, count)
			return
		}
	}
}
