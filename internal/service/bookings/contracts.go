package bookings

import (
	"context"
	"time"

	"github.com/velmar/excursion-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	SumConfirmedParticipants(ctx context.Context, slotID int64) (int, error)
	Confirm(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.AvailabilitySlot, error)
	UpdateAvailableSpots(ctx context.Context, id int64, availableSpots int, isAvailable bool) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher интерфейс публикации realtime-событий
type Publisher interface {
	PublishAvailability(ctx context.Context, upd domain.AvailabilityUpdate) error
	PublishBookingChange(ctx context.Context, change domain.BookingChange) error
}

// Mailer интерфейс клиента email-рассылки
type Mailer interface {
	Send(ctx context.Context, templateID, toEmail, toName string, params map[string]string) error
}

// Metrics интерфейс бизнес-метрик (может быть nil)
type Metrics interface {
	BookingConfirmed()
	BookingCancelled()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
