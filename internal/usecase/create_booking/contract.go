package create_booking

import (
	"context"
	"time"

	"github.com/velmar/excursion-service/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.AvailabilitySlot, error)
	UpdateAvailableSpots(ctx context.Context, id int64, availableSpots int, isAvailable bool) error
	CountGuideOpenSlots(ctx context.Context, guideID int64, date time.Time) (int, error)
}

// ExcursionRepository интерфейс репозитория экскурсий
type ExcursionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Excursion, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	SumConfirmedParticipants(ctx context.Context, slotID int64) (int, error)
}

// ProfileRepository интерфейс репозитория профилей клиентов
type ProfileRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	Create(ctx context.Context, email, fullName string) (*domain.Profile, error)
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
	BookingCreated()
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
