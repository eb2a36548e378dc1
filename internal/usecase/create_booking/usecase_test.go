package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmar/excursion-service/internal/domain"
	profileRepo "github.com/velmar/excursion-service/internal/infra/storage/profile"
	slotRepo "github.com/velmar/excursion-service/internal/infra/storage/slot"
	"github.com/velmar/excursion-service/pkg/ptr"
)

// fakeStore in-memory реализация репозиториев для тестов use case
// Один слот, одна экскурсия, бронирования накапливаются в памяти
type fakeStore struct {
	slot      *domain.AvailabilitySlot
	excursion *domain.Excursion
	profiles  map[string]*domain.Profile
	bookings  []*domain.Booking

	guideOpenSlots int
	nextID         int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		slot: &domain.AvailabilitySlot{
			ID:              10,
			ExcursionID:     1,
			SlotDate:        time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			StartTime:       "10:00",
			MaxParticipants: 10,
			IsAvailable:     true,
			AvailableSpots:  10,
		},
		excursion: &domain.Excursion{
			ID:        1,
			GuideID:   5,
			Title:     "Прогулка по старому городу",
			BasePrice: 50.0,
			IsActive:  true,
		},
		profiles:       map[string]*domain.Profile{},
		guideOpenSlots: 1,
		nextID:         100,
	}
}

func (s *fakeStore) GetByID(ctx context.Context, id int64) (*domain.AvailabilitySlot, error) {
	if s.slot == nil || s.slot.ID != id {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *s.slot
	return &copied, nil
}

func (s *fakeStore) UpdateAvailableSpots(ctx context.Context, id int64, availableSpots int, isAvailable bool) error {
	s.slot.AvailableSpots = availableSpots
	s.slot.IsAvailable = isAvailable
	return nil
}

func (s *fakeStore) CountGuideOpenSlots(ctx context.Context, guideID int64, date time.Time) (int, error) {
	return s.guideOpenSlots, nil
}

type fakeExcursions struct{ store *fakeStore }

func (f *fakeExcursions) GetByID(ctx context.Context, id int64) (*domain.Excursion, error) {
	copied := *f.store.excursion
	return &copied, nil
}

type fakeBookings struct{ store *fakeStore }

func (f *fakeBookings) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	created := *booking
	f.store.nextID++
	created.ID = f.store.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	stored := created
	f.store.bookings = append(f.store.bookings, &stored)
	return &created, nil
}

func (f *fakeBookings) SumConfirmedParticipants(ctx context.Context, slotID int64) (int, error) {
	sum := 0
	for _, b := range f.store.bookings {
		if b.SlotID == slotID && b.CountsAgainstCapacity() {
			sum += b.ParticipantsCount
		}
	}
	return sum, nil
}

type fakeProfiles struct{ store *fakeStore }

func (f *fakeProfiles) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	p, ok := f.store.profiles[email]
	if !ok {
		return nil, profileRepo.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfiles) Create(ctx context.Context, email, fullName string) (*domain.Profile, error) {
	p := &domain.Profile{ID: int64(len(f.store.profiles) + 1), Email: email, FullName: fullName}
	f.store.profiles[email] = p
	return p, nil
}

// fakeTxManager выполняет функции последовательно, имитируя сериализацию
type fakeTxManager struct{}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePublisher struct {
	availability []domain.AvailabilityUpdate
	changes      []domain.BookingChange
}

func (p *fakePublisher) PublishAvailability(ctx context.Context, upd domain.AvailabilityUpdate) error {
	p.availability = append(p.availability, upd)
	return nil
}

func (p *fakePublisher) PublishBookingChange(ctx context.Context, change domain.BookingChange) error {
	p.changes = append(p.changes, change)
	return nil
}

type fakeMailer struct {
	sent []string // templateID
}

func (m *fakeMailer) Send(ctx context.Context, templateID, toEmail, toName string, params map[string]string) error {
	m.sent = append(m.sent, templateID)
	return nil
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f *fixedTime) Now() time.Time { return f.t }

func newTestUseCase(store *fakeStore) (*UseCase, *fakePublisher, *fakeMailer) {
	publisher := &fakePublisher{}
	mail := &fakeMailer{}

	uc := NewUseCase(
		store,
		&fakeExcursions{store: store},
		&fakeBookings{store: store},
		&fakeProfiles{store: store},
		&fakeTxManager{},
		publisher,
		mail,
		domain.DefaultCommissionPolicy(),
		nil,
		noopLogger{},
	)
	uc.timeProvider = &fixedTime{t: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}

	return uc, publisher, mail
}

func TestExecute_CreatesPendingBooking(t *testing.T) {
	store := newFakeStore()
	uc, publisher, mail := newTestUseCase(store)

	resp, err := uc.Execute(context.Background(), &Request{
		ExcursionID:       1,
		SlotID:            10,
		ParticipantsCount: 4,
		ClientEmail:       "ivan@example.com",
		ClientName:        "Иван Петров",
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "direct", resp.Channel)
	assert.Equal(t, 200.0, resp.TotalAmount)
	assert.Equal(t, 20.0, resp.CommissionAmount)

	// Pending не резервирует места
	assert.Equal(t, 10, resp.AvailableSpots)
	assert.Equal(t, 10, store.slot.AvailableSpots)

	// События опубликованы после коммита
	require.Len(t, publisher.changes, 1)
	assert.Equal(t, domain.ChangeInsert, publisher.changes[0].EventType)
	require.Len(t, publisher.availability, 1)

	// Новому клиенту уходит приветственное письмо
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "welcome", mail.sent[0])
}

func TestExecute_ResellerChannelCommission(t *testing.T) {
	store := newFakeStore()
	uc, _, _ := newTestUseCase(store)

	resp, err := uc.Execute(context.Background(), &Request{
		ExcursionID:       1,
		SlotID:            10,
		ParticipantsCount: 2,
		ClientEmail:       "anna@example.com",
		ClientName:        "Анна",
		TourOperatorID:    ptr.Ptr(int64(7)),
	})
	require.NoError(t, err)

	assert.Equal(t, "reseller", resp.Channel)
	assert.Equal(t, 100.0, resp.TotalAmount)
	// Комиссия реселлерского бронирования - доля туроператора (20%)
	assert.Equal(t, 20.0, resp.CommissionAmount)
}

func TestExecute_SlotPriceOverride(t *testing.T) {
	store := newFakeStore()
	store.slot.PriceOverride = ptr.Ptr(80.0)
	uc, _, _ := newTestUseCase(store)

	resp, err := uc.Execute(context.Background(), &Request{
		ExcursionID:       1,
		SlotID:            10,
		ParticipantsCount: 2,
		ClientEmail:       "ivan@example.com",
		ClientName:        "Иван",
	})
	require.NoError(t, err)
	assert.Equal(t, 160.0, resp.TotalAmount)
}

func TestExecute_InsufficientSpots(t *testing.T) {
	store := newFakeStore()
	// 4 места уже заняты подтвержденным бронированием
	store.bookings = append(store.bookings, &domain.Booking{
		SlotID:            10,
		Status:            domain.StatusConfirmed,
		ParticipantsCount: 4,
	})
	uc, _, _ := newTestUseCase(store)

	// Свободно 6 - запрос на 7 отклоняется с фактическим остатком
	_, err := uc.Execute(context.Background(), &Request{
		ExcursionID:       1,
		SlotID:            10,
		ParticipantsCount: 7,
		ClientEmail:       "ivan@example.com",
		ClientName:        "Иван",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientSpots)

	var insufficientErr *InsufficientSpotsError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 6, insufficientErr.AvailableSpots)

	// Запрос ровно на остаток проходит
	resp, err := uc.Execute(context.Background(), &Request{
		ExcursionID:       1,
		SlotID:            10,
		ParticipantsCount: 6,
		ClientEmail:       "ivan@example.com",
		ClientName:        "Иван",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
}

func TestExecute_SequentialRequestsSerialize(t *testing.T) {
	store := newFakeStore()
	store.slot.MaxParticipants = 2
	store.slot.AvailableSpots = 2
	uc, _, _ := newTestUseCase(store)

	first, err := uc.Execute(context.Background(), &Request{
		ExcursionID:       1,
		SlotID:            10,
		ParticipantsCount: 2,
		ClientEmail:       "first@example.com",
		ClientName:        "Первый",
	})
	require.NoError(t, err)

	// Подтверждаем первое бронирование - теперь слот занят полностью
	for _, b := range store.bookings {
		if b.ID == first.ID {
			b.Status = domain.StatusConfirmed
		}
	}

	_, err = uc.Execute(context.Background(), &Request{
		ExcursionID:       1,
		SlotID:            10,
		ParticipantsCount: 2,
		ClientEmail:       "second@example.com",
		ClientName:        "Второй",
	})
	assert.ErrorIs(t, err, ErrInsufficientSpots)
}

func TestExecute_SlotUnavailable(t *testing.T) {
	store := newFakeStore()
	store.slot.IsAvailable = false
	uc, _, _ := newTestUseCase(store)

	_, err := uc.Execute(context.Background(), &Request{
		ExcursionID:       1,
		SlotID:            10,
		ParticipantsCount: 2,
		ClientEmail:       "ivan@example.com",
		ClientName:        "Иван",
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_SlotNotFound(t *testing.T) {
	store := newFakeStore()
	uc, _, _ := newTestUseCase(store)

	_, err := uc.Execute(context.Background(), &Request{
		ExcursionID:       1,
		SlotID:            999,
		ParticipantsCount: 2,
		ClientEmail:       "ivan@example.com",
		ClientName:        "Иван",
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_SlotExcursionMismatch(t *testing.T) {
	store := newFakeStore()
	uc, _, _ := newTestUseCase(store)

	_, err := uc.Execute(context.Background(), &Request{
		ExcursionID:       2,
		SlotID:            10,
		ParticipantsCount: 2,
		ClientEmail:       "ivan@example.com",
		ClientName:        "Иван",
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_PastDate(t *testing.T) {
	store := newFakeStore()
	store.slot.SlotDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	uc, _, _ := newTestUseCase(store)

	_, err := uc.Execute(context.Background(), &Request{
		ExcursionID:       1,
		SlotID:            10,
		ParticipantsCount: 2,
		ClientEmail:       "ivan@example.com",
		ClientName:        "Иван",
	})
	assert.ErrorIs(t, err, ErrPastDate)
}

func TestExecute_GuideUnavailable(t *testing.T) {
	store := newFakeStore()
	store.guideOpenSlots = 0
	uc, _, _ := newTestUseCase(store)

	_, err := uc.Execute(context.Background(), &Request{
		ExcursionID:       1,
		SlotID:            10,
		ParticipantsCount: 2,
		ClientEmail:       "ivan@example.com",
		ClientName:        "Иван",
	})
	assert.ErrorIs(t, err, ErrGuideUnavailable)
}

func TestExecute_ExistingProfileGetsNoWelcomeEmail(t *testing.T) {
	store := newFakeStore()
	store.profiles["ivan@example.com"] = &domain.Profile{ID: 1, Email: "ivan@example.com", FullName: "Иван"}
	uc, _, mail := newTestUseCase(store)

	_, err := uc.Execute(context.Background(), &Request{
		ExcursionID:       1,
		SlotID:            10,
		ParticipantsCount: 2,
		ClientEmail:       "ivan@example.com",
		ClientName:        "Иван",
	})
	require.NoError(t, err)
	assert.Empty(t, mail.sent)
}
