package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmar/excursion-service/internal/domain"
	bookingRepo "github.com/velmar/excursion-service/internal/infra/storage/booking"
	slotRepo "github.com/velmar/excursion-service/internal/infra/storage/slot"
)

// fakeRepo in-memory реализация репозиториев бронирований и слотов
type fakeRepo struct {
	bookings map[int64]*domain.Booking
	slot     *domain.AvailabilitySlot

	spotUpdates int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings: map[int64]*domain.Booking{},
		slot: &domain.AvailabilitySlot{
			ID:              10,
			ExcursionID:     1,
			SlotDate:        time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			StartTime:       "10:00",
			MaxParticipants: 10,
			IsAvailable:     true,
			AvailableSpots:  10,
		},
	}
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRepo) ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if filter.ClientEmail != nil && b.ClientEmail != *filter.ClientEmail {
			continue
		}
		if filter.TourOperatorID != nil && (b.TourOperatorID == nil || *b.TourOperatorID != *filter.TourOperatorID) {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeRepo) SumConfirmedParticipants(ctx context.Context, slotID int64) (int, error) {
	sum := 0
	for _, b := range f.bookings {
		if b.SlotID == slotID && b.CountsAgainstCapacity() {
			sum += b.ParticipantsCount
		}
	}
	return sum, nil
}

func (f *fakeRepo) Confirm(ctx context.Context, id int64) error {
	now := time.Now()
	f.bookings[id].Status = domain.StatusConfirmed
	f.bookings[id].ConfirmedAt = &now
	return nil
}

func (f *fakeRepo) Cancel(ctx context.Context, id int64) error {
	now := time.Now()
	f.bookings[id].Status = domain.StatusCancelled
	f.bookings[id].CancelledAt = &now
	return nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	f.bookings[id].Status = status
	return nil
}

// SlotRepository
func (f *fakeRepo) GetSlotByID(ctx context.Context, id int64) (*domain.AvailabilitySlot, error) {
	if f.slot == nil || f.slot.ID != id {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *f.slot
	return &copied, nil
}

func (f *fakeRepo) UpdateAvailableSpots(ctx context.Context, id int64, availableSpots int, isAvailable bool) error {
	f.spotUpdates++
	f.slot.AvailableSpots = availableSpots
	f.slot.IsAvailable = isAvailable
	return nil
}

// slotAdapter подгоняет fakeRepo под SlotRepository
type slotAdapter struct{ repo *fakeRepo }

func (a *slotAdapter) GetByID(ctx context.Context, id int64) (*domain.AvailabilitySlot, error) {
	return a.repo.GetSlotByID(ctx, id)
}

func (a *slotAdapter) UpdateAvailableSpots(ctx context.Context, id int64, availableSpots int, isAvailable bool) error {
	return a.repo.UpdateAvailableSpots(ctx, id, availableSpots, isAvailable)
}

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

type fakeMailer struct{ sent []string }

func (m *fakeMailer) Send(ctx context.Context, templateID, toEmail, toName string, params map[string]string) error {
	m.sent = append(m.sent, templateID)
	return nil
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func newTestService(repo *fakeRepo) (*Service, *fakePublisher, *fakeMailer) {
	publisher := &fakePublisher{}
	mail := &fakeMailer{}
	svc := NewService(repo, &slotAdapter{repo: repo}, &fakeTxManager{}, publisher, mail, nil, noopLogger{})
	return svc, publisher, mail
}

func pendingBooking(id int64) *domain.Booking {
	return &domain.Booking{
		ID:                id,
		SlotID:            10,
		ExcursionID:       1,
		ClientEmail:       "ivan@example.com",
		ClientName:        "Иван",
		Channel:           domain.ChannelDirect,
		ParticipantsCount: 3,
		Status:            domain.StatusPending,
	}
}

func TestConfirm_ReservesCapacity(t *testing.T) {
	repo := newFakeRepo()
	repo.bookings[1] = pendingBooking(1)
	svc, publisher, mail := newTestService(repo)

	result, err := svc.Confirm(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, result.Status)

	// Подтверждение резервирует места: 10 - 3 = 7
	assert.Equal(t, 7, repo.slot.AvailableSpots)
	assert.True(t, repo.slot.IsAvailable)

	require.Len(t, publisher.availability, 1)
	assert.Equal(t, 7, publisher.availability[0].AvailableSpots)
	require.Len(t, publisher.changes, 1)
	assert.Equal(t, domain.StatusConfirmed, publisher.changes[0].Status)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "booking_confirmed", mail.sent[0])
}

func TestConfirm_AlreadyConfirmed(t *testing.T) {
	repo := newFakeRepo()
	b := pendingBooking(1)
	b.Status = domain.StatusConfirmed
	repo.bookings[1] = b
	svc, _, mail := newTestService(repo)

	// Повторное подтверждение - конфликт состояния, без мутаций
	_, err := svc.Confirm(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	assert.Zero(t, repo.spotUpdates)
	assert.Empty(t, mail.sent)
}

func TestConfirm_CancelledCannotBeConfirmed(t *testing.T) {
	repo := newFakeRepo()
	b := pendingBooking(1)
	b.Status = domain.StatusCancelled
	repo.bookings[1] = b
	svc, _, _ := newTestService(repo)

	_, err := svc.Confirm(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCannotConfirm)
}

func TestConfirm_NotFound(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo)

	_, err := svc.Confirm(context.Background(), 42)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel_PendingDoesNotTouchCapacity(t *testing.T) {
	repo := newFakeRepo()
	repo.bookings[1] = pendingBooking(1)
	svc, publisher, _ := newTestService(repo)

	result, err := svc.Cancel(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, result.Status)

	// Pending мест не занимал - пересчета не было
	assert.Zero(t, repo.spotUpdates)
	assert.Empty(t, publisher.availability)
	require.Len(t, publisher.changes, 1)
}

func TestCancel_ConfirmedFreesCapacity(t *testing.T) {
	repo := newFakeRepo()
	b := pendingBooking(1)
	b.Status = domain.StatusConfirmed
	repo.bookings[1] = b
	repo.slot.AvailableSpots = 7
	svc, publisher, _ := newTestService(repo)

	result, err := svc.Cancel(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, result.Status)

	// Отмена подтвержденного освобождает места обратно до 10
	assert.Equal(t, 1, repo.spotUpdates)
	assert.Equal(t, 10, repo.slot.AvailableSpots)
	require.Len(t, publisher.availability, 1)
	assert.Equal(t, 10, publisher.availability[0].AvailableSpots)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	repo := newFakeRepo()
	b := pendingBooking(1)
	b.Status = domain.StatusCancelled
	repo.bookings[1] = b
	svc, publisher, _ := newTestService(repo)

	// Повторная отмена - конфликт состояния, не идемпотентный успех
	_, err := svc.Cancel(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Zero(t, repo.spotUpdates)
	assert.Empty(t, publisher.changes)
}

func TestComplete(t *testing.T) {
	repo := newFakeRepo()
	b := pendingBooking(1)
	b.Status = domain.StatusConfirmed
	repo.bookings[1] = b
	svc, _, _ := newTestService(repo)

	result, err := svc.Complete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, result.Status)

	// Завершать можно только подтвержденные
	repo.bookings[2] = pendingBooking(2)
	_, err = svc.Complete(context.Background(), 2)
	assert.ErrorIs(t, err, ErrCannotComplete)
}

func TestGetClientBookings(t *testing.T) {
	repo := newFakeRepo()
	repo.bookings[1] = pendingBooking(1)
	b2 := pendingBooking(2)
	b2.Status = domain.StatusConfirmed
	repo.bookings[2] = b2
	b3 := pendingBooking(3)
	b3.ClientEmail = "other@example.com"
	repo.bookings[3] = b3
	svc, _, _ := newTestService(repo)

	list, err := svc.GetClientBookings(context.Background(), "ivan@example.com", nil)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	confirmed := domain.StatusConfirmed
	list, err = svc.GetClientBookings(context.Background(), "ivan@example.com", &confirmed)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].ID)

	_, err = svc.GetClientBookings(context.Background(), "not-an-email", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetOperatorBookings(t *testing.T) {
	repo := newFakeRepo()
	operatorID := int64(7)
	b := pendingBooking(1)
	b.TourOperatorID = &operatorID
	b.Channel = domain.ChannelReseller
	repo.bookings[1] = b
	repo.bookings[2] = pendingBooking(2)
	svc, _, _ := newTestService(repo)

	list, err := svc.GetOperatorBookings(context.Background(), 7, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)

	_, err = svc.GetOperatorBookings(context.Background(), 0, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
