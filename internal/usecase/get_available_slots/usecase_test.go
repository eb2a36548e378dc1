package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmar/excursion-service/internal/domain"
	excursionRepo "github.com/velmar/excursion-service/internal/infra/storage/excursion"
	"github.com/velmar/excursion-service/pkg/ptr"
)

type fakeSlots struct {
	slots      []*domain.AvailabilitySlot
	lastFilter domain.SlotsFilter
}

func (f *fakeSlots) ListByExcursion(ctx context.Context, filter domain.SlotsFilter) ([]*domain.AvailabilitySlot, error) {
	f.lastFilter = filter
	return f.slots, nil
}

type fakeExcursions struct {
	excursion *domain.Excursion
}

func (f *fakeExcursions) GetByID(ctx context.Context, id int64) (*domain.Excursion, error) {
	if f.excursion == nil || f.excursion.ID != id {
		return nil, excursionRepo.ErrExcursionNotFound
	}
	return f.excursion, nil
}

type fakeBookings struct {
	sums map[int64]int
}

func (f *fakeBookings) SumConfirmedParticipants(ctx context.Context, slotID int64) (int, error) {
	return f.sums[slotID], nil
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f *fixedTime) Now() time.Time { return f.t }

func TestExecute_RecomputesLiveAvailability(t *testing.T) {
	slots := &fakeSlots{
		slots: []*domain.AvailabilitySlot{
			{ID: 1, MaxParticipants: 10, StartTime: "10:00",
				SlotDate: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)},
			{ID: 2, MaxParticipants: 8, StartTime: "14:00", PriceOverride: ptr.Ptr(75.0),
				SlotDate: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)},
		},
	}
	excursions := &fakeExcursions{
		excursion: &domain.Excursion{ID: 1, Title: "Прогулка", BasePrice: 50.0, IsActive: true},
	}
	bookings := &fakeBookings{sums: map[int64]int{1: 4, 2: 8}}

	uc := NewUseCase(slots, excursions, bookings, noopLogger{})
	uc.timeProvider = &fixedTime{t: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}

	resp, err := uc.Execute(context.Background(), &Request{ExcursionID: 1})
	require.NoError(t, err)

	assert.Equal(t, "Прогулка", resp.Title)
	require.Len(t, resp.Slots, 2)

	// Доступность считается по подтвержденным бронированиям, не по кэшу
	assert.Equal(t, 6, resp.Slots[0].AvailableSpots)
	assert.True(t, resp.Slots[0].IsAvailable)
	assert.Equal(t, 50.0, resp.Slots[0].PricePerPerson)

	assert.Equal(t, 0, resp.Slots[1].AvailableSpots)
	assert.False(t, resp.Slots[1].IsAvailable)
	assert.Equal(t, 75.0, resp.Slots[1].PricePerPerson)

	// Прошедшие слоты отсекаются фильтром от сегодняшнего дня
	require.NotNil(t, slots.lastFilter.FromDate)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), *slots.lastFilter.FromDate)
	assert.True(t, slots.lastFilter.OnlyAvailable)
}

func TestExecute_ExcursionNotFound(t *testing.T) {
	uc := NewUseCase(&fakeSlots{}, &fakeExcursions{}, &fakeBookings{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ExcursionID: 99})
	assert.ErrorIs(t, err, ErrExcursionNotFound)
}

func TestExecute_InactiveExcursion(t *testing.T) {
	excursions := &fakeExcursions{
		excursion: &domain.Excursion{ID: 1, IsActive: false},
	}
	uc := NewUseCase(&fakeSlots{}, excursions, &fakeBookings{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ExcursionID: 1})
	assert.ErrorIs(t, err, ErrExcursionNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := NewUseCase(&fakeSlots{}, &fakeExcursions{}, &fakeBookings{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ExcursionID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
