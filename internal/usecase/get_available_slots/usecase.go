package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/velmar/excursion-service/internal/domain"
	excursionRepo "github.com/velmar/excursion-service/internal/infra/storage/excursion"
)

// UseCase use case получения доступных слотов экскурсии
// Доступность каждого слота пересчитывается по живым подтвержденным
// бронированиям, кэш available_spots для ответа не используется
type UseCase struct {
	slotRepo      SlotRepository
	excursionRepo ExcursionRepository
	bookingRepo   BookingRepository
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slots SlotRepository,
	excursions ExcursionRepository,
	bookings BookingRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:      slots,
		excursionRepo: excursions,
		bookingRepo:   bookings,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: excursion=%d", req.ExcursionID)

	// 1. Валидация входных данных
	if req.ExcursionID <= 0 {
		return nil, fmt.Errorf("%w: excursionID must be positive", ErrInvalidInput)
	}

	// 2. Получаем экскурсию
	excursion, err := uc.excursionRepo.GetByID(ctx, req.ExcursionID)
	if err != nil {
		if errors.Is(err, excursionRepo.ErrExcursionNotFound) {
			uc.logger.Warn("GetAvailableSlots: excursion id=%d not found", req.ExcursionID)
			return nil, ErrExcursionNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get excursion id=%d: %v", req.ExcursionID, err)
		return nil, fmt.Errorf("%w: failed to get excursion: %v", ErrInternal, err)
	}

	if !excursion.IsBookable() {
		uc.logger.Warn("GetAvailableSlots: excursion id=%d is not active", req.ExcursionID)
		return nil, ErrExcursionNotFound
	}

	// 3. Получаем слоты от сегодняшнего дня, упорядоченные по дате и времени
	now := uc.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	slots, err := uc.slotRepo.ListByExcursion(ctx, domain.SlotsFilter{
		ExcursionID:   req.ExcursionID,
		FromDate:      &today,
		OnlyAvailable: true,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	// 4. Пересчитываем доступность каждого слота
	resp := &Response{
		ExcursionID: excursion.ID,
		Title:       excursion.Title,
		Slots:       make([]Slot, 0, len(slots)),
	}

	for _, s := range slots {
		confirmedSum, err := uc.bookingRepo.SumConfirmedParticipants(ctx, s.ID)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to sum confirmed participants for slot id=%d: %v",
				s.ID, err)
			return nil, fmt.Errorf("%w: failed to sum confirmed participants: %v", ErrInternal, err)
		}

		availability := domain.CalculateAvailability(s.MaxParticipants, []int{confirmedSum})

		resp.Slots = append(resp.Slots, Slot{
			ID:              s.ID,
			SlotDate:        s.SlotDate,
			StartTime:       s.StartTime,
			MaxParticipants: s.MaxParticipants,
			AvailableSpots:  availability.AvailableSpots,
			IsAvailable:     availability.IsAvailable,
			PricePerPerson:  s.EffectivePrice(excursion.BasePrice),
		})
	}

	uc.logger.Info("GetAvailableSlots: returning %d slots for excursion=%d", len(resp.Slots), req.ExcursionID)
	return resp, nil
}
