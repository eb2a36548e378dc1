package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/velmar/excursion-service/internal/domain"
	excursionRepo "github.com/velmar/excursion-service/internal/infra/storage/excursion"
	profileRepo "github.com/velmar/excursion-service/internal/infra/storage/profile"
	slotRepo "github.com/velmar/excursion-service/internal/infra/storage/slot"
	"github.com/velmar/excursion-service/internal/integrations/mailer"
)

// UseCase use case создания бронирования
// Валидация и вставка выполняются в одной сериализуемой транзакции
// с блокировкой строки слота - конкурентные бронирования одного слота
// сериализуются, и овербукинг на этом пути исключен
type UseCase struct {
	slotRepo      SlotRepository
	excursionRepo ExcursionRepository
	bookingRepo   BookingRepository
	profileRepo   ProfileRepository
	txManager     TransactionManager
	publisher     Publisher
	mailerClient  Mailer
	policy        domain.CommissionPolicy
	timeProvider  TimeProvider
	metrics       Metrics
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slots SlotRepository,
	excursions ExcursionRepository,
	bookings BookingRepository,
	profiles ProfileRepository,
	txManager TransactionManager,
	publisher Publisher,
	mailerClient Mailer,
	policy domain.CommissionPolicy,
	m Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:      slots,
		excursionRepo: excursions,
		bookingRepo:   bookings,
		profileRepo:   profiles,
		txManager:     txManager,
		publisher:     publisher,
		mailerClient:  mailerClient,
		policy:        policy,
		timeProvider:  &RealTimeProvider{},
		metrics:       m,
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: excursion=%d, slot=%d, participants=%d, client=%s, operator=%v",
		req.ExcursionID, req.SlotID, req.ParticipantsCount, req.ClientEmail, req.TourOperatorID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var (
		result         *domain.Booking
		resultSlot     *domain.AvailabilitySlot
		availableAfter domain.Availability
		newProfile     bool
	)

	// 3. Валидация и вставка в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем слот с блокировкой строки (FOR UPDATE)
		slot, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateBooking: slot id=%d not found", req.SlotID)
				return ErrSlotUnavailable
			}
			uc.logger.Error("CreateBooking: failed to get slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		// Слот обязан принадлежать экскурсии из запроса
		if slot.ExcursionID != req.ExcursionID {
			uc.logger.Warn("CreateBooking: slot id=%d does not belong to excursion id=%d",
				req.SlotID, req.ExcursionID)
			return ErrSlotUnavailable
		}

		// 3.2. Получаем экскурсию
		excursion, err := uc.excursionRepo.GetByID(txCtx, slot.ExcursionID)
		if err != nil {
			if errors.Is(err, excursionRepo.ErrExcursionNotFound) {
				uc.logger.Warn("CreateBooking: excursion id=%d not found", slot.ExcursionID)
				return ErrSlotUnavailable
			}
			uc.logger.Error("CreateBooking: failed to get excursion id=%d: %v", slot.ExcursionID, err)
			return fmt.Errorf("%w: failed to get excursion: %v", ErrInternal, err)
		}

		// 3.3. Проверяем доступность слота, активность экскурсии и дату
		if err := validateSlotBookable(slot, excursion, now); err != nil {
			uc.logger.Warn("CreateBooking: slot id=%d not bookable: %v", slot.ID, err)
			return err
		}

		// 3.4. Пересчитываем доступность по живым подтвержденным бронированиям,
		// а не по кэшу available_spots
		confirmedSum, err := uc.bookingRepo.SumConfirmedParticipants(txCtx, slot.ID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to sum confirmed participants: %v", err)
			return fmt.Errorf("%w: failed to sum confirmed participants: %v", ErrInternal, err)
		}

		availability := domain.CalculateAvailability(slot.MaxParticipants, []int{confirmedSum})
		if availability.AvailableSpots < req.ParticipantsCount {
			uc.logger.Warn("CreateBooking: insufficient spots for slot id=%d: requested=%d, available=%d",
				slot.ID, req.ParticipantsCount, availability.AvailableSpots)
			return &InsufficientSpotsError{AvailableSpots: availability.AvailableSpots}
		}

		// 3.5. Проверяем, что у гида есть хотя бы один открытый слот на эту дату
		openSlots, err := uc.slotRepo.CountGuideOpenSlots(txCtx, excursion.GuideID, slot.SlotDate)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to count guide open slots: %v", err)
			return fmt.Errorf("%w: failed to count guide open slots: %v", ErrInternal, err)
		}
		if openSlots == 0 {
			uc.logger.Warn("CreateBooking: guide id=%d has no open slots on %s",
				excursion.GuideID, slot.SlotDate.Format(domain.DateFormat))
			return ErrGuideUnavailable
		}

		// 3.6. Гарантируем наличие профиля клиента
		profile, err := uc.profileRepo.GetByEmail(txCtx, req.ClientEmail)
		if err != nil {
			if !errors.Is(err, profileRepo.ErrProfileNotFound) {
				uc.logger.Error("CreateBooking: failed to get profile: %v", err)
				return fmt.Errorf("%w: failed to get profile: %v", ErrInternal, err)
			}
			profile, err = uc.profileRepo.Create(txCtx, req.ClientEmail, req.ClientName)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to create profile: %v", err)
				return fmt.Errorf("%w: failed to create profile: %v", ErrInternal, err)
			}
			newProfile = true
			uc.logger.Info("CreateBooking: created profile id=%d for %s", profile.ID, req.ClientEmail)
		}

		// 3.7. Считаем стоимость и комиссию по политике канала
		channel := domain.ChannelDirect
		if req.TourOperatorID != nil {
			channel = domain.ChannelReseller
		}

		totalAmount := slot.EffectivePrice(excursion.BasePrice) * float64(req.ParticipantsCount)
		commission := uc.policy.CommissionFor(channel, totalAmount)

		// 3.8. Создаем бронирование в статусе pending
		// Pending мест не резервирует - капасити занимают только подтвержденные
		booking := &domain.Booking{
			SlotID:            slot.ID,
			ExcursionID:       excursion.ID,
			ProfileID:         &profile.ID,
			ClientEmail:       req.ClientEmail,
			ClientName:        req.ClientName,
			TourOperatorID:    req.TourOperatorID,
			Channel:           channel,
			ParticipantsCount: req.ParticipantsCount,
			Status:            domain.StatusPending,
			TotalAmount:       totalAmount,
			CommissionAmount:  commission,
			Notes:             req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 3.9. Обновляем денормализованный кэш свободных мест в той же транзакции
		if err := uc.slotRepo.UpdateAvailableSpots(txCtx, slot.ID, availability.AvailableSpots, availability.IsAvailable); err != nil {
			uc.logger.Error("CreateBooking: failed to refresh available spots: %v", err)
			return fmt.Errorf("%w: failed to refresh available spots: %v", ErrInternal, err)
		}

		result = created
		resultSlot = slot
		availableAfter = availability
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, channel=%s, total=%.2f, commission=%.2f",
		result.ID, result.Channel, result.TotalAmount, result.CommissionAmount)

	if uc.metrics != nil {
		uc.metrics.BookingCreated()
	}

	// 4. Публикуем realtime-события после коммита
	uc.publishEvents(ctx, result, resultSlot, availableAfter)

	// 5. Приветственное письмо новому клиенту
	if newProfile {
		uc.sendWelcomeEmail(ctx, req.ClientEmail, req.ClientName)
	}

	return &Response{
		ID:                result.ID,
		SlotID:            result.SlotID,
		ExcursionID:       result.ExcursionID,
		SlotDate:          resultSlot.SlotDate,
		StartTime:         resultSlot.StartTime,
		ClientEmail:       result.ClientEmail,
		ClientName:        result.ClientName,
		TourOperatorID:    result.TourOperatorID,
		Channel:           string(result.Channel),
		ParticipantsCount: result.ParticipantsCount,
		Status:            string(result.Status),
		TotalAmount:       result.TotalAmount,
		CommissionAmount:  result.CommissionAmount,
		AvailableSpots:    availableAfter.AvailableSpots,
		Notes:             result.Notes,
		CreatedAt:         result.CreatedAt,
		UpdatedAt:         result.UpdatedAt,
	}, nil
}

// publishEvents рассылает события об изменении доступности и новом бронировании
// Ошибки публикации не откатывают бронирование - только логируются
func (uc *UseCase) publishEvents(ctx context.Context, b *domain.Booking, s *domain.AvailabilitySlot, a domain.Availability) {
	now := uc.timeProvider.Now()

	upd := domain.AvailabilityUpdate{
		SlotID:         s.ID,
		ExcursionID:    s.ExcursionID,
		AvailableSpots: a.AvailableSpots,
		IsAvailable:    a.IsAvailable,
		Timestamp:      now,
	}
	if err := uc.publisher.PublishAvailability(ctx, upd); err != nil {
		uc.logger.Error("CreateBooking: failed to publish availability update: %v", err)
	}

	change := domain.BookingChange{
		EventType:         domain.ChangeInsert,
		BookingID:         b.ID,
		SlotID:            b.SlotID,
		ExcursionID:       b.ExcursionID,
		Status:            b.Status,
		ParticipantsCount: b.ParticipantsCount,
		Timestamp:         now,
	}
	if err := uc.publisher.PublishBookingChange(ctx, change); err != nil {
		uc.logger.Error("CreateBooking: failed to publish booking change: %v", err)
	}
}

// sendWelcomeEmail отправляет приветственное письмо созданному профилю
func (uc *UseCase) sendWelcomeEmail(ctx context.Context, email, name string) {
	params := map[string]string{
		"name": name,
	}
	if err := uc.mailerClient.Send(ctx, mailer.TemplateWelcome, email, name, params); err != nil {
		uc.logger.Error("CreateBooking: failed to send welcome email to %s: %v", email, err)
	}
}
