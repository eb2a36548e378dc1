package bookings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/velmar/excursion-service/internal/domain"
	bookingRepo "github.com/velmar/excursion-service/internal/infra/storage/booking"
	slotRepo "github.com/velmar/excursion-service/internal/infra/storage/slot"
	"github.com/velmar/excursion-service/internal/integrations/mailer"
)

// Service сервис жизненного цикла бронирований: выборки, подтверждение,
// отмена и завершение. Мутации статуса, влияющие на вместимость слота,
// выполняются в сериализуемой транзакции вместе с пересчетом кэша
// свободных мест
type Service struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	txManager    TransactionManager
	publisher    Publisher
	mailerClient Mailer
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookings BookingRepository,
	slots SlotRepository,
	txManager TransactionManager,
	publisher Publisher,
	mailerClient Mailer,
	m Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookings,
		slotRepo:     slots,
		txManager:    txManager,
		publisher:    publisher,
		mailerClient: mailerClient,
		timeProvider: &RealTimeProvider{},
		metrics:      m,
		logger:       logger,
	}
}

// GetByID возвращает бронирование по идентификатору
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: booking id must be positive", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: failed to get booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	return booking, nil
}

// GetClientBookings возвращает бронирования клиента по email,
// опционально отфильтрованные по статусу
func (s *Service) GetClientBookings(ctx context.Context, email string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid client email", ErrInvalidInput)
	}

	list, err := s.bookingRepo.ListWithFilter(ctx, domain.BookingsFilter{
		ClientEmail: &email,
		Status:      status,
	})
	if err != nil {
		s.logger.Error("GetClientBookings: failed to list bookings for %s: %v", email, err)
		return nil, fmt.Errorf("%w: failed to list client bookings: %v", ErrInternal, err)
	}

	return list, nil
}

// GetOperatorBookings возвращает бронирования, созданные туроператором
func (s *Service) GetOperatorBookings(ctx context.Context, operatorID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	if operatorID <= 0 {
		return nil, fmt.Errorf("%w: operator id must be positive", ErrInvalidInput)
	}

	list, err := s.bookingRepo.ListWithFilter(ctx, domain.BookingsFilter{
		TourOperatorID: &operatorID,
		Status:         status,
	})
	if err != nil {
		s.logger.Error("GetOperatorBookings: failed to list bookings for operator id=%d: %v", operatorID, err)
		return nil, fmt.Errorf("%w: failed to list operator bookings: %v", ErrInternal, err)
	}

	return list, nil
}

// Confirm подтверждает pending-бронирование
// Подтверждение резервирует места: кэш свободных мест пересчитывается
// в той же транзакции, письмо клиенту уходит после коммита
func (s *Service) Confirm(ctx context.Context, id int64) (*domain.Booking, error) {
	s.logger.Info("Confirm: booking id=%d", id)

	if id <= 0 {
		return nil, fmt.Errorf("%w: booking id must be positive", ErrInvalidInput)
	}

	var (
		result *domain.Booking
		slot   *domain.AvailabilitySlot
		avail  domain.Availability
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.getForUpdate(txCtx, id, "Confirm")
		if err != nil {
			return err
		}

		if booking.IsConfirmed() {
			return ErrAlreadyConfirmed
		}
		if !booking.CanBeConfirmed() {
			s.logger.Warn("Confirm: booking id=%d in status %s cannot be confirmed", id, booking.Status)
			return ErrCannotConfirm
		}

		if err := s.bookingRepo.Confirm(txCtx, id); err != nil {
			s.logger.Error("Confirm: failed to confirm booking id=%d: %v", id, err)
			return fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
		}

		slot, avail, err = s.refreshSlotAvailability(txCtx, booking.SlotID)
		if err != nil {
			return err
		}

		booking.Status = domain.StatusConfirmed
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Confirm: booking id=%d confirmed, slot id=%d available=%d",
		result.ID, slot.ID, avail.AvailableSpots)

	if s.metrics != nil {
		s.metrics.BookingConfirmed()
	}

	s.publishEvents(ctx, result, domain.ChangeUpdate, slot, avail)
	s.sendConfirmationEmail(ctx, result, slot)

	return result, nil
}

// Cancel отменяет бронирование
// Отмена pending-бронирования вместимость не трогает - места держат
// только подтвержденные. Отмена подтвержденного освобождает места
func (s *Service) Cancel(ctx context.Context, id int64) (*domain.Booking, error) {
	s.logger.Info("Cancel: booking id=%d", id)

	if id <= 0 {
		return nil, fmt.Errorf("%w: booking id must be positive", ErrInvalidInput)
	}

	var (
		result       *domain.Booking
		slot         *domain.AvailabilitySlot
		avail        domain.Availability
		wasConfirmed bool
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.getForUpdate(txCtx, id, "Cancel")
		if err != nil {
			return err
		}

		if booking.IsCancelled() {
			return ErrAlreadyCancelled
		}
		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d in status %s cannot be cancelled", id, booking.Status)
			return ErrAlreadyCancelled
		}

		wasConfirmed = booking.CountsAgainstCapacity()

		if err := s.bookingRepo.Cancel(txCtx, id); err != nil {
			s.logger.Error("Cancel: failed to cancel booking id=%d: %v", id, err)
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		// Пересчет нужен только если бронирование занимало места
		if wasConfirmed {
			slot, avail, err = s.refreshSlotAvailability(txCtx, booking.SlotID)
			if err != nil {
				return err
			}
		}

		booking.Status = domain.StatusCancelled
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: booking id=%d cancelled (was confirmed: %t)", result.ID, wasConfirmed)

	if s.metrics != nil {
		s.metrics.BookingCancelled()
	}

	if wasConfirmed {
		s.publishEvents(ctx, result, domain.ChangeUpdate, slot, avail)
	} else {
		s.publishBookingChange(ctx, result, domain.ChangeUpdate)
	}

	return result, nil
}

// Complete помечает подтвержденное бронирование завершенным
// Завершенное бронирование продолжает занимать места в слоте -
// слот уже в прошлом, и его вместимость больше никого не интересует
func (s *Service) Complete(ctx context.Context, id int64) (*domain.Booking, error) {
	s.logger.Info("Complete: booking id=%d", id)

	if id <= 0 {
		return nil, fmt.Errorf("%w: booking id must be positive", ErrInvalidInput)
	}

	var result *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.getForUpdate(txCtx, id, "Complete")
		if err != nil {
			return err
		}

		if !booking.CanBeCompleted() {
			s.logger.Warn("Complete: booking id=%d in status %s cannot be completed", id, booking.Status)
			return ErrCannotComplete
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, id, domain.StatusCompleted); err != nil {
			s.logger.Error("Complete: failed to complete booking id=%d: %v", id, err)
			return fmt.Errorf("%w: failed to complete booking: %v", ErrInternal, err)
		}

		booking.Status = domain.StatusCompleted
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Complete: booking id=%d completed", result.ID)

	s.publishBookingChange(ctx, result, domain.ChangeUpdate)

	return result, nil
}

// getForUpdate получает бронирование внутри транзакции
func (s *Service) getForUpdate(ctx context.Context, id int64, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: failed to get booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	return booking, nil
}

// refreshSlotAvailability пересчитывает кэш свободных мест слота
// по сумме участников подтвержденных бронирований. Вызывается внутри
// транзакции, мутирующей статус - слот берется с блокировкой строки
func (s *Service) refreshSlotAvailability(ctx context.Context, slotID int64) (*domain.AvailabilitySlot, domain.Availability, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Error("refreshSlotAvailability: slot id=%d not found", slotID)
			return nil, domain.Availability{}, fmt.Errorf("%w: slot not found", ErrInternal)
		}
		s.logger.Error("refreshSlotAvailability: failed to get slot id=%d: %v", slotID, err)
		return nil, domain.Availability{}, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	confirmedSum, err := s.bookingRepo.SumConfirmedParticipants(ctx, slotID)
	if err != nil {
		s.logger.Error("refreshSlotAvailability: failed to sum confirmed participants: %v", err)
		return nil, domain.Availability{}, fmt.Errorf("%w: failed to sum confirmed participants: %v", ErrInternal, err)
	}

	avail := domain.CalculateAvailability(slot.MaxParticipants, []int{confirmedSum})
	if err := s.slotRepo.UpdateAvailableSpots(ctx, slotID, avail.AvailableSpots, avail.IsAvailable); err != nil {
		s.logger.Error("refreshSlotAvailability: failed to update available spots: %v", err)
		return nil, domain.Availability{}, fmt.Errorf("%w: failed to update available spots: %v", ErrInternal, err)
	}

	return slot, avail, nil
}

// publishEvents рассылает события об изменении доступности слота и бронирования
// Ошибки публикации мутацию не откатывают - только логируются
func (s *Service) publishEvents(ctx context.Context, b *domain.Booking, eventType domain.ChangeEventType, slot *domain.AvailabilitySlot, avail domain.Availability) {
	upd := domain.AvailabilityUpdate{
		SlotID:         slot.ID,
		ExcursionID:    slot.ExcursionID,
		AvailableSpots: avail.AvailableSpots,
		IsAvailable:    avail.IsAvailable,
		Timestamp:      s.timeProvider.Now(),
	}
	if err := s.publisher.PublishAvailability(ctx, upd); err != nil {
		s.logger.Error("publishEvents: failed to publish availability update: %v", err)
	}

	s.publishBookingChange(ctx, b, eventType)
}

func (s *Service) publishBookingChange(ctx context.Context, b *domain.Booking, eventType domain.ChangeEventType) {
	change := domain.BookingChange{
		EventType:         eventType,
		BookingID:         b.ID,
		SlotID:            b.SlotID,
		ExcursionID:       b.ExcursionID,
		Status:            b.Status,
		ParticipantsCount: b.ParticipantsCount,
		Timestamp:         s.timeProvider.Now(),
	}
	if err := s.publisher.PublishBookingChange(ctx, change); err != nil {
		s.logger.Error("publishBookingChange: failed to publish booking change: %v", err)
	}
}

// sendConfirmationEmail отправляет клиенту письмо о подтверждении
func (s *Service) sendConfirmationEmail(ctx context.Context, b *domain.Booking, slot *domain.AvailabilitySlot) {
	params := map[string]string{
		"name":         b.ClientName,
		"bookingId":    strconv.FormatInt(b.ID, 10),
		"slotDate":     slot.SlotDate.Format(domain.DateFormat),
		"startTime":    slot.StartTime.String(),
		"participants": strconv.Itoa(b.ParticipantsCount),
	}
	if err := s.mailerClient.Send(ctx, mailer.TemplateBookingConfirmed, b.ClientEmail, b.ClientName, params); err != nil {
		s.logger.Error("sendConfirmationEmail: failed to send email to %s: %v", b.ClientEmail, err)
	}
}
