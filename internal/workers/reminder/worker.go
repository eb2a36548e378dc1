package reminder

import (
	"context"
	"strconv"
	"time"

	"github.com/velmar/excursion-service/internal/domain"
	"github.com/velmar/excursion-service/internal/integrations/mailer"
)

// Worker фоновый воркер напоминаний: раз в интервал находит
// подтвержденные бронирования на завтрашнюю дату без отметки
// о напоминании и рассылает клиентам письма
// Отметка reminder_sent_at ставится после успешной отправки -
// повторный запуск то же бронирование не трогает
type Worker struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	mailerClient Mailer
	interval     time.Duration
	timeProvider TimeProvider
	logger       Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewWorker создает новый воркер напоминаний
func NewWorker(
	bookings BookingRepository,
	slots SlotRepository,
	mailerClient Mailer,
	interval time.Duration,
	logger Logger,
) *Worker {
	return &Worker{
		bookingRepo:  bookings,
		slotRepo:     slots,
		mailerClient: mailerClient,
		interval:     interval,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start запускает цикл воркера. Блокируется до вызова Stop
// или отмены контекста, поэтому запускается в отдельной горутине
func (w *Worker) Start(ctx context.Context) {
	defer close(w.doneCh)

	w.logger.Info("reminder worker: started, interval=%s", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Первый проход сразу, не дожидаясь тика
	w.runOnce(ctx)

	for {
		select {
		case <-ticker.C:
			w.runOnce(ctx)
		case <-w.stopCh:
			w.logger.Info("reminder worker: stopped")
			return
		case <-ctx.Done():
			w.logger.Info("reminder worker: context cancelled")
			return
		}
	}
}

// Stop останавливает воркер и дожидается завершения текущего прохода
func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

// runOnce выполняет один проход рассылки напоминаний
func (w *Worker) runOnce(ctx context.Context) {
	tomorrow := w.timeProvider.Now().AddDate(0, 0, 1)

	bookings, err := w.bookingRepo.ListForReminder(ctx, tomorrow)
	if err != nil {
		w.logger.Error("reminder worker: failed to list bookings for %s: %v",
			tomorrow.Format(domain.DateFormat), err)
		return
	}

	if len(bookings) == 0 {
		return
	}

	w.logger.Info("reminder worker: sending %d reminders for %s",
		len(bookings), tomorrow.Format(domain.DateFormat))

	for _, b := range bookings {
		if err := w.sendReminder(ctx, b); err != nil {
			// Ошибка одного письма не прерывает проход
			w.logger.Error("reminder worker: failed to remind booking id=%d: %v", b.ID, err)
			continue
		}

		if err := w.bookingRepo.MarkReminderSent(ctx, b.ID); err != nil {
			w.logger.Error("reminder worker: failed to mark reminder sent for booking id=%d: %v", b.ID, err)
		}
	}
}

// sendReminder отправляет одно письмо-напоминание
func (w *Worker) sendReminder(ctx context.Context, b *domain.Booking) error {
	slot, err := w.slotRepo.GetByID(ctx, b.SlotID)
	if err != nil {
		return err
	}

	params := map[string]string{
		"name":         b.ClientName,
		"bookingId":    strconv.FormatInt(b.ID, 10),
		"slotDate":     slot.SlotDate.Format(domain.DateFormat),
		"startTime":    slot.StartTime.String(),
		"participants": strconv.Itoa(b.ParticipantsCount),
	}

	return w.mailerClient.Send(ctx, mailer.TemplateBookingReminder, b.ClientEmail, b.ClientName, params)
}
