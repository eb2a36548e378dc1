package reminder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmar/excursion-service/internal/domain"
)

type fakeBookings struct {
	mu         sync.Mutex
	forDate    []*domain.Booking
	requested  []time.Time
	markedSent []int64
}

func (f *fakeBookings) ListForReminder(ctx context.Context, slotDate time.Time) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, slotDate)
	return f.forDate, nil
}

func (f *fakeBookings) MarkReminderSent(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markedSent = append(f.markedSent, id)
	return nil
}

func (f *fakeBookings) requestedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requested)
}

type fakeSlots struct{}

func (fakeSlots) GetByID(ctx context.Context, id int64) (*domain.AvailabilitySlot, error) {
	return &domain.AvailabilitySlot{
		ID:        id,
		SlotDate:  time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
	}, nil
}

type fakeMailer struct {
	sent []string
}

func (m *fakeMailer) Send(ctx context.Context, templateID, toEmail, toName string, params map[string]string) error {
	m.sent = append(m.sent, toEmail)
	return nil
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f *fixedTime) Now() time.Time { return f.t }

func TestRunOnce_SendsRemindersForTomorrow(t *testing.T) {
	bookings := &fakeBookings{
		forDate: []*domain.Booking{
			{ID: 1, SlotID: 10, ClientEmail: "ivan@example.com", ClientName: "Иван", ParticipantsCount: 2},
			{ID: 2, SlotID: 10, ClientEmail: "anna@example.com", ClientName: "Анна", ParticipantsCount: 1},
		},
	}
	mail := &fakeMailer{}

	w := NewWorker(bookings, fakeSlots{}, mail, time.Minute, noopLogger{})
	w.timeProvider = &fixedTime{t: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)}

	w.runOnce(context.Background())

	// Выборка за завтрашнюю дату
	require.Len(t, bookings.requested, 1)
	assert.Equal(t, time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC), bookings.requested[0])

	assert.Equal(t, []string{"ivan@example.com", "anna@example.com"}, mail.sent)
	assert.Equal(t, []int64{1, 2}, bookings.markedSent)
}

func TestRunOnce_NothingToRemind(t *testing.T) {
	bookings := &fakeBookings{}
	mail := &fakeMailer{}

	w := NewWorker(bookings, fakeSlots{}, mail, time.Minute, noopLogger{})
	w.runOnce(context.Background())

	assert.Empty(t, mail.sent)
	assert.Empty(t, bookings.markedSent)
}

func TestStartStop(t *testing.T) {
	bookings := &fakeBookings{}
	w := NewWorker(bookings, fakeSlots{}, &fakeMailer{}, time.Hour, noopLogger{})

	go w.Start(context.Background())

	// Первый проход выполняется сразу при старте
	deadline := time.After(time.Second)
	for bookings.requestedCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("worker did not run initial pass")
		case <-time.After(10 * time.Millisecond):
		}
	}

	w.Stop()
}
