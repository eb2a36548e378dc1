package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// BookingChannel канал, через который создано бронирование
// Определяет политику расчета комиссии
type BookingChannel string

const (
	// ChannelDirect прямое бронирование клиентом через каталог
	ChannelDirect BookingChannel = "direct"
	// ChannelReseller бронирование туроператором от имени клиента
	ChannelReseller BookingChannel = "reseller"
)

// Booking represents a reservation of N participants against one slot
type Booking struct {
	ID          int64
	SlotID      int64
	ExcursionID int64

	// Клиент: email обязателен, профиль создается при первом бронировании
	ProfileID   *int64
	ClientEmail string
	ClientName  string

	// TourOperatorID заполнен только для реселлерского канала
	TourOperatorID *int64
	Channel        BookingChannel

	ParticipantsCount int
	Status            BookingStatus
	TotalAmount       float64
	CommissionAmount  float64

	Notes *string

	ConfirmedAt    *time.Time
	CancelledAt    *time.Time
	ReminderSentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CountsAgainstCapacity возвращает true, если бронирование занимает места в слоте
// Места резервируют только подтвержденные бронирования - pending мест не держит
func (b *Booking) CountsAgainstCapacity() bool {
	return b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsConfirmed returns true if the booking has been confirmed
func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeConfirmed returns true if the booking can be confirmed
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPending
}

// CanBeCompleted returns true if the booking can be marked as completed
func (b *Booking) CanBeCompleted() bool {
	return b.Status == StatusConfirmed
}
