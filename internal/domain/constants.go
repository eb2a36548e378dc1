package domain

// Business validation constants
const (
	MinParticipantsCount = 1
	MaxParticipantsCount = 100
	MaxNotesLength       = 500
	MaxClientNameLength  = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BookingStatuses все допустимые статусы бронирования
var BookingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCancelled,
	StatusCompleted,
}

// ParseBookingStatus валидирует и конвертирует строку в BookingStatus
func ParseBookingStatus(s string) (BookingStatus, bool) {
	status := BookingStatus(s)
	for _, valid := range BookingStatuses {
		if status == valid {
			return status, true
		}
	}
	return "", false
}
