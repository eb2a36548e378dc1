package get_client_bookings

import (
	"context"

	"github.com/velmar/excursion-service/internal/domain"
)

type BookingService interface {
	GetClientBookings(ctx context.Context, email string, status *domain.BookingStatus) ([]*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
