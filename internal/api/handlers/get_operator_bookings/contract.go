package get_operator_bookings

import (
	"context"

	"github.com/velmar/excursion-service/internal/domain"
)

type BookingService interface {
	GetOperatorBookings(ctx context.Context, operatorID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
