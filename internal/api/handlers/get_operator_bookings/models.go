package get_operator_bookings

import "github.com/velmar/excursion-service/internal/service/bookings/models"

// BookingsListResponse HTTP response model
type BookingsListResponse struct {
	Bookings []*models.BookingResponse `json:"bookings"`
}
