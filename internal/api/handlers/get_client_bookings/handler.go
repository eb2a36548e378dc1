package get_client_bookings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/velmar/excursion-service/internal/api/handlers"
	"github.com/velmar/excursion-service/internal/domain"
	"github.com/velmar/excursion-service/internal/service/bookings"
	"github.com/velmar/excursion-service/internal/service/bookings/models"
)

const (
	msgInvalidEmail  = "некорректный email клиента"
	msgInvalidStatus = "некорректный статус бронирования"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/clients/{email}/bookings?status=confirmed
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	email := vars["email"]

	var status *domain.BookingStatus
	if s := r.URL.Query().Get("status"); s != "" {
		parsed, ok := domain.ParseBookingStatus(s)
		if !ok {
			h.logger.Warn("GET /clients/{email}/bookings - Invalid status: %s", s)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		status = &parsed
	}

	list, err := h.service.GetClientBookings(r.Context(), email, status)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /clients/{email}/bookings - Invalid email: %s", email)
			handlers.RespondBadRequest(w, msgInvalidEmail)

		default:
			h.logger.Error("GET /clients/{email}/bookings - Failed to list bookings: email=%s, error=%v",
				email, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /clients/{email}/bookings - Retrieved %d bookings for %s", len(list), email)
	handlers.RespondJSON(w, http.StatusOK, BookingsListResponse{
		Bookings: models.FromDomainList(list),
	})
}
