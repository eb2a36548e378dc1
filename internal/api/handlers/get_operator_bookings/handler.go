package get_operator_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/velmar/excursion-service/internal/api/handlers"
	"github.com/velmar/excursion-service/internal/domain"
	"github.com/velmar/excursion-service/internal/service/bookings"
	"github.com/velmar/excursion-service/internal/service/bookings/models"
)

const (
	msgInvalidOperatorID = "некорректный ID туроператора"
	msgInvalidStatus     = "некорректный статус бронирования"
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

// Handle GET /api/v1/operators/{operatorId}/bookings?status=pending
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	operatorID, err := strconv.ParseInt(vars["operatorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /operators/{id}/bookings - Invalid operator ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOperatorID)
		return
	}

	var status *domain.BookingStatus
	if s := r.URL.Query().Get("status"); s != "" {
		parsed, ok := domain.ParseBookingStatus(s)
		if !ok {
			h.logger.Warn("GET /operators/{id}/bookings - Invalid status: %s", s)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		status = &parsed
	}

	list, err := h.service.GetOperatorBookings(r.Context(), operatorID, status)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /operators/{id}/bookings - Invalid input: operator_id=%d", operatorID)
			handlers.RespondBadRequest(w, msgInvalidOperatorID)

		default:
			h.logger.Error("GET /operators/{id}/bookings - Failed to list bookings: operator_id=%d, error=%v",
				operatorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /operators/{id}/bookings - Retrieved %d bookings for operator_id=%d",
		len(list), operatorID)
	handlers.RespondJSON(w, http.StatusOK, BookingsListResponse{
		Bookings: models.FromDomainList(list),
	})
}
