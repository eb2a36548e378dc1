package create_booking

import (
	"errors"
	"net/http"

	"github.com/velmar/excursion-service/internal/api/handlers"
	createBooking "github.com/velmar/excursion-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные бронирования"
	msgSlotUnavailable    = "выбранный слот недоступен"
	msgPastDate           = "дата слота уже прошла"
	msgInsufficientSpots  = "недостаточно свободных мест"
	msgGuideUnavailable   = "гид недоступен в выбранную дату"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		var insufficientErr *createBooking.InsufficientSpotsError

		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot unavailable: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, createBooking.ErrPastDate):
			h.logger.Warn("POST /bookings - Slot date in the past: slot_id=%d", req.SlotID)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.As(err, &insufficientErr):
			h.logger.Warn("POST /bookings - Insufficient spots: slot_id=%d, requested=%d, available=%d",
				req.SlotID, req.ParticipantsCount, insufficientErr.AvailableSpots)
			handlers.RespondJSON(w, http.StatusConflict, InsufficientSpotsResponse{
				Error:          msgInsufficientSpots,
				AvailableSpots: insufficientErr.AvailableSpots,
			})

		case errors.Is(err, createBooking.ErrGuideUnavailable):
			h.logger.Warn("POST /bookings - Guide unavailable: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgGuideUnavailable)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: slot_id=%d, error=%v", req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, slot_id=%d, channel=%s",
		result.ID, result.SlotID, result.Channel)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
