package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/velmar/excursion-service/internal/api/handlers"
	getAvailableSlots "github.com/velmar/excursion-service/internal/usecase/get_available_slots"
)

const (
	msgInvalidExcursionID = "некорректный ID экскурсии"
	msgExcursionNotFound  = "экскурсия не найдена"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/excursions/{excursionId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	excursionID, err := strconv.ParseInt(vars["excursionId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /excursions/{id}/slots - Invalid excursion ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExcursionID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{ExcursionID: excursionID})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrExcursionNotFound):
			h.logger.Warn("GET /excursions/{id}/slots - Excursion not found: excursion_id=%d", excursionID)
			handlers.RespondNotFound(w, msgExcursionNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /excursions/{id}/slots - Invalid input: excursion_id=%d", excursionID)
			handlers.RespondBadRequest(w, msgInvalidExcursionID)

		default:
			h.logger.Error("GET /excursions/{id}/slots - Failed to get slots: excursion_id=%d, error=%v",
				excursionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /excursions/{id}/slots - Retrieved %d slots for excursion_id=%d",
		len(result.Slots), excursionID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
