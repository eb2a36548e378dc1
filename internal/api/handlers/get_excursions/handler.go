package get_excursions

import (
	"net/http"

	"github.com/velmar/excursion-service/internal/api/handlers"
)

type Handler struct {
	excursions ExcursionProvider
	logger     Logger
}

func NewHandler(excursions ExcursionProvider, logger Logger) *Handler {
	return &Handler{
		excursions: excursions,
		logger:     logger,
	}
}

// Handle GET /api/v1/excursions?category=hiking
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var category *string
	if c := r.URL.Query().Get("category"); c != "" {
		category = &c
	}

	list, err := h.excursions.ListActive(r.Context(), category)
	if err != nil {
		h.logger.Error("GET /excursions - Failed to list excursions: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /excursions - Retrieved %d excursions", len(list))
	handlers.RespondJSON(w, http.StatusOK, FromDomainList(list))
}
