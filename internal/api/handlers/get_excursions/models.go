package get_excursions

import "github.com/velmar/excursion-service/internal/domain"

// ExcursionResponse HTTP response model
type ExcursionResponse struct {
	ID        int64   `json:"id"`
	GuideID   int64   `json:"guideId"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	BasePrice float64 `json:"basePrice"`
}

// ExcursionsListResponse HTTP response model
type ExcursionsListResponse struct {
	Excursions []*ExcursionResponse `json:"excursions"`
}

// FromDomainList конвертирует список экскурсий в HTTP response
func FromDomainList(list []*domain.Excursion) *ExcursionsListResponse {
	result := make([]*ExcursionResponse, 0, len(list))
	for _, e := range list {
		result = append(result, &ExcursionResponse{
			ID:        e.ID,
			GuideID:   e.GuideID,
			Title:     e.Title,
			Category:  e.Category,
			BasePrice: e.BasePrice,
		})
	}
	return &ExcursionsListResponse{Excursions: result}
}
