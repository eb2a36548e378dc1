package get_available_slots

import (
	"github.com/velmar/excursion-service/internal/domain"
	getAvailableSlots "github.com/velmar/excursion-service/internal/usecase/get_available_slots"
)

// SlotResponse HTTP response model
type SlotResponse struct {
	ID              int64   `json:"id"`
	SlotDate        string  `json:"slotDate"`
	StartTime       string  `json:"startTime"`
	MaxParticipants int     `json:"maxParticipants"`
	AvailableSpots  int     `json:"availableSpots"`
	IsAvailable     bool    `json:"isAvailable"`
	PricePerPerson  float64 `json:"pricePerPerson"`
}

// SlotsListResponse HTTP response model
type SlotsListResponse struct {
	ExcursionID int64           `json:"excursionId"`
	Title       string          `json:"title"`
	Slots       []*SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsListResponse {
	slots := make([]*SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, &SlotResponse{
			ID:              s.ID,
			SlotDate:        s.SlotDate.Format(domain.DateFormat),
			StartTime:       s.StartTime.String(),
			MaxParticipants: s.MaxParticipants,
			AvailableSpots:  s.AvailableSpots,
			IsAvailable:     s.IsAvailable,
			PricePerPerson:  s.PricePerPerson,
		})
	}
	return &SlotsListResponse{
		ExcursionID: resp.ExcursionID,
		Title:       resp.Title,
		Slots:       slots,
	}
}
