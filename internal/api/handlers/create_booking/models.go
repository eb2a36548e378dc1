package create_booking

import (
	"time"

	"github.com/velmar/excursion-service/internal/domain"
	createBooking "github.com/velmar/excursion-service/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ExcursionID       int64   `json:"excursionId"`
	SlotID            int64   `json:"slotId"`
	ParticipantsCount int     `json:"participantsCount"`
	ClientEmail       string  `json:"clientEmail"`
	ClientName        string  `json:"clientName"`
	TourOperatorID    *int64  `json:"tourOperatorId,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                int64   `json:"id"`
	SlotID            int64   `json:"slotId"`
	ExcursionID       int64   `json:"excursionId"`
	SlotDate          string  `json:"slotDate"`
	StartTime         string  `json:"startTime"`
	ClientEmail       string  `json:"clientEmail"`
	ClientName        string  `json:"clientName"`
	TourOperatorID    *int64  `json:"tourOperatorId,omitempty"`
	Channel           string  `json:"channel"`
	ParticipantsCount int     `json:"participantsCount"`
	Status            string  `json:"status"`
	TotalAmount       float64 `json:"totalAmount"`
	CommissionAmount  float64 `json:"commissionAmount"`
	AvailableSpots    int     `json:"availableSpots"`
	Notes             *string `json:"notes,omitempty"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// InsufficientSpotsResponse ответ при нехватке мест с фактическим остатком
type InsufficientSpotsResponse struct {
	Error          string `json:"error"`
	AvailableSpots int    `json:"availableSpots"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	return &createBooking.Request{
		ExcursionID:       r.ExcursionID,
		SlotID:            r.SlotID,
		ParticipantsCount: r.ParticipantsCount,
		ClientEmail:       r.ClientEmail,
		ClientName:        r.ClientName,
		TourOperatorID:    r.TourOperatorID,
		Notes:             r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                resp.ID,
		SlotID:            resp.SlotID,
		ExcursionID:       resp.ExcursionID,
		SlotDate:          resp.SlotDate.Format(domain.DateFormat),
		StartTime:         resp.StartTime.String(),
		ClientEmail:       resp.ClientEmail,
		ClientName:        resp.ClientName,
		TourOperatorID:    resp.TourOperatorID,
		Channel:           resp.Channel,
		ParticipantsCount: resp.ParticipantsCount,
		Status:            resp.Status,
		TotalAmount:       resp.TotalAmount,
		CommissionAmount:  resp.CommissionAmount,
		AvailableSpots:    resp.AvailableSpots,
		Notes:             resp.Notes,
		CreatedAt:         resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         resp.UpdatedAt.Format(time.RFC3339),
	}
}
