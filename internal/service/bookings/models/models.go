package models

import (
	"time"

	"github.com/velmar/excursion-service/internal/domain"
)

// BookingResponse HTTP-представление бронирования
// Используется всеми обработчиками, возвращающими бронирования
type BookingResponse struct {
	ID                int64   `json:"id"`
	SlotID            int64   `json:"slotId"`
	ExcursionID       int64   `json:"excursionId"`
	ClientEmail       string  `json:"clientEmail"`
	ClientName        string  `json:"clientName"`
	TourOperatorID    *int64  `json:"tourOperatorId,omitempty"`
	Channel           string  `json:"channel"`
	ParticipantsCount int     `json:"participantsCount"`
	Status            string  `json:"status"`
	TotalAmount       float64 `json:"totalAmount"`
	CommissionAmount  float64 `json:"commissionAmount"`
	Notes             *string `json:"notes,omitempty"`
	ConfirmedAt       *string `json:"confirmedAt,omitempty"`
	CancelledAt       *string `json:"cancelledAt,omitempty"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// FromDomain конвертирует доменное бронирование в HTTP-представление
func FromDomain(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                b.ID,
		SlotID:            b.SlotID,
		ExcursionID:       b.ExcursionID,
		ClientEmail:       b.ClientEmail,
		ClientName:        b.ClientName,
		TourOperatorID:    b.TourOperatorID,
		Channel:           string(b.Channel),
		ParticipantsCount: b.ParticipantsCount,
		Status:            string(b.Status),
		TotalAmount:       b.TotalAmount,
		CommissionAmount:  b.CommissionAmount,
		Notes:             b.Notes,
		ConfirmedAt:       formatTime(b.ConfirmedAt),
		CancelledAt:       formatTime(b.CancelledAt),
		CreatedAt:         b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         b.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainList конвертирует список бронирований
func FromDomainList(list []*domain.Booking) []*BookingResponse {
	result := make([]*BookingResponse, 0, len(list))
	for _, b := range list {
		result = append(result, FromDomain(b))
	}
	return result
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
