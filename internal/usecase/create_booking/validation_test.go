package create_booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/velmar/excursion-service/internal/domain"
	"github.com/velmar/excursion-service/pkg/ptr"
)

func validRequest() *Request {
	return &Request{
		ExcursionID:       1,
		SlotID:            2,
		ParticipantsCount: 3,
		ClientEmail:       "ivan@example.com",
		ClientName:        "Иван Петров",
	}
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, validateRequest(validRequest()))

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero excursion id", func(r *Request) { r.ExcursionID = 0 }},
		{"negative slot id", func(r *Request) { r.SlotID = -1 }},
		{"zero participants", func(r *Request) { r.ParticipantsCount = 0 }},
		{"too many participants", func(r *Request) { r.ParticipantsCount = domain.MaxParticipantsCount + 1 }},
		{"empty email", func(r *Request) { r.ClientEmail = "" }},
		{"email without at", func(r *Request) { r.ClientEmail = "ivan.example.com" }},
		{"email with trailing at", func(r *Request) { r.ClientEmail = "ivan@" }},
		{"email with space", func(r *Request) { r.ClientEmail = "ivan @example.com" }},
		{"name too long", func(r *Request) { r.ClientName = strings.Repeat("a", domain.MaxClientNameLength+1) }},
		{"notes too long", func(r *Request) { r.Notes = ptr.Ptr(strings.Repeat("a", domain.MaxNotesLength+1)) }},
		{"non-positive operator id", func(r *Request) { r.TourOperatorID = ptr.Ptr(int64(0)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
		})
	}
}

func TestValidateRequest_BoundaryParticipants(t *testing.T) {
	req := validRequest()
	req.ParticipantsCount = domain.MinParticipantsCount
	assert.NoError(t, validateRequest(req))

	req.ParticipantsCount = domain.MaxParticipantsCount
	assert.NoError(t, validateRequest(req))
}

func TestValidateSlotBookable(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	slot := func() *domain.AvailabilitySlot {
		return &domain.AvailabilitySlot{
			IsAvailable: true,
			SlotDate:    time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		}
	}
	excursion := func() *domain.Excursion {
		return &domain.Excursion{IsActive: true}
	}

	assert.NoError(t, validateSlotBookable(slot(), excursion(), now))

	closed := slot()
	closed.IsAvailable = false
	assert.ErrorIs(t, validateSlotBookable(closed, excursion(), now), ErrSlotUnavailable)

	inactive := excursion()
	inactive.IsActive = false
	assert.ErrorIs(t, validateSlotBookable(slot(), inactive, now), ErrSlotUnavailable)

	past := slot()
	past.SlotDate = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.ErrorIs(t, validateSlotBookable(past, excursion(), now), ErrPastDate)

	// Снятый с продажи слот в прошлом: доступность проверяется первой
	closedPast := slot()
	closedPast.IsAvailable = false
	closedPast.SlotDate = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.ErrorIs(t, validateSlotBookable(closedPast, excursion(), now), ErrSlotUnavailable)
}
