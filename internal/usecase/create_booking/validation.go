package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/velmar/excursion-service/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ExcursionID <= 0 {
		return fmt.Errorf("%w: excursionID must be positive", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	if req.ParticipantsCount < domain.MinParticipantsCount {
		return fmt.Errorf("%w: participantsCount must be positive", ErrInvalidInput)
	}

	if req.ParticipantsCount > domain.MaxParticipantsCount {
		return fmt.Errorf("%w: participantsCount exceeds maximum of %d", ErrInvalidInput, domain.MaxParticipantsCount)
	}

	if err := validateEmail(req.ClientEmail); err != nil {
		return err
	}

	if len(req.ClientName) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: clientName is too long", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are too long", ErrInvalidInput)
	}

	if req.TourOperatorID != nil && *req.TourOperatorID <= 0 {
		return fmt.Errorf("%w: tourOperatorID must be positive", ErrInvalidInput)
	}

	return nil
}

// validateEmail проверяет минимальную корректность email
func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: clientEmail is required", ErrInvalidInput)
	}

	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.Contains(email, " ") {
		return fmt.Errorf("%w: clientEmail is malformed", ErrInvalidInput)
	}

	return nil
}

// validateSlotBookable проверяет слот и его экскурсию
// Порядок проверок фиксирован, первая ошибка прерывает цепочку:
// доступность слота -> активность экскурсии -> дата не в прошлом
func validateSlotBookable(slot *domain.AvailabilitySlot, excursion *domain.Excursion, now time.Time) error {
	if !slot.IsAvailable {
		return ErrSlotUnavailable
	}

	if excursion == nil || !excursion.IsBookable() {
		return ErrSlotUnavailable
	}

	if slot.IsInPast(now) {
		return ErrPastDate
	}

	return nil
}
