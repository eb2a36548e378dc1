package create_booking

import (
	"time"

	"github.com/velmar/excursion-service/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ExcursionID       int64   // ID экскурсии
	SlotID            int64   // ID слота доступности
	ParticipantsCount int     // Количество участников (> 0)
	ClientEmail       string  // Email клиента
	ClientName        string  // Имя клиента
	TourOperatorID    *int64  // ID туроператора для реселлерского канала (опционально)
	Notes             *string // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64
	SlotID      int64
	ExcursionID int64

	SlotDate  time.Time
	StartTime types.TimeString

	ClientEmail    string
	ClientName     string
	TourOperatorID *int64
	Channel        string

	ParticipantsCount int
	Status            string
	TotalAmount       float64
	CommissionAmount  float64

	// AvailableSpots остаток мест слота после создания бронирования
	AvailableSpots int

	Notes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
