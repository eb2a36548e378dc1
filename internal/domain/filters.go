package domain

import "time"

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	SlotID         *int64
	ExcursionID    *int64
	ClientEmail    *string
	TourOperatorID *int64
	Status         *BookingStatus
	StartDate      *time.Time // Начало периода по дате слота (опционально)
	EndDate        *time.Time // Конец периода (опционально)
}

// SlotsFilter фильтр для выборки слотов экскурсии
type SlotsFilter struct {
	ExcursionID   int64
	FromDate      *time.Time // Обычно сегодняшний день - прошедшие слоты не показываются
	OnlyAvailable bool
}
