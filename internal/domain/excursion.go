package domain

import "time"

// Excursion represents a bookable tourist activity offered by a guide
type Excursion struct {
	ID        int64
	GuideID   int64
	Title     string
	Category  string
	BasePrice float64
	IsActive  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBookable returns true if the excursion can accept new bookings
func (e *Excursion) IsBookable() bool {
	return e.IsActive
}
