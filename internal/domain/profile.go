package domain

import "time"

// Profile минимальная учетная запись клиента
// Создается автоматически при первом бронировании, если запись с таким email отсутствует
type Profile struct {
	ID       int64
	Email    string
	FullName string

	CreatedAt time.Time
}
