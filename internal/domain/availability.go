package domain

// Availability результат расчета доступности слота
type Availability struct {
	AvailableSpots int
	IsAvailable    bool
}

// CalculateAvailability вычисляет количество свободных мест слота
// по вместимости и количеству участников подтвержденных бронирований.
// Чистая функция: отрицательный остаток обрезается до нуля,
// слот доступен только при строго положительном остатке
func CalculateAvailability(maxParticipants int, confirmedCounts []int) Availability {
	sum := 0
	for _, c := range confirmedCounts {
		sum += c
	}

	available := maxParticipants - sum
	if available < 0 {
		available = 0
	}

	return Availability{
		AvailableSpots: available,
		IsAvailable:    available > 0,
	}
}

// RemainingSpots возвращает остаток мест без обрезания до нуля
// Отрицательное значение означает овербукинг - используется детектором конфликтов
func RemainingSpots(maxParticipants int, confirmedSum int) int {
	return maxParticipants - confirmedSum
}
