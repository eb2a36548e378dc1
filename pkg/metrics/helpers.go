package metrics

// Хелперы для бизнес-метрик: сервисы зависят от маленьких интерфейсов
// (см. contract.go соответствующих пакетов), а не от прометеуса напрямую

// BookingCreated увеличивает счетчик созданных бронирований
func (m *Metrics) BookingCreated() {
	m.BookingsCreated.Inc()
}

// BookingConfirmed увеличивает счетчик подтвержденных бронирований
func (m *Metrics) BookingConfirmed() {
	m.BookingsConfirmed.Inc()
}

// BookingCancelled увеличивает счетчик отмененных бронирований
func (m *Metrics) BookingCancelled() {
	m.BookingsCancelled.Inc()
}

// ConflictDetected увеличивает счетчик обнаруженных конфликтов по типу
func (m *Metrics) ConflictDetected(conflictType string) {
	m.ConflictsDetected.WithLabelValues(conflictType).Inc()
}

// RealtimeSubscriberAdded увеличивает gauge подписчиков
func (m *Metrics) RealtimeSubscriberAdded() {
	m.RealtimeSubscribers.Inc()
}

// RealtimeSubscriberRemoved уменьшает gauge подписчиков
func (m *Metrics) RealtimeSubscriberRemoved() {
	m.RealtimeSubscribers.Dec()
}

// RealtimeUpdateSent увеличивает счетчик доставленных обновлений
func (m *Metrics) RealtimeUpdateSent() {
	m.RealtimeUpdatesSent.Inc()
}
