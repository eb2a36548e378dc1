package availability_stream

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/velmar/excursion-service/internal/api/handlers"
)

const (
	msgInvalidExcursionID = "некорректный ID экскурсии"

	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

type Handler struct {
	availability AvailabilitySubscriber
	conflicts    ConflictSubscriber
	metrics      Metrics
	logger       Logger
	upgrader     websocket.Upgrader
}

func NewHandler(availability AvailabilitySubscriber, conflicts ConflictSubscriber, m Metrics, logger Logger) *Handler {
	return &Handler{
		availability: availability,
		conflicts:    conflicts,
		metrics:      m,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Сервис живет за API-шлюзом, origin проверяется там
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle GET /api/v1/excursions/{excursionId}/availability/ws
// Держит websocket-соединение и транслирует клиенту обновления
// доступности слотов экскурсии и обнаруженные конфликты
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	excursionID, err := strconv.ParseInt(vars["excursionId"], 10, 64)
	if err != nil {
		h.logger.Warn("WS /excursions/{id}/availability - Invalid excursion ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExcursionID)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам пишет ответ-ошибку клиенту
		h.logger.Warn("WS /excursions/{id}/availability - Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	availSub := h.availability.Subscribe(excursionID)
	defer availSub.Unsubscribe()

	conflictSub := h.conflicts.Subscribe(excursionID)
	defer conflictSub.Unsubscribe()

	if h.metrics != nil {
		h.metrics.RealtimeSubscriberAdded()
		defer h.metrics.RealtimeSubscriberRemoved()
	}

	h.logger.Info("WS /excursions/{id}/availability - Subscriber connected: excursion_id=%d", excursionID)

	// Read pump: входящие сообщения игнорируются, но чтение нужно,
	// чтобы заметить закрытие соединения клиентом
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case upd, ok := <-availSub.Updates():
			if !ok {
				h.logger.Info("WS /excursions/{id}/availability - Broadcaster closed: excursion_id=%d", excursionID)
				return
			}
			if err := h.writeMessage(conn, availabilityMessage(upd)); err != nil {
				h.logger.Warn("WS /excursions/{id}/availability - Write failed: excursion_id=%d, error=%v",
					excursionID, err)
				return
			}

		case conflict, ok := <-conflictSub.Conflicts():
			if !ok {
				return
			}
			if err := h.writeMessage(conn, conflictMessage(conflict)); err != nil {
				h.logger.Warn("WS /excursions/{id}/availability - Write failed: excursion_id=%d, error=%v",
					excursionID, err)
				return
			}

		case <-pingTicker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.logger.Info("WS /excursions/{id}/availability - Ping failed, closing: excursion_id=%d", excursionID)
				return
			}

		case <-done:
			h.logger.Info("WS /excursions/{id}/availability - Subscriber disconnected: excursion_id=%d", excursionID)
			return

		case <-r.Context().Done():
			return
		}
	}
}

func (h *Handler) writeMessage(conn *websocket.Conn, msg StreamMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		return err
	}
	if h.metrics != nil {
		h.metrics.RealtimeUpdateSent()
	}
	return nil
}
