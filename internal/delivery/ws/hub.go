package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ratewatch/rates-service/internal/domain"
	"github.com/ratewatch/rates-service/internal/infrastructure/metrics"
)

// Hub keeps the live set of push subscribers and fans rate events out to
// them. Register/Unregister run concurrently with broadcasts, the live set
// is guarded and each broadcast works on its own snapshot.
type Hub struct {
	metrics *metrics.RateMetrics

	mu          sync.Mutex
	subscribers map[string]domain.PushSubscriber
}

func NewHub(m *metrics.RateMetrics) *Hub {
	return &Hub{
		metrics:     m,
		subscribers: make(map[string]domain.PushSubscriber),
	}
}

func (h *Hub) Register(sub domain.PushSubscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[sub.ID()]; ok {
		return
	}
	h.subscribers[sub.ID()] = sub
	h.metrics.Subscribers.Set(float64(len(h.subscribers)))

	slog.Info("push subscriber connected", "id", sub.ID(), "total", len(h.subscribers))
}

func (h *Hub) Unregister(sub domain.PushSubscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[sub.ID()]; !ok {
		return
	}
	delete(h.subscribers, sub.ID())
	h.metrics.Subscribers.Set(float64(len(h.subscribers)))

	slog.Info("push subscriber disconnected", "id", sub.ID(), "total", len(h.subscribers))
}

// Broadcast serializes the event once and attempts delivery to every live
// subscriber. Failed subscribers are collected and dropped after the full
// pass so one dead connection cannot starve the rest.
func (h *Hub) Broadcast(event domain.RateEvent) {
	h.mu.Lock()
	if len(h.subscribers) == 0 {
		h.mu.Unlock()
		return
	}
	snapshot := make([]domain.PushSubscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		snapshot = append(snapshot, sub)
	}
	h.mu.Unlock()

	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal rate event for push", "type", event.Type, "error", err)
		return
	}

	var dead []domain.PushSubscriber
	for _, sub := range snapshot {
		if err := sub.Send(payload); err != nil {
			slog.Warn("push delivery failed", "id", sub.ID(), "error", err)
			dead = append(dead, sub)
		}
	}

	for _, sub := range dead {
		h.Unregister(sub)
		h.metrics.BroadcastPrunedTotal.Inc()
	}
}

// Len reports the current live set size.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
