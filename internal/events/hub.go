package events

import (
	"sync"

	"jobcal-engine/internal/metrics"
)

// Hub fans events out to SSE subscribers. A subscriber whose buffer is
// full misses the event rather than stalling the publisher.
type Hub struct {
	mu      sync.Mutex
	clients map[chan string]struct{}
	metrics metrics.Sink
}

const subscriberBuffer = 10

func NewHub(m metrics.Sink) *Hub {
	if m == nil {
		m = metrics.NewNoopSink()
	}
	return &Hub{clients: make(map[chan string]struct{}), metrics: m}
}

func (h *Hub) Subscribe() chan string {
	ch := make(chan string, subscriberBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.metrics.SubscribersUpdate(n)
	return ch
}

func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	if _, ok := h.clients[ch]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, ch)
	n := len(h.clients)
	h.mu.Unlock()
	close(ch)
	h.metrics.SubscribersUpdate(n)
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Publish(evt string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- evt:
		default:
			h.metrics.EventDropped()
		}
	}
}

// Emit wraps data in a versioned envelope and publishes it.
func (h *Hub) Emit(reqID, typ string, data any) {
	h.Publish(MakeEvent(reqID, typ, Version, data))
	h.metrics.EventPublished(typ)
}
