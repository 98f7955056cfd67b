package notifications

import (
	"strings"
	"sync"
	"time"
)

type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Hub fans recommendation events out to SSE subscribers, keyed by city.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// NewHub создает хаб для SSE-подписок.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe подписывает на события города и возвращает канал и функцию отписки.
func (h *Hub) Subscribe(city string) (<-chan Event, func()) {
	key := normalizeCity(city)
	ch := make(chan Event, 10)

	h.mu.Lock()
	defer h.mu.Unlock()

	citySubs, ok := h.subscribers[key]
	if !ok {
		citySubs = make(map[chan Event]struct{})
		h.subscribers[key] = citySubs
	}
	citySubs[ch] = struct{}{}

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if subs, exists := h.subscribers[key]; exists {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(h.subscribers, key)
			}
		}
		close(ch)
	}
}

// Publish отправляет событие всем подписчикам города.
func (h *Hub) Publish(city string, event Event) {
	event.Timestamp = time.Now().UTC()

	h.mu.RLock()
	defer h.mu.RUnlock()

	subs, ok := h.subscribers[normalizeCity(city)]
	if !ok {
		return
	}

	for ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
