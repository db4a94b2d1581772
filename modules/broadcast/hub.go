// Package broadcast fans out table change signals to live queries.
package broadcast

import (
	"sync"

	"github.com/google/uuid"
)

// Hub tracks subscribers interested in one table. Each subscriber owns a
// one-slot signal channel, so bursts of writes collapse into a single wake-up.
type Hub struct {
	name        string
	subscribers map[string]chan struct{}
	mu          sync.RWMutex
}

// NewHub creates a Hub for the named table.
func NewHub(name string) *Hub {
	return &Hub{
		name:        name,
		subscribers: make(map[string]chan struct{}),
	}
}

// Name returns the table the hub watches.
func (h *Hub) Name() string {
	return h.name
}

// Subscribe registers a new listener and returns its id and signal channel.
func (h *Hub) Subscribe() (string, <-chan struct{}) {
	id := uuid.New().String()
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	h.subscribers[id] = ch
	h.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a listener. Unknown ids are ignored.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, id)
}

// Notify wakes every subscriber without blocking. A subscriber that has not
// consumed its previous signal keeps just that one.
func (h *Hub) Notify() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// SubscriberCount returns the number of active listeners.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
