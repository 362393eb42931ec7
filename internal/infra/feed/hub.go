package feed

import (
	"sync"

	"github.com/horizonenergysouth/horizon-crm/internal/entity"
)

// Hub fans complete lead-list snapshots out to dashboard subscribers. Every
// publish is a full replacement of the visible list, never a merge; a slow
// subscriber just skips straight to the newest snapshot.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan []entity.Lead]struct{}
	last        []entity.Lead
	hasSnapshot bool
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan []entity.Lead]struct{}),
	}
}

// Subscribe registers a new subscriber. If a snapshot has already been
// delivered, the channel receives it immediately so late-joining dashboards
// don't wait for the next change.
func (h *Hub) Subscribe() chan []entity.Lead {
	ch := make(chan []entity.Lead, 1)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[ch] = struct{}{}
	if h.hasSnapshot {
		ch <- h.last
	}
	return ch
}

func (h *Hub) Unsubscribe(ch chan []entity.Lead) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, ch)
}

// Publish replaces the current snapshot and delivers it to every subscriber.
// A pending undelivered snapshot is discarded first: only the newest state
// matters.
func (h *Hub) Publish(leads []entity.Lead) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = leads
	h.hasSnapshot = true

	for ch := range h.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- leads
	}
}

// Last returns the most recent snapshot, or false if none has been published
// yet. Subscription failures leave this stale-but-consistent state in place.
func (h *Hub) Last() ([]entity.Lead, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last, h.hasSnapshot
}

func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
