package events

import (
	"context"
	"log/slog"
	"sync"
)

const subscriberBuffer = 16

// Hub delivers events to in-process subscribers of a match. A subscriber
// that falls behind misses events rather than stalling publishers.
type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string]map[uint64]chan Event
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[uint64]chan Event)}
}

// Subscribe returns a channel of events for matchID and a func that
// unsubscribes and closes the channel.
func (h *Hub) Subscribe(matchID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.nextID++
	id := h.nextID

	if h.subs[matchID] == nil {
		h.subs[matchID] = make(map[uint64]chan Event)
	}

	h.subs[matchID][id] = ch
	h.mu.Unlock()

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			delete(h.subs[matchID], id)

			if len(h.subs[matchID]) == 0 {
				delete(h.subs, matchID)
			}

			close(ch)
		})
	}
}

func (h *Hub) Publish(_ context.Context, e Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs[e.MatchID] {
		select {
		case ch <- e:
		default:
			slog.Warn("live subscriber lagging, event dropped",
				"match_id", e.MatchID, "subscriber", id, "event", e.Type)
		}
	}

	return nil
}

// Subscribers reports how many listeners matchID has.
func (h *Hub) Subscribers(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs[matchID])
}
