package websocket

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/scholarspoint/sphub-backend/internal/model"
)

// Hub fans state-change events out to connected dashboards. Subscribers get a
// buffered channel; a subscriber that stops draining is dropped rather than
// allowed to block the mutation path.
type Hub struct {
	mu   sync.Mutex
	subs map[chan StateChangedEvent]struct{}
	log  zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		subs: make(map[chan StateChangedEvent]struct{}),
		log:  log.With().Str("component", "ws_hub").Logger(),
	}
}

// Subscribe registers a new listener channel. The caller must Unsubscribe
// when the connection closes.
func (h *Hub) Subscribe() chan StateChangedEvent {
	ch := make(chan StateChangedEvent, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a listener channel.
func (h *Hub) Unsubscribe(ch chan StateChangedEvent) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Broadcast is registered as a store listener: it runs on every mutation.
func (h *Hub) Broadcast(state *model.AppState) {
	event := StateChangedEvent{
		Event:      EventStateChanged,
		Students:   len(state.Students),
		Attendance: len(state.Attendance),
		Fees:       len(state.Fees),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
			h.log.Warn().Msg("Dropping slow websocket subscriber")
			delete(h.subs, ch)
			close(ch)
		}
	}
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
