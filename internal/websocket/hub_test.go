package websocket

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/scholarspoint/sphub-backend/internal/model"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	a := hub.Subscribe()
	b := hub.Subscribe()
	defer hub.Unsubscribe(b)

	hub.Broadcast(&model.AppState{
		Students: []model.Student{{ID: "s"}},
	})

	for _, ch := range []chan StateChangedEvent{a, b} {
		select {
		case event := <-ch:
			if event.Event != EventStateChanged || event.Students != 1 {
				t.Errorf("event = %+v", event)
			}
		default:
			t.Fatal("subscriber did not receive the event")
		}
	}

	hub.Unsubscribe(a)
	if hub.Count() != 1 {
		t.Errorf("count after unsubscribe = %d, want 1", hub.Count())
	}
	if _, open := <-a; open {
		t.Error("unsubscribed channel not closed")
	}
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ch := hub.Subscribe()

	// Fill the buffer without draining; the next broadcast evicts.
	for i := 0; i < cap(ch)+1; i++ {
		hub.Broadcast(&model.AppState{})
	}

	if hub.Count() != 0 {
		t.Errorf("count = %d, want slow subscriber dropped", hub.Count())
	}
}
