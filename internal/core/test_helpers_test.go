package core

import (
	"context"
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// nextEvent returns the next event on ch without skipping any.
func nextEvent(t *testing.T, ch <-chan *Event) *Event {
	t.Helper()

	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatalf("events channel closed")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("no event received")
		return nil
	}
}

// requireNoPending fails if ch already holds an event.
func requireNoPending(t *testing.T, name string, ch <-chan *Event) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("%s: unexpected event %v: %+v", name, ev.Kind, ev)
	default:
	}
}

func startHub(t *testing.T, opts ...Option) *Hub {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	hub := NewHub(opts...)
	go hub.Run(ctx)
	return hub
}

// joined registers a client, joins it under name and consumes its own join
// events, leaving its Events channel empty.
func joined(t *testing.T, hub *Hub, id, name string) *Client {
	t.Helper()

	c := NewClient(id, 0)
	hub.RegisterClient(c)
	c.Commands <- &Command{Kind: CommandJoin, Name: name}

	if ev := nextEvent(t, c.Events); ev.Kind != EventRosterChanged {
		t.Fatalf("%s: expected roster first, got %+v", name, ev)
	}
	if ev := nextEvent(t, c.Events); ev.Kind != EventSystemMessage {
		t.Fatalf("%s: expected welcome, got %+v", name, ev)
	}
	return c
}
