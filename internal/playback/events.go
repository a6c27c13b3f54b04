// ABOUTME: Playback event kinds and the subscription hub
// ABOUTME: Handlers are keyed by generated IDs so unsubscribe is O(1)
package playback

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// EventKind identifies a playback lifecycle notification.
type EventKind string

const (
	// EventLoaded fires when a source has been decoded and is playable.
	EventLoaded EventKind = "loaded"
	// EventMetadata fires once per load as soon as duration is known.
	EventMetadata EventKind = "metadata"
	// EventPlay fires when playback starts or resumes.
	EventPlay EventKind = "play"
	// EventPause fires when playback is paused.
	EventPause EventKind = "pause"
	// EventEnded fires when a non-looping source plays to the end.
	EventEnded EventKind = "ended"
	// EventError fires when a load or transport operation fails.
	EventError EventKind = "error"
)

var eventKinds = []EventKind{
	EventLoaded, EventMetadata, EventPlay, EventPause, EventEnded, EventError,
}

// Event is delivered to subscribed handlers. Err is set for EventError.
type Event struct {
	Kind EventKind
	Err  error
}

type hub struct {
	mu   sync.Mutex
	subs map[EventKind]map[string]func(Event)
}

func newHub() *hub {
	return &hub{subs: make(map[EventKind]map[string]func(Event))}
}

// On registers a handler and returns its unsubscribe function.
func (h *hub) On(kind EventKind, fn func(Event)) func() {
	id := uuid.NewString()
	h.mu.Lock()
	h.addLocked(kind, id, fn)
	h.mu.Unlock()
	return func() { h.remove(kind, id) }
}

// Once registers a handler that fires for at most one event. The
// returned function cancels it before it fires.
func (h *hub) Once(kind EventKind, fn func(Event)) func() {
	id := uuid.NewString()
	var fired atomic.Bool
	h.mu.Lock()
	h.addLocked(kind, id, func(ev Event) {
		if fired.CompareAndSwap(false, true) {
			h.remove(kind, id)
			fn(ev)
		}
	})
	h.mu.Unlock()
	return func() {
		fired.Store(true)
		h.remove(kind, id)
	}
}

func (h *hub) addLocked(kind EventKind, id string, fn func(Event)) {
	m := h.subs[kind]
	if m == nil {
		m = make(map[string]func(Event))
		h.subs[kind] = m
	}
	m[id] = fn
}

func (h *hub) remove(kind EventKind, id string) {
	h.mu.Lock()
	if m := h.subs[kind]; m != nil {
		delete(m, id)
	}
	h.mu.Unlock()
}

// emit delivers to every subscriber of kind. Handlers run on the
// caller's goroutine, outside the hub lock.
func (h *hub) emit(kind EventKind, err error) {
	h.mu.Lock()
	handlers := make([]func(Event), 0, len(h.subs[kind]))
	for _, fn := range h.subs[kind] {
		handlers = append(handlers, fn)
	}
	h.mu.Unlock()

	ev := Event{Kind: kind, Err: err}
	for _, fn := range handlers {
		fn(ev)
	}
}
