// ABOUTME: Channel router choosing between native and software elements
// ABOUTME: Settings dual-write to both variants; transport follows the source
package playback

import (
	"strings"
	"sync"

	"github.com/Gavel-Project/gavel-go/internal/codec"
)

// Wrap returns the native element unchanged when the runtime decodes
// opus natively. Otherwise it returns a facade that routes each call to
// the variant matching the current source.
func Wrap(native, software Element, probe *codec.Probe) Element {
	if probe.SupportsOpus() {
		return native
	}
	r := &Router{
		native:   native,
		software: software,
		hub:      newHub(),
		volume:   1,
	}
	r.reemit(native)
	r.reemit(software)
	return r
}

// Router presents two elements as one. Reads and transport calls go to
// the variant for the active source; volume and loop writes go to both
// so a source switch keeps the settings.
type Router struct {
	native   Element
	software Element
	hub      *hub

	mu     sync.Mutex
	source string
	volume float64
	loop   bool
}

// softwareSource reports whether source needs the software decode path.
func softwareSource(source string) bool {
	return strings.HasSuffix(strings.ToLower(source), ".opus")
}

func (r *Router) active() Element {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked()
}

func (r *Router) activeLocked() Element {
	if softwareSource(r.source) {
		return r.software
	}
	return r.native
}

// reemit forwards el's events to the router's subscribers, dropping
// anything from the variant that is not currently active.
func (r *Router) reemit(el Element) {
	for _, kind := range eventKinds {
		kind := kind
		el.On(kind, func(ev Event) {
			if r.active() == el {
				r.hub.emit(ev.Kind, ev.Err)
			}
		})
	}
}

func (r *Router) Load(source string) {
	r.mu.Lock()
	prev := r.activeLocked()
	r.source = source
	next := r.activeLocked()
	r.mu.Unlock()

	if prev != next {
		prev.Pause()
	}
	next.Load(source)
}

func (r *Router) Play() {
	r.active().Play()
}

func (r *Router) Pause() {
	r.active().Pause()
}

func (r *Router) CurrentTime() float64 {
	return r.active().CurrentTime()
}

func (r *Router) SetCurrentTime(seconds float64) {
	r.active().SetCurrentTime(seconds)
}

func (r *Router) Duration() float64 {
	return r.active().Duration()
}

func (r *Router) Volume() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.volume
}

func (r *Router) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	r.mu.Lock()
	r.volume = volume
	r.mu.Unlock()
	r.native.SetVolume(volume)
	r.software.SetVolume(volume)
}

func (r *Router) Loop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loop
}

func (r *Router) SetLoop(loop bool) {
	r.mu.Lock()
	r.loop = loop
	r.mu.Unlock()
	r.native.SetLoop(loop)
	r.software.SetLoop(loop)
}

func (r *Router) Source() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source
}

func (r *Router) State() State {
	return r.active().State()
}

func (r *Router) Kind() Kind {
	return KindRouted
}

func (r *Router) On(kind EventKind, fn func(Event)) func() {
	return r.hub.On(kind, fn)
}

func (r *Router) Once(kind EventKind, fn func(Event)) func() {
	return r.hub.Once(kind, fn)
}

func (r *Router) Close() {
	r.native.Close()
	r.software.Close()
}
