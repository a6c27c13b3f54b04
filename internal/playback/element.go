// ABOUTME: Core playable-audio element with its state machine and clock math
// ABOUTME: Native, software, and routed variants all share this behavior
package playback

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/Gavel-Project/gavel-go/internal/audio"
	"github.com/Gavel-Project/gavel-go/internal/engine"
)

// ErrMissingBuffer is reported when Play is called with nothing loaded.
var ErrMissingBuffer = errors.New("no audio buffer loaded")

// State is the lifecycle phase of an element.
type State string

const (
	// StateEmpty means no source has been assigned.
	StateEmpty State = "empty"
	// StateLoading means a source is being fetched and decoded.
	StateLoading State = "loading"
	// StatePaused means a buffer is ready and playback is stopped.
	StatePaused State = "paused"
	// StatePlaying means audio is flowing to the device.
	StatePlaying State = "playing"
	// StateErrored means the last load failed.
	StateErrored State = "errored"
)

// Kind distinguishes the element variants for callers that adapt their
// readiness strategy to the decode path.
type Kind string

const (
	KindNative   Kind = "native"
	KindSoftware Kind = "software"
	KindRouted   Kind = "routed"
)

// Element is the playable-audio surface shared by every variant.
type Element interface {
	// Load starts fetching and decoding source, replacing any current
	// audio. It returns immediately; completion is signaled by events.
	Load(source string)
	// Play starts or resumes playback. It first resumes the device
	// context and waits out any in-flight load. With no buffer it
	// emits an error event and does nothing.
	Play()
	// Pause stops playback, capturing the live position.
	Pause()
	// CurrentTime reports the playback position in seconds.
	CurrentTime() float64
	// SetCurrentTime seeks. While playing, output restarts at the new
	// position immediately.
	SetCurrentTime(seconds float64)
	// Duration reports the loaded audio length in seconds, 0 if none.
	Duration() float64
	Volume() float64
	// SetVolume clamps to [0, 1] and applies to live output.
	SetVolume(volume float64)
	Loop() bool
	SetLoop(loop bool)
	Source() string
	State() State
	Kind() Kind
	On(kind EventKind, fn func(Event)) func()
	Once(kind EventKind, fn func(Event)) func()
	// Close stops playback and discards the element.
	Close()
}

// Option adjusts element construction.
type Option func(*element)

// WithClock substitutes the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(e *element) { e.clock = now }
}

type element struct {
	eng   *engine.Context
	kind  Kind
	load  func(ctx context.Context, source string) (*audio.PCMBuffer, error)
	hub   *hub
	clock func() time.Time

	mu         sync.Mutex
	state      State
	source     string
	buf        *audio.PCMBuffer
	node       *engine.Node
	volume     float64
	loop       bool
	offset     float64   // position in seconds; base while playing
	startedAt  time.Time // wall-clock reference while playing
	generation uint64
	loadDone   chan struct{}
	closed     bool
}

func newElement(eng *engine.Context, kind Kind, opts ...Option) *element {
	e := &element{
		eng:    eng,
		kind:   kind,
		hub:    newHub(),
		clock:  time.Now,
		state:  StateEmpty,
		volume: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *element) Load(source string) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.stopNodeLocked()
	e.generation++
	gen := e.generation
	e.source = source
	e.state = StateLoading
	e.buf = nil
	e.offset = 0
	done := make(chan struct{})
	e.loadDone = done
	e.mu.Unlock()

	go func() {
		buf, err := e.load(context.Background(), source)

		e.mu.Lock()
		if e.closed || e.generation != gen {
			e.mu.Unlock()
			close(done)
			return
		}
		if err != nil {
			e.state = StateErrored
			e.mu.Unlock()
			close(done)
			e.hub.emit(EventError, err)
			return
		}
		e.buf = buf
		e.state = StatePaused
		e.mu.Unlock()
		close(done)
		// Software loads have no metadata phase; the synchronizer's
		// readiness wait keys off this event for native elements only.
		if e.kind == KindNative {
			e.hub.emit(EventMetadata, nil)
		}
		e.hub.emit(EventLoaded, nil)
	}()
}

func (e *element) Play() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	gen := e.generation
	done := e.loadDone
	e.mu.Unlock()

	// The device context may be suspended; nothing plays until it runs.
	if err := e.eng.Resume(); err != nil {
		e.hub.emit(EventError, err)
		return
	}
	if done != nil {
		<-done
	}

	e.mu.Lock()
	if e.closed || e.generation != gen {
		e.mu.Unlock()
		return
	}
	if e.buf == nil {
		e.mu.Unlock()
		e.hub.emit(EventError, ErrMissingBuffer)
		return
	}
	if e.state == StatePlaying {
		e.mu.Unlock()
		return
	}
	e.startNodeLocked()
	e.mu.Unlock()
	e.hub.emit(EventPlay, nil)
}

func (e *element) Pause() {
	e.mu.Lock()
	if e.closed || e.state != StatePlaying {
		e.mu.Unlock()
		return
	}
	e.offset = e.currentTimeLocked()
	e.stopNodeLocked()
	e.state = StatePaused
	e.mu.Unlock()
	e.hub.emit(EventPause, nil)
}

func (e *element) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentTimeLocked()
}

func (e *element) SetCurrentTime(seconds float64) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	if seconds < 0 {
		seconds = 0
	}
	if d := e.durationLocked(); e.buf != nil && seconds > d {
		seconds = d
	}
	e.offset = seconds
	if e.state == StatePlaying {
		e.stopNodeLocked()
		e.startNodeLocked()
	}
	e.mu.Unlock()
}

func (e *element) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.durationLocked()
}

func (e *element) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

func (e *element) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	e.mu.Lock()
	e.volume = volume
	n := e.node
	e.mu.Unlock()
	if n != nil {
		n.SetGain(volume)
	}
}

func (e *element) Loop() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loop
}

func (e *element) SetLoop(loop bool) {
	e.mu.Lock()
	e.loop = loop
	n := e.node
	e.mu.Unlock()
	if n != nil {
		n.SetLoop(loop)
	}
}

func (e *element) Source() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.source
}

func (e *element) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *element) Kind() Kind {
	return e.kind
}

func (e *element) On(kind EventKind, fn func(Event)) func() {
	return e.hub.On(kind, fn)
}

func (e *element) Once(kind EventKind, fn func(Event)) func() {
	return e.hub.Once(kind, fn)
}

func (e *element) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.generation++
	e.stopNodeLocked()
	e.state = StateEmpty
	e.buf = nil
	e.mu.Unlock()
}

// startNodeLocked spins up a fresh node at the current offset.
func (e *element) startNodeLocked() {
	var n *engine.Node
	n = e.eng.NewNode(e.buf, engine.NodeOptions{
		Offset:     e.offset,
		Loop:       e.loop,
		Gain:       e.volume,
		OnComplete: func() { e.handleEnded(n) },
	})
	e.node = n
	e.state = StatePlaying
	e.startedAt = e.clock()
	n.Start()
}

func (e *element) stopNodeLocked() {
	if e.node != nil {
		e.node.Stop()
		e.node = nil
	}
}

// handleEnded runs on the node's completion goroutine. A node that was
// replaced by a seek or a new load is ignored. The position rewinds to
// zero so a later Play replays from the start.
func (e *element) handleEnded(n *engine.Node) {
	e.mu.Lock()
	if e.closed || e.node != n {
		e.mu.Unlock()
		return
	}
	e.node = nil
	e.offset = 0
	e.state = StatePaused
	e.mu.Unlock()
	e.hub.emit(EventEnded, nil)
}

func (e *element) currentTimeLocked() float64 {
	if e.state != StatePlaying {
		return e.offset
	}
	t := e.offset + e.clock().Sub(e.startedAt).Seconds()
	d := e.durationLocked()
	if e.loop && d > 0 {
		return math.Mod(t, d)
	}
	if d > 0 && t > d {
		return d
	}
	return t
}

func (e *element) durationLocked() float64 {
	if e.buf == nil {
		return 0
	}
	return e.buf.Duration()
}
