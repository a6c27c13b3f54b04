// ABOUTME: Remote offset synchronizer lining channels up with a courtroom feed
// ABOUTME: Compensates for load latency by adding observed drift to the target
package remote

import (
	"context"
	"time"

	"github.com/Gavel-Project/gavel-go/internal/playback"
)

// DefaultReadyDelay stands in for a readiness signal on decode paths
// that do not emit one.
const DefaultReadyDelay = 100 * time.Millisecond

// ChannelLookup resolves channel names to elements. The channel board
// implements it.
type ChannelLookup interface {
	Channel(name string) playback.Element
}

// Synchronizer seeks channels so that local playback matches a remote
// courtroom that is already mid-track.
type Synchronizer struct {
	channels   ChannelLookup
	readyDelay time.Duration
	now        func() time.Time
	after      func(time.Duration) <-chan time.Time
}

// Option adjusts synchronizer construction.
type Option func(*Synchronizer)

// WithReadyDelay overrides the settle delay used for non-native paths.
func WithReadyDelay(d time.Duration) Option {
	return func(s *Synchronizer) { s.readyDelay = d }
}

// WithClock substitutes the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) { s.now = now }
}

func New(channels ChannelLookup, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		channels:   channels,
		readyDelay: DefaultReadyDelay,
		now:        time.Now,
		after:      time.After,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply pauses the named channel, loads source on it, waits for it to
// become playable, then seeks to offset plus however long the wait took
// and starts playback. Unknown channel names are ignored.
func (s *Synchronizer) Apply(ctx context.Context, channel, source string, offset float64, loop bool) {
	el := s.channels.Channel(channel)
	if el == nil {
		return
	}

	loadStart := s.now()
	el.Pause()
	el.SetLoop(loop)

	if el.Kind() == playback.KindNative {
		// Native loads announce readiness once metadata is decoded.
		// Subscribe before loading so a fast decode cannot slip past.
		ready := make(chan struct{}, 1)
		failed := make(chan struct{}, 1)
		cancelReady := el.Once(playback.EventMetadata, func(playback.Event) {
			ready <- struct{}{}
		})
		defer cancelReady()
		cancelFailed := el.Once(playback.EventError, func(playback.Event) {
			failed <- struct{}{}
		})
		defer cancelFailed()
		el.Load(source)

		select {
		case <-ready:
		case <-failed:
			return
		case <-ctx.Done():
			return
		}
	} else {
		// Software and routed paths expose no readiness event; give
		// the decode a fixed head start instead.
		el.Load(source)
		select {
		case <-s.after(s.readyDelay):
		case <-ctx.Done():
			return
		}
	}

	drift := s.now().Sub(loadStart).Seconds()
	el.SetCurrentTime(offset + drift)
	el.Play()
}
