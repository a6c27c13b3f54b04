// ABOUTME: High-level Player API for the courtroom audio layer
// ABOUTME: Wraps the channel board behind a simple public surface
package gavel

import (
	"fmt"
	"io"
	"time"

	"github.com/Gavel-Project/gavel-go/internal/app"
	"github.com/Gavel-Project/gavel-go/internal/playback"
	"github.com/Gavel-Project/gavel-go/internal/protocol"
)

// PlayerConfig holds player configuration
type PlayerConfig struct {
	// AssetBase is the directory or http(s) prefix that relative sources
	// resolve against
	AssetBase string

	// MusicChannels is the number of indexed music channels (default: 2)
	MusicChannels int

	// BlipChannels is the number of rotating text-blip channels (default: 6)
	BlipChannels int

	// ReadyDelay overrides the software decode readiness delay used when
	// joining a track at an offset (default: 100ms)
	ReadyDelay time.Duration

	// OnEvent is called for every playback event on any channel
	OnEvent func(ChannelEvent)

	// OnError is called when a channel reports an error
	OnError func(error)
}

// ChannelEvent is one playback event on a named channel.
type ChannelEvent struct {
	Channel string
	Kind    string // "loaded", "metadata", "play", "pause", "ended", "error"
	Err     error
}

// ChannelStatus is a point-in-time view of one channel.
type ChannelStatus struct {
	Channel string
	Source  string
	State   string // "empty", "loading", "paused", "playing", "errored"
	Volume  float64
	Time    float64 // seconds
	Length  float64 // seconds
}

// Player drives a board of named playback channels over one audio device
type Player struct {
	config PlayerConfig
	app    *app.App
	offs   []func()
}

// NewPlayer opens the platform audio device and builds the channel board.
func NewPlayer(config PlayerConfig) (*Player, error) {
	applyDefaults(&config)

	a, err := app.New(app.Config{
		AssetBase:     config.AssetBase,
		MusicChannels: config.MusicChannels,
		BlipChannels:  config.BlipChannels,
		ReadyDelay:    config.ReadyDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open audio output: %w", err)
	}
	return newPlayer(config, a), nil
}

func newPlayer(config PlayerConfig, a *app.App) *Player {
	p := &Player{config: config, app: a}
	p.wireEvents()
	return p
}

func applyDefaults(config *PlayerConfig) {
	if config.MusicChannels == 0 {
		config.MusicChannels = 2
	}
	if config.BlipChannels == 0 {
		config.BlipChannels = 6
	}
}

// wireEvents forwards channel events to the configured callbacks.
func (p *Player) wireEvents() {
	if p.config.OnEvent == nil && p.config.OnError == nil {
		return
	}

	kinds := []playback.EventKind{
		playback.EventLoaded,
		playback.EventMetadata,
		playback.EventPlay,
		playback.EventPause,
		playback.EventEnded,
		playback.EventError,
	}

	board := p.app.Board()
	for _, name := range board.Names() {
		el := board.Channel(name)
		for _, kind := range kinds {
			off := el.On(kind, func(ev playback.Event) {
				if kind == playback.EventError && p.config.OnError != nil {
					p.config.OnError(ev.Err)
				}
				if p.config.OnEvent != nil {
					p.config.OnEvent(ChannelEvent{
						Channel: name,
						Kind:    string(kind),
						Err:     ev.Err,
					})
				}
			})
			p.offs = append(p.offs, off)
		}
	}
}

// PlayMusic starts a looping track on the indexed music channel.
// Negative channels fall back to channel 0; channels past the pool are
// ignored.
func (p *Player) PlayMusic(channel int, source string) {
	p.app.Board().PlayMusic(channel, source, true)
}

// PlayMusicFrom joins a track already running elsewhere: the channel
// seeks to offset seconds plus however long loading took, then plays.
func (p *Player) PlayMusicFrom(channel int, source string, offset float64) {
	p.app.Dispatch(&protocol.Cue{
		Command: protocol.CmdMusic,
		Source:  source,
		Channel: channel,
		Offset:  offset,
	})
}

// PlayBlip fires a text beep on the next blip channel in rotation.
func (p *Player) PlayBlip(source string) {
	p.app.Board().PlayBlip(source)
}

// PlaySFX fires a one-shot on the dedicated effect channel.
func (p *Player) PlaySFX(source string) {
	p.app.Board().PlaySFX(source)
}

// PlayTestimony fires the testimony sting.
func (p *Player) PlayTestimony(source string) {
	p.app.Board().PlayTestimony(source)
}

// PlayShout fires an interjection on the shout channel.
func (p *Player) PlayShout(source string) {
	p.app.Board().PlayShout(source)
}

// SetVolume sets one channel's volume, clamped to [0, 1].
func (p *Player) SetVolume(channel string, volume float64) error {
	el := p.app.Board().Channel(channel)
	if el == nil {
		return fmt.Errorf("unknown channel %q", channel)
	}
	el.SetVolume(volume)
	return nil
}

// StopChannel pauses one channel.
func (p *Player) StopChannel(channel string) error {
	el := p.app.Board().Channel(channel)
	if el == nil {
		return fmt.Errorf("unknown channel %q", channel)
	}
	el.Pause()
	return nil
}

// StopAll pauses every channel.
func (p *Player) StopAll() {
	p.app.Board().StopAll()
}

// Channels lists every channel name in board order.
func (p *Player) Channels() []string {
	return p.app.Board().Names()
}

// Status reports every channel in board order.
func (p *Player) Status() []ChannelStatus {
	snap := p.app.Board().Snapshot()
	out := make([]ChannelStatus, 0, len(snap))
	for _, st := range snap {
		out = append(out, ChannelStatus{
			Channel: st.Name,
			Source:  st.Source,
			State:   string(st.State),
			Volume:  st.Volume,
			Time:    st.Time,
			Length:  st.Length,
		})
	}
	return out
}

// RunCues reads newline-delimited JSON cues until the reader drains or
// the player closes.
func (p *Player) RunCues(r io.Reader) error {
	return p.app.RunCues(r)
}

// Close stops every channel and releases the audio device.
func (p *Player) Close() error {
	for _, off := range p.offs {
		off()
	}
	p.offs = nil
	p.app.Stop()
	return nil
}
