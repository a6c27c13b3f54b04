// ABOUTME: Channel board holding the courtroom playback pools
// ABOUTME: Indexed music channels, round-robin blips, and dedicated sting channels
package channels

import (
	"fmt"
	"sync/atomic"

	"github.com/Gavel-Project/gavel-go/internal/playback"
)

// Config sets the pool sizes. Counts below one are raised to one.
type Config struct {
	MusicChannels int
	BlipChannels  int
}

// Board owns every playback channel in the client. Music channels are
// addressed by index, blips rotate round-robin so rapid text beeps can
// overlap, and the sting channels are dedicated one-shot slots.
type Board struct {
	music     []playback.Element
	blips     []playback.Element
	sfx       playback.Element
	testimony playback.Element
	shout     playback.Element

	byName   map[string]playback.Element
	names    []string
	blipNext atomic.Uint64
}

// NewBoard builds the pools, calling newChannel once per slot with the
// channel's name.
func NewBoard(cfg Config, newChannel func(name string) playback.Element) *Board {
	if cfg.MusicChannels < 1 {
		cfg.MusicChannels = 1
	}
	if cfg.BlipChannels < 1 {
		cfg.BlipChannels = 1
	}

	b := &Board{byName: make(map[string]playback.Element)}
	add := func(name string) playback.Element {
		el := newChannel(name)
		b.byName[name] = el
		b.names = append(b.names, name)
		return el
	}

	for i := 0; i < cfg.MusicChannels; i++ {
		b.music = append(b.music, add(fmt.Sprintf("music%d", i)))
	}
	for i := 0; i < cfg.BlipChannels; i++ {
		b.blips = append(b.blips, add(fmt.Sprintf("blip%d", i)))
	}
	b.sfx = add("sfx")
	b.testimony = add("testimony")
	b.shout = add("shout")
	return b
}

// Channel looks up a pool slot by name, nil when unknown.
func (b *Board) Channel(name string) playback.Element {
	return b.byName[name]
}

// Names lists every channel in board order.
func (b *Board) Names() []string {
	return append([]string(nil), b.names...)
}

// Music returns the indexed music channel. Negative indexes fall back
// to channel 0; indexes past the pool return nil.
func (b *Board) Music(index int) playback.Element {
	if index < 0 {
		index = 0
	}
	if index >= len(b.music) {
		return nil
	}
	return b.music[index]
}

// MusicCount reports how many music channels exist.
func (b *Board) MusicCount() int {
	return len(b.music)
}

// NextBlip returns the next blip channel in rotation.
func (b *Board) NextBlip() playback.Element {
	idx := int((b.blipNext.Add(1) - 1) % uint64(len(b.blips)))
	return b.blips[idx]
}

func (b *Board) SFX() playback.Element       { return b.sfx }
func (b *Board) Testimony() playback.Element { return b.testimony }
func (b *Board) Shout() playback.Element     { return b.shout }

// PlayMusic loads source on the indexed music channel and starts it.
// Negative indexes fall back to channel 0; indexes past the pool are
// ignored.
func (b *Board) PlayMusic(index int, source string, loop bool) {
	el := b.Music(index)
	if el == nil {
		return
	}
	el.SetLoop(loop)
	start(el, source)
}

// PlayBlip fires a text beep on the next blip channel in rotation.
func (b *Board) PlayBlip(source string) {
	start(b.NextBlip(), source)
}

// PlaySFX fires a one-shot on the dedicated effect channel.
func (b *Board) PlaySFX(source string) {
	start(b.sfx, source)
}

// PlayTestimony fires the testimony sting.
func (b *Board) PlayTestimony(source string) {
	start(b.testimony, source)
}

// PlayShout fires an interjection on the shout channel.
func (b *Board) PlayShout(source string) {
	start(b.shout, source)
}

// start loads and plays without blocking the caller; Play waits out the
// load on its own goroutine.
func start(el playback.Element, source string) {
	el.Load(source)
	go el.Play()
}

// StopAll pauses every channel.
func (b *Board) StopAll() {
	for _, name := range b.names {
		b.byName[name].Pause()
	}
}

// Close releases every channel.
func (b *Board) Close() {
	for _, name := range b.names {
		b.byName[name].Close()
	}
}

// ChannelStatus is a point-in-time view of one channel for display.
type ChannelStatus struct {
	Name   string
	Source string
	State  playback.State
	Volume float64
	Time   float64
	Length float64
}

// Snapshot reports every channel in board order.
func (b *Board) Snapshot() []ChannelStatus {
	out := make([]ChannelStatus, 0, len(b.names))
	for _, name := range b.names {
		el := b.byName[name]
		out = append(out, ChannelStatus{
			Name:   name,
			Source: el.Source(),
			State:  el.State(),
			Volume: el.Volume(),
			Time:   el.CurrentTime(),
			Length: el.Duration(),
		})
	}
	return out
}
