// ABOUTME: Audio engine context and the driver seam over the output device
// ABOUTME: Context creates playback nodes and forwards suspend/resume to the driver
package engine

import (
	"io"

	"github.com/Gavel-Project/gavel-go/internal/audio"
)

// Player is the device-side handle for one stream of samples.
// *oto.Player satisfies it; tests substitute a fake.
type Player interface {
	Play()
	Pause()
	IsPlaying() bool
	Close() error
}

// Driver abstracts the platform audio device. It hands out players that
// pull little-endian 16-bit interleaved samples from a reader.
type Driver interface {
	NewPlayer(io.Reader) Player
	SampleRate() int
	ChannelCount() int
	Suspend() error
	Resume() error
}

// Context owns the device driver and builds nodes against it.
type Context struct {
	driver Driver
}

func NewContext(driver Driver) *Context {
	return &Context{driver: driver}
}

// Resume unblocks the device after a suspend. Safe to call when the
// device is already running.
func (c *Context) Resume() error {
	return c.driver.Resume()
}

func (c *Context) Suspend() error {
	return c.driver.Suspend()
}

func (c *Context) SampleRate() int {
	return c.driver.SampleRate()
}

// NewNode builds a node that streams buf to the device, converting
// rate and channel layout as needed. The node is created paused;
// call Start to begin output.
func (c *Context) NewNode(buf *audio.PCMBuffer, opts NodeOptions) *Node {
	n := newNode(buf, c.driver.SampleRate(), c.driver.ChannelCount(), opts)
	n.player = c.driver.NewPlayer(n)
	return n
}
