// ABOUTME: Real audio driver backed by the oto library
// ABOUTME: Opens one device context and hands out players bound to it
package engine

import (
	"fmt"
	"io"

	"github.com/ebitengine/oto/v3"
)

type otoDriver struct {
	ctx        *oto.Context
	sampleRate int
	channels   int
}

// NewOtoDriver opens the platform audio device and blocks until it is
// ready to accept samples. Only one driver may exist per process.
func NewOtoDriver(sampleRate, channels int) (Driver, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio context: %w", err)
	}
	<-ready

	return &otoDriver{ctx: ctx, sampleRate: sampleRate, channels: channels}, nil
}

func (d *otoDriver) NewPlayer(r io.Reader) Player {
	return d.ctx.NewPlayer(r)
}

func (d *otoDriver) SampleRate() int {
	return d.sampleRate
}

func (d *otoDriver) ChannelCount() int {
	return d.channels
}

func (d *otoDriver) Suspend() error {
	return d.ctx.Suspend()
}

func (d *otoDriver) Resume() error {
	return d.ctx.Resume()
}
