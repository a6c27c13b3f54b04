// ABOUTME: Main player application orchestration
// ABOUTME: Wires the engine, decoders, and channel board and dispatches cues
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/Gavel-Project/gavel-go/internal/assets"
	"github.com/Gavel-Project/gavel-go/internal/audio"
	"github.com/Gavel-Project/gavel-go/internal/channels"
	"github.com/Gavel-Project/gavel-go/internal/codec"
	"github.com/Gavel-Project/gavel-go/internal/decode"
	"github.com/Gavel-Project/gavel-go/internal/engine"
	"github.com/Gavel-Project/gavel-go/internal/playback"
	"github.com/Gavel-Project/gavel-go/internal/protocol"
	"github.com/Gavel-Project/gavel-go/internal/remote"
)

// Device output format shared by every channel.
const (
	deviceRate     = 48000
	deviceChannels = 2
)

// Config holds player configuration
type Config struct {
	AssetBase     string
	MusicChannels int
	BlipChannels  int
	ReadyDelay    time.Duration
}

// App owns the audio layer and routes cues to the channel board.
type App struct {
	config   Config
	eng      *engine.Context
	registry *codec.Registry
	probe    *codec.Probe
	fetcher  *assets.Fetcher
	decoder  *decode.Decoder
	board    *channels.Board
	syncer   *remote.Synchronizer
	ctx      context.Context
	cancel   context.CancelFunc
}

// New opens the platform audio device and builds the app over it.
func New(config Config) (*App, error) {
	driver, err := engine.NewOtoDriver(deviceRate, deviceChannels)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	return NewWithDriver(config, driver), nil
}

// NewWithDriver builds the app over an existing driver. Tests substitute
// a fake device through this.
func NewWithDriver(config Config, driver engine.Driver) *App {
	ctx, cancel := context.WithCancel(context.Background())

	eng := engine.NewContext(driver)
	registry := codec.NewRegistry()
	probe := codec.NewProbe(registry)
	fetcher := assets.NewFetcher(config.AssetBase)
	decoder := decode.New(fetcher)

	board := channels.NewBoard(channels.Config{
		MusicChannels: config.MusicChannels,
		BlipChannels:  config.BlipChannels,
	}, func(string) playback.Element {
		return playback.Wrap(
			playback.NewNative(eng, registry, fetcher),
			playback.NewSoftware(eng, decoder),
			probe,
		)
	})

	var syncOpts []remote.Option
	if config.ReadyDelay > 0 {
		syncOpts = append(syncOpts, remote.WithReadyDelay(config.ReadyDelay))
	}

	return &App{
		config:   config,
		eng:      eng,
		registry: registry,
		probe:    probe,
		fetcher:  fetcher,
		decoder:  decoder,
		board:    board,
		syncer:   remote.New(board, syncOpts...),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Board exposes the channel pools for the UI and direct callers.
func (a *App) Board() *channels.Board {
	return a.board
}

// Formats lists the native decoder format names.
func (a *App) Formats() []string {
	return a.registry.Formats()
}

// SupportsNativeOpus reports whether opus plays without the software
// decoder. The first call decides and logs the fallback if needed.
func (a *App) SupportsNativeOpus() bool {
	return a.probe.SupportsOpus()
}

// Dispatch routes one cue to its channel pool. Playback starts
// asynchronously; Dispatch never blocks on loading.
func (a *App) Dispatch(cue *protocol.Cue) {
	switch cue.Command {
	case protocol.CmdMusic:
		if cue.Offset > 0 {
			// Joining a track already running elsewhere; let the
			// synchronizer wait out readiness on its own goroutine.
			// Invalid channel indexes fall back to channel 0.
			channel := cue.Channel
			if channel < 0 {
				channel = 0
			}
			name := fmt.Sprintf("music%d", channel)
			go a.syncer.Apply(a.ctx, name, cue.Source, cue.Offset, cue.LoopOrDefault())
			return
		}
		a.board.PlayMusic(cue.Channel, cue.Source, cue.LoopOrDefault())

	case protocol.CmdBlip:
		a.board.PlayBlip(cue.Source)

	case protocol.CmdSFX:
		a.board.PlaySFX(cue.Source)

	case protocol.CmdShout:
		a.board.PlayShout(cue.Source)

	case protocol.CmdTestimony:
		a.board.PlayTestimony(cue.Source)

	case protocol.CmdVolume:
		if el := a.board.Channel(cue.Target); el != nil {
			el.SetVolume(cue.Value)
		}

	case protocol.CmdStop:
		if cue.Target == "" {
			a.board.StopAll()
			return
		}
		if el := a.board.Channel(cue.Target); el != nil {
			el.Pause()
		}
	}
}

// RunCues reads newline-delimited JSON cues until the reader drains or
// the app stops. Blank lines and # comments are skipped; bad cues are
// logged and dropped.
func (a *App) RunCues(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case <-a.ctx.Done():
			return a.ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cue, err := protocol.Parse([]byte(line))
		if err != nil {
			log.Printf("Ignoring cue: %v", err)
			continue
		}
		a.Dispatch(cue)
	}
	return scanner.Err()
}

// PlayTone plays a synthesized sine through the device, for checking
// the output path without any assets.
func (a *App) PlayTone(frequency, seconds float64) error {
	if err := a.eng.Resume(); err != nil {
		return err
	}

	buf := audio.Tone(frequency, seconds, a.eng.SampleRate(), deviceChannels)
	done := make(chan struct{})
	node := a.eng.NewNode(buf, engine.NodeOptions{
		Gain:       0.8,
		OnComplete: func() { close(done) },
	})
	node.Start()

	select {
	case <-done:
		return nil
	case <-a.ctx.Done():
		node.Stop()
		return a.ctx.Err()
	}
}

// Stop shuts the audio layer down.
func (a *App) Stop() {
	a.cancel()
	a.board.Close()

	if err := a.eng.Suspend(); err != nil {
		log.Printf("Error suspending audio device: %v", err)
	}
}
