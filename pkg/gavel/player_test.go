// ABOUTME: Tests for the public Player API
// ABOUTME: Exercises board control, status, and event callbacks over a fake device
package gavel

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Gavel-Project/gavel-go/internal/app"
	"github.com/Gavel-Project/gavel-go/internal/assets"
	"github.com/Gavel-Project/gavel-go/internal/engine"
)

type fakePlayer struct {
	mu      sync.Mutex
	src     io.Reader
	playing bool
	closed  bool
}

func (p *fakePlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.playing = true
	}
}

func (p *fakePlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

func (p *fakePlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *fakePlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.playing = false
	return nil
}

type fakeDriver struct {
	mu       sync.Mutex
	rate     int
	channels int
	suspends int
}

func (d *fakeDriver) NewPlayer(r io.Reader) engine.Player {
	return &fakePlayer{src: r}
}

func (d *fakeDriver) SampleRate() int   { return d.rate }
func (d *fakeDriver) ChannelCount() int { return d.channels }

func (d *fakeDriver) Suspend() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.suspends++
	return nil
}

func (d *fakeDriver) Resume() error { return nil }

func (d *fakeDriver) suspendCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.suspends
}

func writeWAVFixture(t *testing.T, path string, seconds float64) {
	t.Helper()

	const rate = 8000
	frames := int(seconds * rate)
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+frames*2))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(rate))
	binary.Write(&buf, binary.LittleEndian, uint32(rate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(frames*2))
	for i := 0; i < frames; i++ {
		binary.Write(&buf, binary.LittleEndian, int16(i%100))
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func newTestPlayer(t *testing.T, config PlayerConfig) (*Player, *fakeDriver, string) {
	t.Helper()

	dir := t.TempDir()
	config.AssetBase = dir
	if config.ReadyDelay == 0 {
		config.ReadyDelay = time.Millisecond
	}
	applyDefaults(&config)

	driver := &fakeDriver{rate: 48000, channels: 2}
	a := app.NewWithDriver(app.Config{
		AssetBase:     config.AssetBase,
		MusicChannels: config.MusicChannels,
		BlipChannels:  config.BlipChannels,
		ReadyDelay:    config.ReadyDelay,
	}, driver)

	p := newPlayer(config, a)
	t.Cleanup(func() { _ = p.Close() })
	return p, driver, dir
}

func statusOf(p *Player, channel string) (ChannelStatus, bool) {
	for _, st := range p.Status() {
		if st.Channel == channel {
			return st, true
		}
	}
	return ChannelStatus{}, false
}

func waitState(t *testing.T, p *Player, channel, want string) ChannelStatus {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if st, ok := statusOf(p, channel); ok && st.State == want {
			return st
		}
		time.Sleep(time.Millisecond)
	}
	st, _ := statusOf(p, channel)
	t.Fatalf("channel %s never reached %s, last state %s", channel, want, st.State)
	return ChannelStatus{}
}

func TestPlayerConfigDefaults(t *testing.T) {
	config := PlayerConfig{}
	applyDefaults(&config)

	if config.MusicChannels != 2 {
		t.Errorf("expected 2 music channels, got %d", config.MusicChannels)
	}
	if config.BlipChannels != 6 {
		t.Errorf("expected 6 blip channels, got %d", config.BlipChannels)
	}
}

func TestChannelsInBoardOrder(t *testing.T) {
	p, _, _ := newTestPlayer(t, PlayerConfig{MusicChannels: 1, BlipChannels: 2})

	want := []string{"music0", "blip0", "blip1", "sfx", "testimony", "shout"}
	got := p.Channels()
	if len(got) != len(want) {
		t.Fatalf("expected %d channels, got %v", len(want), got)
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("channel %d = %s, want %s", i, got[i], name)
		}
	}
}

func TestPlaySFXUpdatesStatus(t *testing.T) {
	p, _, dir := newTestPlayer(t, PlayerConfig{})
	writeWAVFixture(t, filepath.Join(dir, "objection.wav"), 0.5)

	p.PlaySFX("objection.wav")

	st := waitState(t, p, "sfx", "playing")
	if st.Source != "objection.wav" {
		t.Errorf("expected source objection.wav, got %q", st.Source)
	}
	if st.Length != 0.5 {
		t.Errorf("expected length 0.5, got %v", st.Length)
	}
}

func TestPlayMusicLoops(t *testing.T) {
	p, _, dir := newTestPlayer(t, PlayerConfig{})
	writeWAVFixture(t, filepath.Join(dir, "pursuit.wav"), 0.5)

	p.PlayMusic(0, "pursuit.wav")

	waitState(t, p, "music0", "playing")
	if !p.app.Board().Music(0).Loop() {
		t.Error("expected music channel to loop")
	}

	// Out-of-range channels are ignored.
	p.PlayMusic(99, "pursuit.wav")
}

func TestPlayMusicFromSeeksNearOffset(t *testing.T) {
	p, _, dir := newTestPlayer(t, PlayerConfig{})
	writeWAVFixture(t, filepath.Join(dir, "trial.wav"), 10)

	p.PlayMusicFrom(0, "trial.wav", 5)

	st := waitState(t, p, "music0", "playing")
	if st.Time < 5 || st.Time > 6 {
		t.Errorf("expected position near 5s, got %v", st.Time)
	}
}

func TestBlipRotation(t *testing.T) {
	p, _, dir := newTestPlayer(t, PlayerConfig{BlipChannels: 2})
	writeWAVFixture(t, filepath.Join(dir, "blip.wav"), 0.1)

	p.PlayBlip("blip.wav")
	waitState(t, p, "blip0", "playing")
	p.PlayBlip("blip.wav")
	waitState(t, p, "blip1", "playing")
}

func TestSetVolume(t *testing.T) {
	p, _, _ := newTestPlayer(t, PlayerConfig{})

	if err := p.SetVolume("testimony", 0.3); err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	if st, _ := statusOf(p, "testimony"); st.Volume != 0.3 {
		t.Errorf("expected volume 0.3, got %v", st.Volume)
	}

	// Values clamp to [0, 1].
	if err := p.SetVolume("testimony", 1.7); err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	if st, _ := statusOf(p, "testimony"); st.Volume != 1 {
		t.Errorf("expected volume clamped to 1, got %v", st.Volume)
	}

	if err := p.SetVolume("judge", 0.5); err == nil {
		t.Error("expected error for unknown channel")
	}
}

func TestStopChannelAndStopAll(t *testing.T) {
	p, _, dir := newTestPlayer(t, PlayerConfig{})
	writeWAVFixture(t, filepath.Join(dir, "objection.wav"), 0.5)
	writeWAVFixture(t, filepath.Join(dir, "pursuit.wav"), 0.5)

	p.PlaySFX("objection.wav")
	p.PlayMusic(0, "pursuit.wav")
	waitState(t, p, "sfx", "playing")
	waitState(t, p, "music0", "playing")

	if err := p.StopChannel("sfx"); err != nil {
		t.Fatalf("StopChannel: %v", err)
	}
	waitState(t, p, "sfx", "paused")
	if st, _ := statusOf(p, "music0"); st.State != "playing" {
		t.Errorf("expected music0 still playing, got %s", st.State)
	}

	p.StopAll()
	waitState(t, p, "music0", "paused")

	if err := p.StopChannel("judge"); err == nil {
		t.Error("expected error for unknown channel")
	}
}

func TestOnEventForwarding(t *testing.T) {
	events := make(chan ChannelEvent, 32)
	p, _, dir := newTestPlayer(t, PlayerConfig{
		OnEvent: func(ev ChannelEvent) { events <- ev },
	})
	writeWAVFixture(t, filepath.Join(dir, "objection.wav"), 0.5)

	p.PlaySFX("objection.wav")

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Channel != "sfx" {
				t.Errorf("expected events from sfx, got %s", ev.Channel)
			}
			if ev.Kind == "play" {
				return
			}
		case <-deadline:
			t.Fatal("no play event before deadline")
		}
	}
}

func TestOnErrorCallback(t *testing.T) {
	errs := make(chan error, 8)
	p, _, _ := newTestPlayer(t, PlayerConfig{
		OnError: func(err error) { errs <- err },
	})

	p.PlaySFX("missing-evidence.wav")

	select {
	case err := <-errs:
		var fe *assets.FetchError
		if !errors.As(err, &fe) {
			t.Errorf("expected FetchError, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no error callback before deadline")
	}
}

func TestRunCuesDrivesBoard(t *testing.T) {
	p, _, dir := newTestPlayer(t, PlayerConfig{})
	writeWAVFixture(t, filepath.Join(dir, "objection.wav"), 0.5)

	script := strings.Join([]string{
		`{"command":"sfx","source":"objection.wav"}`,
		`{"command":"volume","target":"sfx","value":0.25}`,
	}, "\n")

	if err := p.RunCues(strings.NewReader(script)); err != nil {
		t.Fatalf("RunCues: %v", err)
	}

	waitState(t, p, "sfx", "playing")
	if st, _ := statusOf(p, "sfx"); st.Volume != 0.25 {
		t.Errorf("expected volume 0.25, got %v", st.Volume)
	}
}

func TestCloseSuspendsDevice(t *testing.T) {
	p, driver, _ := newTestPlayer(t, PlayerConfig{})

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if driver.suspendCount() == 0 {
		t.Error("expected device suspend on Close")
	}
	if len(p.offs) != 0 {
		t.Error("expected event subscriptions released")
	}
}
