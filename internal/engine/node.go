// ABOUTME: Streaming playback node feeding one PCM buffer to the device
// ABOUTME: Applies gain, looping, offset start, and linear resampling on the fly
package engine

import (
	"encoding/binary"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gavel-Project/gavel-go/internal/audio"
)

// completionPoll is how often a drained node checks whether the device
// has finished flushing its buffered audio.
const completionPoll = 10 * time.Millisecond

// NodeOptions configure a playback node at creation time.
type NodeOptions struct {
	// Offset is the position in the source to start from, in seconds.
	Offset float64
	// Loop restarts the source from the beginning when it runs out.
	Loop bool
	// Gain scales every sample; 0 silences, 1 passes through.
	Gain float64
	// OnComplete fires exactly once when a non-looping node has played
	// to the end. It is never called after Stop.
	OnComplete func()
}

// Node streams one decoded buffer to the device. The device pulls
// little-endian 16-bit frames through Read; the rest is control surface
// safe to use from any goroutine.
type Node struct {
	buf    *audio.PCMBuffer
	step   float64 // source frames advanced per device frame
	outCh  int
	pos    float64 // fractional read position, device goroutine only
	gain   atomic.Uint64
	loop   atomic.Bool
	onDone func()

	stopped atomic.Bool
	eofOnce sync.Once
	eof     chan struct{}
	stop    chan struct{}

	player Player
}

func newNode(buf *audio.PCMBuffer, deviceRate, deviceChannels int, opts NodeOptions) *Node {
	n := &Node{
		buf:    buf,
		step:   float64(buf.SampleRate) / float64(deviceRate),
		outCh:  deviceChannels,
		pos:    opts.Offset * float64(buf.SampleRate),
		eof:    make(chan struct{}),
		stop:   make(chan struct{}),
		onDone: opts.OnComplete,
	}
	if n.pos < 0 {
		n.pos = 0
	}
	n.SetGain(opts.Gain)
	n.loop.Store(opts.Loop)
	return n
}

// Start begins device output and watches for natural completion.
func (n *Node) Start() {
	n.player.Play()
	go n.watchCompletion()
}

// Pause halts device output, keeping the read position.
func (n *Node) Pause() {
	n.player.Pause()
}

// Resume continues device output after a pause.
func (n *Node) Resume() {
	n.player.Play()
}

// Stop tears the node down without firing the completion callback.
func (n *Node) Stop() {
	if n.stopped.CompareAndSwap(false, true) {
		close(n.stop)
		n.player.Close()
	}
}

// SetGain updates the output level, clamped to [0, 1].
func (n *Node) SetGain(gain float64) {
	if gain < 0 {
		gain = 0
	}
	if gain > 1 {
		gain = 1
	}
	n.gain.Store(math.Float64bits(gain))
}

// SetLoop toggles wrap-around at the end of the source.
func (n *Node) SetLoop(loop bool) {
	n.loop.Store(loop)
}

// Read converts source samples to interleaved s16le device frames,
// resampling by linear interpolation when the rates differ.
func (n *Node) Read(p []byte) (int, error) {
	if n.stopped.Load() {
		return 0, io.EOF
	}
	frameBytes := n.outCh * 2
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}

	srcFrames := n.buf.Frames()
	srcChannels := n.buf.Channels()
	if srcFrames == 0 || srcChannels == 0 {
		n.signalEOF()
		return 0, io.EOF
	}
	gain := float32(math.Float64frombits(n.gain.Load()))

	written := 0
	for f := 0; f < frames; f++ {
		if int(n.pos) >= srcFrames {
			if n.loop.Load() {
				n.pos = math.Mod(n.pos, float64(srcFrames))
			} else {
				n.signalEOF()
				return written, io.EOF
			}
		}
		i0 := int(n.pos)
		frac := float32(n.pos - float64(i0))
		i1 := i0 + 1
		if i1 >= srcFrames {
			if n.loop.Load() {
				i1 = 0
			} else {
				i1 = i0
			}
		}
		for oc := 0; oc < n.outCh; oc++ {
			ch := n.buf.Data[oc%srcChannels]
			s := ch[i0] + (ch[i1]-ch[i0])*frac
			v := audio.SampleToInt16(s * gain)
			binary.LittleEndian.PutUint16(p[written:], uint16(v))
			written += 2
		}
		n.pos += n.step
	}
	return written, nil
}

func (n *Node) signalEOF() {
	n.eofOnce.Do(func() { close(n.eof) })
}

// watchCompletion waits for the reader to drain, then for the device to
// finish flushing, and fires the completion callback exactly once.
func (n *Node) watchCompletion() {
	select {
	case <-n.eof:
	case <-n.stop:
		return
	}
	for n.player.IsPlaying() {
		select {
		case <-n.stop:
			return
		case <-time.After(completionPoll):
		}
	}
	if n.stopped.CompareAndSwap(false, true) {
		close(n.stop)
		n.player.Close()
		if n.onDone != nil {
			n.onDone()
		}
	}
}
