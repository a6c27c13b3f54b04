// ABOUTME: Core PCM types shared across the audio layer
// ABOUTME: Defines the decoded buffer representation and sample conversions
package audio

const (
	// 16-bit PCM range constants
	MaxInt16Sample = 32767
	MinInt16Sample = -32768
)

// PCMBuffer holds decoded audio as planar float32 samples in [-1, 1].
// Data carries one slice per channel; all channels have equal length.
// Buffers are immutable once handed to a cache or a render node.
type PCMBuffer struct {
	Data       [][]float32
	SampleRate int
}

// NewPCMBuffer allocates a zeroed buffer with the given shape.
func NewPCMBuffer(channels, frames, sampleRate int) *PCMBuffer {
	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = make([]float32, frames)
	}
	return &PCMBuffer{Data: data, SampleRate: sampleRate}
}

// FromInterleaved builds a planar buffer from interleaved samples.
func FromInterleaved(samples []float32, channels, sampleRate int) *PCMBuffer {
	if channels < 1 {
		channels = 1
	}
	frames := len(samples) / channels
	buf := NewPCMBuffer(channels, frames, sampleRate)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			buf.Data[ch][i] = samples[i*channels+ch]
		}
	}
	return buf
}

// Channels returns the channel count.
func (b *PCMBuffer) Channels() int {
	return len(b.Data)
}

// Frames returns the per-channel sample count.
func (b *PCMBuffer) Frames() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Duration returns the buffer length in seconds.
func (b *PCMBuffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// SampleToInt16 converts a float32 sample to 16-bit PCM with clamping.
// Scaling by 32768 keeps the int16 round-trip exact.
func SampleToInt16(sample float32) int16 {
	scaled := sample * 32768.0
	if scaled > MaxInt16Sample {
		return MaxInt16Sample
	}
	if scaled < MinInt16Sample {
		return MinInt16Sample
	}
	return int16(scaled)
}

// SampleFromInt16 converts a 16-bit PCM sample to float32 in [-1, 1).
func SampleFromInt16(sample int16) float32 {
	return float32(sample) / 32768.0
}

// SampleFrom24Bit converts packed little-endian 24-bit PCM to float32.
func SampleFrom24Bit(b0, b1, b2 byte) float32 {
	val := int32(b0) | int32(b1)<<8 | int32(b2)<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return float32(val) / 8388608.0
}
