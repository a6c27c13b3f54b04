// ABOUTME: Sine tone synthesis for smoke tests and the demo player
// ABOUTME: Produces a PCMBuffer without going through any decoder
package audio

import "math"

// Tone synthesizes a sine wave at 50% amplitude.
func Tone(frequency, seconds float64, sampleRate, channels int) *PCMBuffer {
	frames := int(seconds * float64(sampleRate))
	buf := NewPCMBuffer(channels, frames, sampleRate)
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(sampleRate)
		sample := float32(math.Sin(2*math.Pi*frequency*t) * 0.5)
		for ch := 0; ch < channels; ch++ {
			buf.Data[ch][i] = sample
		}
	}
	return buf
}
