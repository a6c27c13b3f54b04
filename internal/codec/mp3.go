// ABOUTME: MP3 decoder built on go-mp3
// ABOUTME: Decodes a whole stream into a PCM buffer
package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Gavel-Project/gavel-go/internal/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3Decoder decodes MPEG audio streams.
type MP3Decoder struct{}

// NewMP3 creates an MP3 decoder.
func NewMP3() *MP3Decoder { return &MP3Decoder{} }

func (d *MP3Decoder) FormatName() string { return "mp3" }

func (d *MP3Decoder) CanDecode(filename string) bool {
	return hasExt(filename, ".mp3")
}

func (d *MP3Decoder) MIMETypes() []string {
	return []string{"audio/mpeg", "audio/mp3"}
}

// Decode reads the whole stream. The decoder always outputs 16-bit stereo.
func (d *MP3Decoder) Decode(r io.Reader) (*audio.PCMBuffer, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode: %w", err)
	}

	const channels = 2
	frames := len(pcm) / (2 * channels)
	if frames == 0 {
		return nil, fmt.Errorf("%w: no frames decoded", ErrInvalidData)
	}

	buf := audio.NewPCMBuffer(channels, frames, dec.SampleRate())
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			off := (i*channels + ch) * 2
			s := int16(binary.LittleEndian.Uint16(pcm[off:]))
			buf.Data[ch][i] = audio.SampleFromInt16(s)
		}
	}
	return buf, nil
}
