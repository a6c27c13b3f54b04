// ABOUTME: Ogg Vorbis decoder built on jfreymuth/oggvorbis
// ABOUTME: Reads a whole stream into a PCM buffer
package codec

import (
	"fmt"
	"io"

	"github.com/Gavel-Project/gavel-go/internal/audio"
	"github.com/jfreymuth/oggvorbis"
)

// VorbisDecoder decodes ogg/vorbis streams.
type VorbisDecoder struct{}

// NewVorbis creates a vorbis decoder.
func NewVorbis() *VorbisDecoder { return &VorbisDecoder{} }

func (d *VorbisDecoder) FormatName() string { return "vorbis" }

func (d *VorbisDecoder) CanDecode(filename string) bool {
	return hasExt(filename, ".ogg") || hasExt(filename, ".oga")
}

func (d *VorbisDecoder) MIMETypes() []string {
	return []string{"audio/ogg", "application/ogg", "audio/ogg; codecs=vorbis"}
}

func (d *VorbisDecoder) Decode(r io.Reader) (*audio.PCMBuffer, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no frames decoded", ErrInvalidData)
	}
	return audio.FromInterleaved(samples, format.Channels, format.SampleRate), nil
}
