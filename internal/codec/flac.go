// ABOUTME: FLAC decoder built on mewkiz/flac
// ABOUTME: Parses frames into a planar PCM buffer
package codec

import (
	"fmt"
	"io"

	"github.com/Gavel-Project/gavel-go/internal/audio"
	"github.com/mewkiz/flac"
)

// FLACDecoder decodes FLAC streams.
type FLACDecoder struct{}

// NewFLAC creates a FLAC decoder.
func NewFLAC() *FLACDecoder { return &FLACDecoder{} }

func (d *FLACDecoder) FormatName() string { return "flac" }

func (d *FLACDecoder) CanDecode(filename string) bool {
	return hasExt(filename, ".flac")
}

func (d *FLACDecoder) MIMETypes() []string {
	return []string{"audio/flac", "audio/x-flac"}
}

func (d *FLACDecoder) Decode(r io.Reader) (*audio.PCMBuffer, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	rate := int(info.SampleRate)
	bits := int(info.BitsPerSample)
	if channels < 1 || rate < 1 || bits < 1 {
		return nil, fmt.Errorf("%w: bad stream info", ErrInvalidData)
	}
	scale := float32(int32(1) << (bits - 1))

	data := make([][]float32, channels)
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac frame: %w", err)
		}
		for ch := 0; ch < channels && ch < len(frame.Subframes); ch++ {
			for _, s := range frame.Subframes[ch].Samples {
				data[ch] = append(data[ch], float32(s)/scale)
			}
		}
	}

	buf := &audio.PCMBuffer{Data: data, SampleRate: rate}
	if buf.Frames() == 0 {
		return nil, fmt.Errorf("%w: no frames decoded", ErrInvalidData)
	}
	return buf, nil
}
