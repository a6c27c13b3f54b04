// ABOUTME: RIFF/WAVE decoder over an endian-aware buffer reader
// ABOUTME: Handles 8/16/24-bit integer and 32-bit float PCM
package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/Gavel-Project/gavel-go/internal/audio"
	"github.com/vazrupe/endibuf"
)

// WAVDecoder decodes RIFF/WAVE PCM files.
type WAVDecoder struct{}

// NewWAV creates a WAV decoder.
func NewWAV() *WAVDecoder { return &WAVDecoder{} }

func (d *WAVDecoder) FormatName() string { return "wav" }

func (d *WAVDecoder) CanDecode(filename string) bool {
	return hasExt(filename, ".wav") || hasExt(filename, ".wave")
}

func (d *WAVDecoder) MIMETypes() []string {
	return []string{"audio/wav", "audio/x-wav", "audio/wave"}
}

// Decode parses the RIFF structure and converts the data chunk to PCM.
func (d *WAVDecoder) Decode(src io.Reader) (*audio.PCMBuffer, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("reading wav stream: %w", err)
	}

	r := endibuf.NewReader(bytes.NewReader(raw))
	r.Endian = binary.LittleEndian

	magic, err := r.ReadBytes(4)
	if err != nil || string(magic) != "RIFF" {
		return nil, fmt.Errorf("%w: missing RIFF header", ErrInvalidData)
	}
	if _, err := r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("%w: truncated RIFF size", ErrInvalidData)
	}
	form, err := r.ReadBytes(4)
	if err != nil || string(form) != "WAVE" {
		return nil, fmt.Errorf("%w: not a WAVE form", ErrInvalidData)
	}

	var (
		fmtType  uint16
		channels uint16
		rate     uint32
		bits     uint16
		haveFmt  bool
		data     []byte
	)

	for data == nil {
		id, err := r.ReadBytes(4)
		if err != nil {
			break
		}
		size, err := r.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("%w: truncated chunk header", ErrInvalidData)
		}

		switch string(id) {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%w: fmt chunk too small", ErrInvalidData)
			}
			fmtType, _ = r.ReadUint16()
			channels, _ = r.ReadUint16()
			rate, _ = r.ReadUint32()
			r.ReadUint32() // byte rate
			r.ReadUint16() // block align
			bits, err = r.ReadUint16()
			if err != nil {
				return nil, fmt.Errorf("%w: truncated fmt chunk", ErrInvalidData)
			}
			if size > 16 {
				if _, err := r.ReadBytes(int(size - 16)); err != nil {
					return nil, fmt.Errorf("%w: truncated fmt extension", ErrInvalidData)
				}
			}
			haveFmt = true
		case "data":
			data, err = r.ReadBytes(int(size))
			if err != nil {
				return nil, fmt.Errorf("%w: truncated data chunk", ErrInvalidData)
			}
		default:
			// Unknown chunks are padded to even sizes
			skip := int(size) + int(size&1)
			if _, err := r.ReadBytes(skip); err != nil {
				return nil, fmt.Errorf("%w: truncated %q chunk", ErrInvalidData, string(id))
			}
		}
	}

	if !haveFmt || data == nil {
		return nil, fmt.Errorf("%w: missing fmt or data chunk", ErrInvalidData)
	}
	if channels == 0 || rate == 0 {
		return nil, fmt.Errorf("%w: fmt reports %d channels at %d Hz", ErrInvalidData, channels, rate)
	}

	return convertWAVData(data, fmtType, int(channels), int(rate), int(bits))
}

func convertWAVData(data []byte, fmtType uint16, channels, rate, bits int) (*audio.PCMBuffer, error) {
	bytesPerSample := bits / 8
	if bytesPerSample == 0 {
		return nil, fmt.Errorf("%w: zero bit depth", ErrInvalidData)
	}
	frames := len(data) / (bytesPerSample * channels)
	if frames == 0 {
		return nil, fmt.Errorf("%w: empty data chunk", ErrInvalidData)
	}

	buf := audio.NewPCMBuffer(channels, frames, rate)

	switch {
	case fmtType == 1 && bits == 16:
		for i := 0; i < frames; i++ {
			for ch := 0; ch < channels; ch++ {
				off := (i*channels + ch) * 2
				s := int16(binary.LittleEndian.Uint16(data[off:]))
				buf.Data[ch][i] = audio.SampleFromInt16(s)
			}
		}
	case fmtType == 1 && bits == 24:
		for i := 0; i < frames; i++ {
			for ch := 0; ch < channels; ch++ {
				off := (i*channels + ch) * 3
				buf.Data[ch][i] = audio.SampleFrom24Bit(data[off], data[off+1], data[off+2])
			}
		}
	case fmtType == 1 && bits == 8:
		// 8-bit wav stores unsigned samples
		for i := 0; i < frames; i++ {
			for ch := 0; ch < channels; ch++ {
				s := data[i*channels+ch]
				buf.Data[ch][i] = (float32(s) - 128) / 128
			}
		}
	case fmtType == 3 && bits == 32:
		for i := 0; i < frames; i++ {
			for ch := 0; ch < channels; ch++ {
				off := (i*channels + ch) * 4
				buf.Data[ch][i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			}
		}
	default:
		return nil, fmt.Errorf("%w: wav format type %d at %d-bit", ErrUnsupportedFormat, fmtType, bits)
	}

	return buf, nil
}
