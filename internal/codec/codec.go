// ABOUTME: Native decoder registry for the formats the engine plays itself
// ABOUTME: Dispatches by filename extension and reports MIME capability
package codec

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Gavel-Project/gavel-go/internal/audio"
)

// Common decoder errors
var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrInvalidData       = errors.New("invalid audio data")
)

// Decoder decodes one container format into a PCM buffer.
type Decoder interface {
	// Decode reads a complete encoded stream and returns decoded PCM
	Decode(r io.Reader) (*audio.PCMBuffer, error)

	// CanDecode checks if this decoder handles the given filename
	CanDecode(filename string) bool

	// FormatName returns the short name of the handled format
	FormatName() string

	// MIMETypes returns the content types this decoder covers
	MIMETypes() []string
}

// Registry holds the decoders available to the engine. Construct one in
// main, register any extras, then share it; Register is not safe to call
// concurrently with lookups.
type Registry struct {
	decoders []Decoder
}

// NewRegistry returns a registry with the built-in decoders.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(NewWAV())
	r.Register(NewMP3())
	r.Register(NewFLAC())
	r.Register(NewVorbis())
	return r
}

// Register appends a decoder to the lookup set.
func (r *Registry) Register(d Decoder) {
	r.decoders = append(r.decoders, d)
}

// ForFile returns the decoder matching the filename extension.
func (r *Registry) ForFile(filename string) (Decoder, error) {
	for _, d := range r.decoders {
		if d.CanDecode(filename) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
}

// CanDecode reports whether any registered decoder accepts the filename.
func (r *Registry) CanDecode(filename string) bool {
	for _, d := range r.decoders {
		if d.CanDecode(filename) {
			return true
		}
	}
	return false
}

// CanPlayType reports whether any decoder covers the MIME type, including
// codec parameters. Matching is case-insensitive and whitespace-tolerant.
func (r *Registry) CanPlayType(mimeType string) bool {
	want := normalizeMIME(mimeType)
	for _, d := range r.decoders {
		for _, mt := range d.MIMETypes() {
			if normalizeMIME(mt) == want {
				return true
			}
		}
	}
	return false
}

// Formats returns the format names of all registered decoders.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.decoders))
	for _, d := range r.decoders {
		names = append(names, d.FormatName())
	}
	return names
}

func normalizeMIME(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func hasExt(filename, ext string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ext)
}
