// ABOUTME: Native element playing the formats the engine decodes itself
// ABOUTME: Loads resolve through the asset fetcher and the codec registry
package playback

import (
	"bytes"
	"context"

	"github.com/Gavel-Project/gavel-go/internal/assets"
	"github.com/Gavel-Project/gavel-go/internal/audio"
	"github.com/Gavel-Project/gavel-go/internal/codec"
	"github.com/Gavel-Project/gavel-go/internal/engine"
)

// Native is the element for natively decodable sources.
type Native struct {
	*element
}

func NewNative(eng *engine.Context, reg *codec.Registry, fetcher *assets.Fetcher, opts ...Option) *Native {
	e := newElement(eng, KindNative, opts...)
	e.load = func(ctx context.Context, source string) (*audio.PCMBuffer, error) {
		// Reject unsupported extensions before touching the network.
		dec, err := reg.ForFile(source)
		if err != nil {
			return nil, err
		}
		data, err := fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		return dec.Decode(bytes.NewReader(data))
	}
	return &Native{element: e}
}
