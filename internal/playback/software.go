// ABOUTME: Software element for opus sources the engine cannot play natively
// ABOUTME: Loads go through the caching software decode pipeline
package playback

import (
	"github.com/Gavel-Project/gavel-go/internal/decode"
	"github.com/Gavel-Project/gavel-go/internal/engine"
)

// Software is the element backed by the software opus decoder.
type Software struct {
	*element
}

func NewSoftware(eng *engine.Context, dec *decode.Decoder, opts ...Option) *Software {
	e := newElement(eng, KindSoftware, opts...)
	e.load = dec.Decode
	return &Software{element: e}
}
