// ABOUTME: Runtime capability probe for native opus support
// ABOUTME: Memoizes the verdict and logs once when support is absent
package codec

import (
	"log"
	"sync"
)

// opusProbeTypes are the container variants checked for native opus support.
var opusProbeTypes = []string{
	"audio/ogg; codecs=opus",
	"audio/webm; codecs=opus",
}

// Probe reports whether the engine plays opus without the software decoder.
// The verdict is computed on first use and memoized for the process lifetime.
type Probe struct {
	reg       *Registry
	once      sync.Once
	supported bool
}

// NewProbe creates a probe over the given registry.
func NewProbe(reg *Registry) *Probe {
	return &Probe{reg: reg}
}

// SupportsOpus returns true if any opus container variant is playable.
func (p *Probe) SupportsOpus() bool {
	p.once.Do(func() {
		for _, mt := range opusProbeTypes {
			if p.reg.CanPlayType(mt) {
				p.supported = true
				break
			}
		}
		if !p.supported {
			log.Printf("No native opus support, falling back to software decoding")
		}
	})
	return p.supported
}
