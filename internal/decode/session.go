// ABOUTME: Shared decode session with lazy one-time initialization
// ABOUTME: Serializes decodes and recycles the scratch read buffer between them
package decode

import (
	"sync"

	opus "gopkg.in/hraban/opus.v2"
)

// session is the single decode context shared by all callers. It is
// initialized on first use and must be acquired for the duration of a
// decode; release returns it to a clean state for the next caller.
type session struct {
	mu      sync.Mutex
	once    sync.Once
	initErr error
	scratch []float32
	initFn  func() error
}

func newSession() *session {
	return &session{initFn: probeLibopus}
}

// probeLibopus constructs and discards a decoder so that a missing or
// broken libopus surfaces once, at first use, instead of per decode.
func probeLibopus() error {
	_, err := opus.NewDecoder(opusOutputRate, 2)
	return err
}

func (s *session) acquire() error {
	s.mu.Lock()
	s.once.Do(func() {
		s.initErr = s.initFn()
	})
	if s.initErr != nil {
		s.mu.Unlock()
		return s.initErr
	}
	return nil
}

func (s *session) release() {
	s.scratch = s.scratch[:0]
	s.mu.Unlock()
}

// buffer returns a scratch slice of at least n samples, reusing the
// previous allocation when it is large enough.
func (s *session) buffer(n int) []float32 {
	if cap(s.scratch) < n {
		s.scratch = make([]float32, n)
	}
	return s.scratch[:n]
}
