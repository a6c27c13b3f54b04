// ABOUTME: Bounded FIFO cache for decoded PCM buffers
// ABOUTME: Evicts the oldest-inserted entry regardless of access recency
package decode

import (
	"sync"

	"github.com/Gavel-Project/gavel-go/internal/audio"
)

// cacheCapacity bounds the decode cache. Deliberately not configurable.
const cacheCapacity = 100

// fifoCache maps source URIs to immutable decoded buffers. Eviction is
// strictly insertion-ordered; a lookup does not refresh an entry.
type fifoCache struct {
	mu      sync.Mutex
	entries map[string]*audio.PCMBuffer
	order   []string
}

func newFIFOCache() *fifoCache {
	return &fifoCache{entries: make(map[string]*audio.PCMBuffer)}
}

func (c *fifoCache) get(uri string) (*audio.PCMBuffer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, ok := c.entries[uri]
	return buf, ok
}

func (c *fifoCache) put(uri string, buf *audio.PCMBuffer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[uri]; ok {
		return
	}
	if len(c.order) >= cacheCapacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[uri] = buf
	c.order = append(c.order, uri)
}

func (c *fifoCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
