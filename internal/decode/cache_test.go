// ABOUTME: Tests for the FIFO decode cache
// ABOUTME: Covers insertion-order eviction, duplicate inserts, and misses
package decode

import (
	"fmt"
	"testing"

	"github.com/Gavel-Project/gavel-go/internal/audio"
)

func TestCacheFIFOEviction(t *testing.T) {
	c := newFIFOCache()
	buf := audio.NewPCMBuffer(2, 1, 48000)

	for i := 0; i < cacheCapacity; i++ {
		c.put(fmt.Sprintf("evidence/%d.opus", i), buf)
	}
	if c.size() != cacheCapacity {
		t.Fatalf("size = %d, want %d", c.size(), cacheCapacity)
	}

	// A lookup must not refresh the oldest entry; this is FIFO, not LRU.
	if _, ok := c.get("evidence/0.opus"); !ok {
		t.Fatalf("entry 0 missing before eviction")
	}

	c.put("evidence/100.opus", buf)

	if c.size() != cacheCapacity {
		t.Errorf("size after eviction = %d, want %d", c.size(), cacheCapacity)
	}
	if _, ok := c.get("evidence/0.opus"); ok {
		t.Errorf("oldest entry survived eviction")
	}
	for i := 1; i <= cacheCapacity; i++ {
		uri := fmt.Sprintf("evidence/%d.opus", i)
		if _, ok := c.get(uri); !ok {
			t.Errorf("entry %s evicted, want retained", uri)
		}
	}
}

func TestCachePutDuplicate(t *testing.T) {
	c := newFIFOCache()
	first := audio.NewPCMBuffer(2, 1, 48000)
	second := audio.NewPCMBuffer(2, 2, 48000)

	c.put("gavel.opus", first)
	c.put("gavel.opus", second)

	if c.size() != 1 {
		t.Fatalf("size = %d, want 1", c.size())
	}
	if len(c.order) != 1 {
		t.Fatalf("order length = %d, want 1", len(c.order))
	}
	got, _ := c.get("gavel.opus")
	if got != first {
		t.Errorf("duplicate put replaced the original buffer")
	}
}

func TestCacheGetMiss(t *testing.T) {
	c := newFIFOCache()
	if _, ok := c.get("absent.opus"); ok {
		t.Errorf("get on empty cache reported a hit")
	}
}
