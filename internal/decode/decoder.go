// ABOUTME: Software opus decoder producing PCM buffers from source URIs
// ABOUTME: Pipeline is cache lookup, session acquire, fetch, decode, cache insert
package decode

import (
	"bytes"
	"context"
	"errors"
	"io"

	"golang.org/x/sync/singleflight"
	opus "gopkg.in/hraban/opus.v2"

	"github.com/Gavel-Project/gavel-go/internal/assets"
	"github.com/Gavel-Project/gavel-go/internal/audio"
)

const (
	// opusOutputRate is fixed by the codec: every opus stream decodes
	// to 48kHz regardless of the encoder's input rate.
	opusOutputRate = 48000

	// maxOpusFrame is the largest frame the codec allows, 120ms at
	// 48kHz, and bounds the per-read scratch size.
	maxOpusFrame = 5760
)

// Decoder fetches opus sources and decodes them to PCM. All decodes share
// one lazily-initialized session, and concurrent requests for the same URI
// are coalesced into a single fetch and decode.
type Decoder struct {
	fetcher *assets.Fetcher
	cache   *fifoCache
	session *session
	flight  singleflight.Group

	decodeFn func(data []byte) (*audio.PCMBuffer, error)
}

func New(fetcher *assets.Fetcher) *Decoder {
	d := &Decoder{
		fetcher: fetcher,
		cache:   newFIFOCache(),
		session: newSession(),
	}
	d.decodeFn = d.decodeOpus
	return d
}

// Decode returns the PCM for uri, fetching and decoding on a cache miss.
// The returned buffer is shared and must not be mutated by the caller.
func (d *Decoder) Decode(ctx context.Context, uri string) (*audio.PCMBuffer, error) {
	if buf, ok := d.cache.get(uri); ok {
		return buf, nil
	}

	v, err, _ := d.flight.Do(uri, func() (interface{}, error) {
		if buf, ok := d.cache.get(uri); ok {
			return buf, nil
		}
		if err := d.session.acquire(); err != nil {
			return nil, err
		}
		defer d.session.release()

		data, err := d.fetcher.Fetch(ctx, uri)
		if err != nil {
			return nil, err
		}
		buf, err := d.decodeFn(data)
		if err != nil {
			return nil, &DecodeError{URI: uri, Err: err}
		}
		d.cache.put(uri, buf)
		return buf, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*audio.PCMBuffer), nil
}

// CacheSize reports how many decoded sources are currently retained.
func (d *Decoder) CacheSize() int {
	return d.cache.size()
}

func (d *Decoder) decodeOpus(data []byte) (*audio.PCMBuffer, error) {
	channels, err := opusHeadChannels(data)
	if err != nil {
		return nil, err
	}

	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	read := d.session.buffer(maxOpusFrame * channels)
	var samples []float32
	for {
		n, err := stream.ReadFloat32(read)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
		samples = append(samples, read[:n*channels]...)
	}
	if len(samples) == 0 {
		return nil, errors.New("no frames decoded")
	}
	return audio.FromInterleaved(samples, channels, opusOutputRate), nil
}

// opusHeadChannels reads the channel count out of the OpusHead header
// carried in the first container page.
func opusHeadChannels(data []byte) (int, error) {
	limit := len(data)
	if limit > 512 {
		limit = 512
	}
	idx := bytes.Index(data[:limit], []byte("OpusHead"))
	if idx < 0 || idx+10 > len(data) {
		return 0, errors.New("missing OpusHead header")
	}
	channels := int(data[idx+9])
	if channels < 1 {
		return 0, errors.New("invalid channel count")
	}
	return channels, nil
}
