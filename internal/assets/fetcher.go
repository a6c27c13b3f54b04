// ABOUTME: Asset byte fetcher for track and effect sources
// ABOUTME: Resolves names against a base and reads http(s) URLs or local files
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// FetchError reports a failure to obtain source bytes. StatusCode is set
// only for HTTP responses outside the success range.
type FetchError struct {
	URI        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URI, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URI, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher reads raw asset bytes from http(s) URLs or local paths.
// Construct one in main and share it across the audio layer.
type Fetcher struct {
	base   string
	client *http.Client
}

// NewFetcher creates a fetcher. base may be empty, a directory path, or an
// http(s) URL prefix; relative sources are resolved against it.
func NewFetcher(base string) *Fetcher {
	return &Fetcher{
		base:   base,
		client: &http.Client{},
	}
}

// Resolve expands a source against the configured base. Absolute http(s)
// URLs and absolute paths pass through unchanged.
func (f *Fetcher) Resolve(source string) string {
	if isHTTP(source) || f.base == "" || strings.HasPrefix(source, "/") {
		return source
	}
	return strings.TrimRight(f.base, "/") + "/" + source
}

// Fetch reads the full contents of the source.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	resolved := f.Resolve(source)

	if isHTTP(resolved) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
		if err != nil {
			return nil, &FetchError{URI: resolved, Err: err}
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, &FetchError{URI: resolved, Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &FetchError{URI: resolved, StatusCode: resp.StatusCode}
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &FetchError{URI: resolved, Err: err}
		}
		return data, nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, &FetchError{URI: resolved, Err: err}
	}
	return data, nil
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
