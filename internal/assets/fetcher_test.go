// ABOUTME: Tests for the asset fetcher
// ABOUTME: Tests base resolution, HTTP fetching, and error classification
package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		source   string
		expected string
	}{
		{"relative against url base", "http://assets.example/base", "music/trial.opus", "http://assets.example/base/music/trial.opus"},
		{"base with trailing slash", "http://assets.example/base/", "blip.wav", "http://assets.example/base/blip.wav"},
		{"relative against dir base", "/srv/assets", "sfx/objection.ogg", "/srv/assets/sfx/objection.ogg"},
		{"absolute url passthrough", "/srv/assets", "https://cdn.example/a.opus", "https://cdn.example/a.opus"},
		{"absolute path passthrough", "/srv/assets", "/tmp/custom.wav", "/tmp/custom.wav"},
		{"empty base", "", "relative.ogg", "relative.ogg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFetcher(tt.base)
			if got := f.Resolve(tt.source); got != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.source, got, tt.expected)
			}
		})
	}
}

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/music/trial.opus" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("opus-bytes"))
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL)

	data, err := f.Fetch(context.Background(), "music/trial.opus")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if string(data) != "opus-bytes" {
		t.Errorf("unexpected body: %q", data)
	}
}

func TestFetchHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL)

	_, err := f.Fetch(context.Background(), "missing.opus")
	if err == nil {
		t.Fatal("expected error")
	}

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %T", err)
	}
	if fe.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", fe.StatusCode)
	}
}

func TestFetchLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blip.wav")
	if err := os.WriteFile(path, []byte("wav-bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	f := NewFetcher(dir)

	data, err := f.Fetch(context.Background(), "blip.wav")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if string(data) != "wav-bytes" {
		t.Errorf("unexpected contents: %q", data)
	}
}

func TestFetchMissingFile(t *testing.T) {
	f := NewFetcher(t.TempDir())

	_, err := f.Fetch(context.Background(), "nope.wav")
	if err == nil {
		t.Fatal("expected error")
	}

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %T", err)
	}
	if fe.StatusCode != 0 {
		t.Errorf("expected zero status for file error, got %d", fe.StatusCode)
	}
}

func TestFetchCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(srv.URL)
	if _, err := f.Fetch(ctx, "anything.ogg"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
