// ABOUTME: Capability probe utility for the native decoder registry
// ABOUTME: Reports playable formats and the opus fallback verdict
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Gavel-Project/gavel-go/internal/codec"
	"github.com/Gavel-Project/gavel-go/internal/version"
)

var (
	mimeType = flag.String("mime", "", "Extra MIME type to check")
	filename = flag.String("file", "", "Extra filename to check")
)

func main() {
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	fmt.Println("=== Gavel Capability Probe ===")
	fmt.Printf("%s v%s (%s)\n", version.Product, version.Version, version.Manufacturer)
	fmt.Println()

	reg := codec.NewRegistry()
	probe := codec.NewProbe(reg)

	fmt.Printf("Native formats: %v\n", reg.Formats())
	fmt.Println()

	checks := []string{
		"audio/ogg; codecs=opus",
		"audio/webm; codecs=opus",
		"audio/ogg; codecs=vorbis",
		"audio/wav",
		"audio/mpeg",
		"audio/flac",
	}
	for _, mt := range checks {
		fmt.Printf("  canPlayType(%q) = %v\n", mt, reg.CanPlayType(mt))
	}
	if *mimeType != "" {
		fmt.Printf("  canPlayType(%q) = %v\n", *mimeType, reg.CanPlayType(*mimeType))
	}
	if *filename != "" {
		fmt.Printf("  canDecode(%q) = %v\n", *filename, reg.CanDecode(*filename))
	}

	fmt.Println()
	if probe.SupportsOpus() {
		fmt.Println("Opus: native playback")
	} else {
		fmt.Println("Opus: software decode fallback")
	}
}
