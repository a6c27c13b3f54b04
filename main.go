// ABOUTME: Entry point for the Gavel courtroom audio player
// ABOUTME: Parses CLI flags, wires the audio layer, and feeds it cues
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Gavel-Project/gavel-go/internal/app"
	"github.com/Gavel-Project/gavel-go/internal/ui"
	"github.com/Gavel-Project/gavel-go/internal/version"
)

var (
	assetBase  = flag.String("assets", "", "Base directory or URL for audio sources")
	musicCount = flag.Int("music-channels", 2, "Number of indexed music channels")
	blipCount  = flag.Int("blip-channels", 6, "Number of rotating blip channels")
	readyMs    = flag.Int("ready-ms", 0, "Software decode readiness delay in milliseconds (0 = built-in default)")
	cueFile    = flag.String("cues", "", "Cue script path (default: read cues from stdin)")
	logFile    = flag.String("log-file", "gavel-player.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	streamLogs = flag.Bool("stream-logs", false, "Alias for -no-tui")
	toneSecs   = flag.Float64("tone", 0, "Play a test tone for this many seconds and exit")
	toneFreq   = flag.Float64("tone-freq", 440, "Test tone frequency in Hz")
)

func main() {
	flag.Parse()

	// Determine if we should use TUI or streaming logs
	useTUI := !(*noTUI || *streamLogs)

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		multiWriter := io.MultiWriter(os.Stdout, f)
		log.SetOutput(multiWriter)
	}

	log.Printf("Starting %s v%s", version.Product, version.Version)

	player, err := app.New(app.Config{
		AssetBase:     *assetBase,
		MusicChannels: *musicCount,
		BlipChannels:  *blipCount,
		ReadyDelay:    time.Duration(*readyMs) * time.Millisecond,
	})
	if err != nil {
		log.Fatalf("Failed to open audio output: %v", err)
	}

	log.Printf("Native formats: %v", player.Formats())
	if player.SupportsNativeOpus() {
		log.Printf("Native opus support detected")
	}

	// Tone mode: verify the output path and exit
	if *toneSecs > 0 {
		log.Printf("Playing %gHz test tone for %gs", *toneFreq, *toneSecs)
		if err := player.PlayTone(*toneFreq, *toneSecs); err != nil {
			log.Printf("Tone error: %v", err)
		}
		player.Stop()
		return
	}

	// TUI setup
	var tuiProg *tea.Program
	tuiDone := make(chan struct{})
	if useTUI {
		tuiProg, err = ui.Run(player.Board())
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		go func() {
			defer close(tuiDone)
			if _, err := tuiProg.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
		}()
	}

	// Cue source: a script file, or stdin when the TUI is off. The TUI
	// owns stdin for key input.
	cueDone := make(chan struct{})
	switch {
	case *cueFile != "":
		go runScript(player, *cueFile, cueDone)
	case !useTUI:
		go runStdin(player, cueDone)
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if useTUI {
		select {
		case <-sigChan:
			log.Printf("Shutdown signal received")
			// Let the TUI unwind so the terminal is restored before exit.
			tuiProg.Quit()
			<-tuiDone
		case <-tuiDone:
			log.Printf("Received quit from TUI")
		}
	} else {
		select {
		case <-sigChan:
			log.Printf("Shutdown signal received")
		case <-cueDone:
			log.Printf("Cue stream finished")
		}
	}

	player.Stop()
	log.Printf("Player stopped")
}

// runScript feeds cues from a script file
func runScript(player *app.App, path string, done chan struct{}) {
	defer close(done)

	f, err := os.Open(path)
	if err != nil {
		log.Printf("Failed to open cue script: %v", err)
		return
	}
	defer f.Close()

	log.Printf("Running cue script: %s", path)
	if err := player.RunCues(f); err != nil {
		log.Printf("Cue script stopped: %v", err)
	}
}

// runStdin feeds cues typed or piped into stdin
func runStdin(player *app.App, done chan struct{}) {
	defer close(done)

	log.Printf("Reading cues from stdin")
	if err := player.RunCues(os.Stdin); err != nil {
		log.Printf("Cue stream stopped: %v", err)
	}
}
