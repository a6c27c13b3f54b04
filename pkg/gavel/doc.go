// ABOUTME: High-level Gavel library API
// ABOUTME: Provides the public Player surface over the channel board
// Package gavel provides a high-level API for courtroom-style audio playback.
//
// This is the main entry point for library users, providing:
//   - Player: A board of named playback channels over one audio device
//   - Indexed music channels, rotating blip channels, and dedicated
//     sfx, testimony, and shout channels
//   - JSON cue scripts for driving the board from a stream
//
// Sources ending in .opus decode in software; everything else goes
// through the native decoder registry (wav, mp3, flac, ogg/vorbis).
//
// Example:
//
//	player, err := gavel.NewPlayer(gavel.PlayerConfig{
//	    AssetBase: "/srv/courtroom/audio",
//	    OnEvent: func(ev gavel.ChannelEvent) {
//	        log.Printf("%s: %s", ev.Channel, ev.Kind)
//	    },
//	})
//	player.PlayMusic(0, "cross-examination.mp3")
//	player.PlaySFX("objection.opus")
//	defer player.Close()
package gavel
