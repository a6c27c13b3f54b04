// ABOUTME: Tests for cue parsing and validation
// ABOUTME: Table-driven over valid and malformed cue lines
package protocol

import "testing"

func TestParseValidCues(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Cue
	}{
		{
			name: "music with offset",
			line: `{"command":"music","source":"trial.mp3","channel":1,"offset":5.5}`,
			want: Cue{Command: CmdMusic, Source: "trial.mp3", Channel: 1, Offset: 5.5},
		},
		{
			name: "minimal blip",
			line: `{"command":"blip","source":"blip-male.opus"}`,
			want: Cue{Command: CmdBlip, Source: "blip-male.opus"},
		},
		{
			name: "sfx",
			line: `{"command":"sfx","source":"gavel.wav"}`,
			want: Cue{Command: CmdSFX, Source: "gavel.wav"},
		},
		{
			name: "volume",
			line: `{"command":"volume","target":"music0","value":0.4}`,
			want: Cue{Command: CmdVolume, Target: "music0", Value: 0.4},
		},
		{
			name: "stop everything",
			line: `{"command":"stop"}`,
			want: Cue{Command: CmdStop},
		},
		{
			name: "stop one channel",
			line: `{"command":"stop","target":"shout"}`,
			want: Cue{Command: CmdStop, Target: "shout"},
		},
		{
			// Negative channels are valid on the wire; dispatch falls
			// back to channel 0.
			name: "negative channel",
			line: `{"command":"music","source":"trial.mp3","channel":-1}`,
			want: Cue{Command: CmdMusic, Source: "trial.mp3", Channel: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.line))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got.Command != tt.want.Command || got.Source != tt.want.Source ||
				got.Channel != tt.want.Channel || got.Offset != tt.want.Offset ||
				got.Target != tt.want.Target || got.Value != tt.want.Value {
				t.Errorf("cue = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseRejectsBadCues(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "not json", line: `play the gavel sound`},
		{name: "missing command", line: `{"source":"gavel.wav"}`},
		{name: "unknown command", line: `{"command":"adjourn"}`},
		{name: "music without source", line: `{"command":"music"}`},
		{name: "volume without target", line: `{"command":"volume","value":0.5}`},
		{name: "volume above one", line: `{"command":"volume","target":"sfx","value":1.5}`},
		{name: "negative volume", line: `{"command":"volume","target":"sfx","value":-0.1}`},
		{name: "negative offset", line: `{"command":"music","source":"a.mp3","offset":-2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.line)); err == nil {
				t.Errorf("parse accepted %s", tt.line)
			}
		})
	}
}

func TestLoopOrDefault(t *testing.T) {
	f := false
	tr := true

	tests := []struct {
		name string
		cue  Cue
		want bool
	}{
		{name: "music defaults to looping", cue: Cue{Command: CmdMusic}, want: true},
		{name: "music explicit off", cue: Cue{Command: CmdMusic, Loop: &f}, want: false},
		{name: "sfx defaults to one-shot", cue: Cue{Command: CmdSFX}, want: false},
		{name: "sfx explicit loop", cue: Cue{Command: CmdSFX, Loop: &tr}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cue.LoopOrDefault(); got != tt.want {
				t.Errorf("loop = %v, want %v", got, tt.want)
			}
		})
	}
}
