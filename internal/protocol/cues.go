// ABOUTME: Cue command definitions for driving the channel board
// ABOUTME: Cues arrive as JSON objects, one per line
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Cue command names
const (
	CmdMusic     = "music"
	CmdBlip      = "blip"
	CmdSFX       = "sfx"
	CmdShout     = "shout"
	CmdTestimony = "testimony"
	CmdVolume    = "volume"
	CmdStop      = "stop"
)

// Cue is one command for the channel board.
type Cue struct {
	Command string  `json:"command"`
	Source  string  `json:"source,omitempty"`
	Channel int     `json:"channel,omitempty"` // music channel index; negative falls back to 0
	Offset  float64 `json:"offset,omitempty"`  // seconds into the track
	Loop    *bool   `json:"loop,omitempty"`
	Target  string  `json:"target,omitempty"` // channel name for volume/stop
	Value   float64 `json:"value,omitempty"`  // volume level 0-1
}

// LoopOrDefault returns the loop flag; music loops unless told otherwise.
func (c *Cue) LoopOrDefault() bool {
	if c.Loop != nil {
		return *c.Loop
	}
	return c.Command == CmdMusic
}

// Parse decodes and validates one cue line.
func Parse(line []byte) (*Cue, error) {
	var c Cue
	if err := json.Unmarshal(line, &c); err != nil {
		return nil, fmt.Errorf("parse cue: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the fields required by the cue's command.
func (c *Cue) Validate() error {
	switch c.Command {
	case CmdMusic, CmdBlip, CmdSFX, CmdShout, CmdTestimony:
		if c.Source == "" {
			return fmt.Errorf("%s cue missing source", c.Command)
		}
	case CmdVolume:
		if c.Target == "" {
			return errors.New("volume cue missing target")
		}
		if c.Value < 0 || c.Value > 1 {
			return fmt.Errorf("volume %v out of range", c.Value)
		}
	case CmdStop:
		// An empty target stops every channel.
	case "":
		return errors.New("cue missing command")
	default:
		return fmt.Errorf("unknown cue command %q", c.Command)
	}
	if c.Offset < 0 {
		return fmt.Errorf("offset %v out of range", c.Offset)
	}
	return nil
}
