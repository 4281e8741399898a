package playback

import (
	"math"

	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

// DefaultSeekThreshold is the smallest position difference, in seconds, that
// makes the driver seek. Smaller drift is the driver's own clock.
const DefaultSeekThreshold = 0.5

// CommandKind names a media element operation
type CommandKind string

const (
	CmdSetSource   CommandKind = "set_source"
	CmdClearSource CommandKind = "clear_source"
	CmdPlay        CommandKind = "play"
	CmdPause       CommandKind = "pause"
	CmdSeek        CommandKind = "seek"
	CmdSetVolume   CommandKind = "set_volume"
)

// Command is one operation for the media element
type Command struct {
	Kind    CommandKind `json:"kind"`
	Source  string      `json:"source,omitempty"`
	Seconds float64     `json:"seconds,omitempty"`
	Volume  float64     `json:"volume,omitempty"`
}

// Element is what the driver reports about its media element
type Element struct {
	Source      string  `json:"source"`
	Paused      bool    `json:"paused"`
	CurrentTime float64 `json:"currentTime"`
	Volume      float64 `json:"volume"` // 0..1
}

// DriverView is the slice of session state a media driver applies
type DriverView struct {
	URL         string          `json:"url"`
	PlayState   types.PlayState `json:"playState"`
	Volume      int             `json:"volume"`
	CurrentTime float64         `json:"currentTime"`
}

// Driver projects the session onto what a media driver needs
func Driver(s types.PlaybackSession) DriverView {
	v := DriverView{
		PlayState:   s.PlayState,
		Volume:      s.Volume,
		CurrentTime: s.CurrentTime,
	}
	if t, ok := s.CurrentTrack(); ok && t.Playable() {
		v.URL = t.URL
	}
	return v
}

// Plan returns the commands that bring el in line with s. Commands are
// ordered: source, volume, seek, then play/pause.
func Plan(el Element, s types.PlaybackSession, seekThreshold float64) []Command {
	if seekThreshold <= 0 {
		seekThreshold = DefaultSeekThreshold
	}
	view := Driver(s)
	var cmds []Command

	if vol := float64(view.Volume) / 100; math.Abs(el.Volume-vol) > 1e-6 {
		cmds = append(cmds, Command{Kind: CmdSetVolume, Volume: vol})
	}

	if view.URL == "" {
		if !el.Paused {
			cmds = append(cmds, Command{Kind: CmdPause})
		}
		if el.Source != "" {
			cmds = append(cmds, Command{Kind: CmdClearSource})
		}
		return cmds
	}

	position := el.CurrentTime
	if el.Source != view.URL {
		cmds = append([]Command{{Kind: CmdSetSource, Source: view.URL}}, cmds...)
		position = 0
	}

	target := view.CurrentTime
	if view.PlayState == types.PlayStopped {
		target = 0
	}
	if math.Abs(position-target) > seekThreshold {
		cmds = append(cmds, Command{Kind: CmdSeek, Seconds: target})
	}

	switch view.PlayState {
	case types.PlayPlaying:
		if el.Paused || el.Source != view.URL {
			cmds = append(cmds, Command{Kind: CmdPlay})
		}
	default:
		if !el.Paused {
			cmds = append(cmds, Command{Kind: CmdPause})
		}
	}
	return cmds
}
