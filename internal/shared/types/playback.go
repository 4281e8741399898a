package types

import "strings"

// PlayState represents the transport state of the audio session
type PlayState string

const (
	PlayStopped PlayState = "stopped"
	PlayPlaying PlayState = "playing"
	PlayPaused  PlayState = "paused"
)

// Valid reports whether s is one of the known transport states.
func (s PlayState) Valid() bool {
	switch s {
	case PlayStopped, PlayPlaying, PlayPaused:
		return true
	}
	return false
}

// Track represents a playlist entry
type Track struct {
	ID       int     `json:"id" toml:"id"`
	Title    string  `json:"title" toml:"title"`
	Duration float64 `json:"duration" toml:"duration"` // seconds
	URL      string  `json:"url" toml:"url"`
}

// Playable reports whether the track has a resolvable media source.
func (t Track) Playable() bool {
	return strings.TrimSpace(t.URL) != ""
}

// PlaybackSession holds the persistent audio player state
type PlaybackSession struct {
	Tracks            []Track   `json:"tracks"`
	CurrentTrackIndex int       `json:"currentTrackIndex"`
	PlayState         PlayState `json:"playState"`
	CurrentTime       float64   `json:"currentTime"`
	Duration          float64   `json:"duration"`
	Volume            int       `json:"volume"`
	Shuffle           bool      `json:"shuffle"`
	Repeat            bool      `json:"repeat"`
	ShowMiniPlayer    bool      `json:"showMiniPlayer"`
}

// CurrentTrack returns the track under the current index, if any.
func (s PlaybackSession) CurrentTrack() (Track, bool) {
	if s.CurrentTrackIndex < 0 || s.CurrentTrackIndex >= len(s.Tracks) {
		return Track{}, false
	}
	return s.Tracks[s.CurrentTrackIndex], true
}

// Clone returns a copy that shares no slice storage with s
func (s PlaybackSession) Clone() PlaybackSession {
	out := s
	if s.Tracks != nil {
		out.Tracks = make([]Track, len(s.Tracks))
		copy(out.Tracks, s.Tracks)
	}
	return out
}
