package playback

import (
	"fmt"
	"math"

	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

// FullPlayer is what the music window renders
type FullPlayer struct {
	Track       *types.Track    `json:"track"`
	TrackIndex  int             `json:"trackIndex"`
	TrackCount  int             `json:"trackCount"`
	PlayState   types.PlayState `json:"playState"`
	IsPlaying   bool            `json:"isPlaying"`
	CurrentTime float64         `json:"currentTime"`
	Duration    float64         `json:"duration"`
	Progress    float64         `json:"progress"`
	Elapsed     string          `json:"elapsed"`
	Total       string          `json:"total"`
	Volume      int             `json:"volume"`
	Shuffle     bool            `json:"shuffle"`
	Repeat      bool            `json:"repeat"`
	CanNavigate bool            `json:"canNavigate"`
}

// MiniPlayer is what the minimized bar renders
type MiniPlayer struct {
	Visible     bool    `json:"visible"`
	Title       string  `json:"title,omitempty"`
	IsPlaying   bool    `json:"isPlaying"`
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
	Progress    float64 `json:"progress"`
	Elapsed     string  `json:"elapsed,omitempty"`
	Total       string  `json:"total,omitempty"`
}

// Full projects a session onto the full player
func Full(s types.PlaybackSession) FullPlayer {
	v := FullPlayer{
		TrackIndex:  s.CurrentTrackIndex,
		TrackCount:  len(s.Tracks),
		PlayState:   s.PlayState,
		IsPlaying:   s.PlayState == types.PlayPlaying,
		CurrentTime: s.CurrentTime,
		Volume:      s.Volume,
		Shuffle:     s.Shuffle,
		Repeat:      s.Repeat,
		CanNavigate: len(ValidIndices(s.Tracks)) > 0,
	}

	track, ok := s.CurrentTrack()
	if ok {
		v.Track = &track
	}
	v.Duration = effectiveDuration(s, track)
	v.Progress = progress(s.CurrentTime, v.Duration)
	v.Elapsed = FormatDuration(s.CurrentTime)
	v.Total = FormatDuration(v.Duration)
	return v
}

// Mini projects a session onto the mini player. The bar hides while the
// music app is the active mobile pane, since the full player is on screen.
func Mini(s types.PlaybackSession, mobileActive *types.AppID) MiniPlayer {
	track, ok := s.CurrentTrack()
	engaged := s.PlayState == types.PlayPlaying || s.PlayState == types.PlayPaused
	onScreen := mobileActive != nil && *mobileActive == types.AppMusic

	if !s.ShowMiniPlayer || onScreen || !ok || !engaged {
		return MiniPlayer{}
	}

	dur := effectiveDuration(s, track)
	return MiniPlayer{
		Visible:     true,
		Title:       track.Title,
		IsPlaying:   s.PlayState == types.PlayPlaying,
		CurrentTime: s.CurrentTime,
		Duration:    dur,
		Progress:    progress(s.CurrentTime, dur),
		Elapsed:     FormatDuration(s.CurrentTime),
		Total:       FormatDuration(dur),
	}
}

// driver-reported duration wins over the declared one
func effectiveDuration(s types.PlaybackSession, t types.Track) float64 {
	if s.Duration > 0 {
		return s.Duration
	}
	return math.Max(0, t.Duration)
}

func progress(current, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return math.Min(100, math.Max(0, current/duration*100))
}

// FormatDuration renders seconds as m:ss
func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
