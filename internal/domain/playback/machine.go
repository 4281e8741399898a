package playback

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

const (
	DefaultVolume = 80

	// RestartThreshold is how far into a track prev restarts it instead of
	// moving to the previous track.
	RestartThreshold = 3.0
)

// ErrTrackIndex is returned when selecting an index outside the track list
var ErrTrackIndex = errors.New("track index out of range")

// Rand picks shuffle targets
type Rand interface {
	IntN(n int) int
}

// DefaultTracks is the built-in playlist. URLs are attached when a playlist
// file is loaded.
func DefaultTracks() []types.Track {
	return []types.Track{
		{ID: 1, Title: "Lyn - No More What If", Duration: 300},
		{ID: 2, Title: "Philip Bailey - Easy Lover", Duration: 300},
		{ID: 3, Title: "Home Made Kazoku - Thank You", Duration: 300},
	}
}

// InitialSession returns the session a fresh store starts with
func InitialSession() types.PlaybackSession {
	return types.PlaybackSession{
		Tracks:    DefaultTracks(),
		PlayState: types.PlayStopped,
		Volume:    DefaultVolume,
	}
}

// Machine is the playback state machine. Not safe for concurrent use.
type Machine struct {
	s   types.PlaybackSession
	rng Rand
}

// NewMachine creates a machine in the initial session. A nil rng uses a
// randomly seeded source.
func NewMachine(rng Rand) *Machine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Machine{s: InitialSession(), rng: rng}
}

// Session returns a copy of the current session
func (m *Machine) Session() types.PlaybackSession {
	return m.s.Clone()
}

// LoadTracks replaces the track list and rewinds to the first playable
// entry. The transport state is unchanged.
func (m *Machine) LoadTracks(tracks []types.Track) {
	m.s.Tracks = slices.Clone(tracks)
	m.s.CurrentTrackIndex = 0
	m.s.CurrentTime = 0
	if i, ok := NearestValidIndex(m.s.Tracks, 0); ok {
		m.s.CurrentTrackIndex = i
	}
}

// Play starts or resumes playback
func (m *Machine) Play() {
	m.s.PlayState = types.PlayPlaying
	m.s.ShowMiniPlayer = true
}

// Pause pauses playback; the mini player stays visible
func (m *Machine) Pause() {
	m.s.PlayState = types.PlayPaused
}

// Stop ends playback, rewinds and hides the mini player
func (m *Machine) Stop() {
	m.s.PlayState = types.PlayStopped
	m.s.CurrentTime = 0
	m.s.ShowMiniPlayer = false
}

// Dismiss is Stop issued from the mini player
func (m *Machine) Dismiss() {
	m.Stop()
}

// SelectTrack jumps to index and starts playing it. Selecting a track with no
// source lands on the nearest playable one instead, when there is one.
func (m *Machine) SelectTrack(index int) error {
	if index < 0 || index >= len(m.s.Tracks) {
		return fmt.Errorf("%w: %d of %d", ErrTrackIndex, index, len(m.s.Tracks))
	}
	if i, ok := NearestValidIndex(m.s.Tracks, index); ok {
		index = i
	}

	m.s.CurrentTrackIndex = index
	m.s.CurrentTime = 0
	m.Play()
	return nil
}

// Next advances according to repeat and shuffle. With no playable track it
// does nothing.
func (m *Machine) Next() {
	valid := ValidIndices(m.s.Tracks)
	if len(valid) == 0 {
		return
	}

	pos := slices.Index(valid, m.s.CurrentTrackIndex)
	switch {
	case pos < 0:
		pos = 0
	case m.s.Repeat:
		// stay on the current track
	case m.s.Shuffle:
		if n := len(valid); n > 1 {
			r := m.rng.IntN(n - 1)
			if r >= pos {
				r++
			}
			pos = r
		}
	default:
		pos = (pos + 1) % len(valid)
	}

	m.s.CurrentTrackIndex = valid[pos]
	m.s.CurrentTime = 0
}

// Prev restarts the current track when more than RestartThreshold seconds
// in, otherwise moves to the previous playable track, wrapping to the last.
func (m *Machine) Prev() {
	valid := ValidIndices(m.s.Tracks)
	if len(valid) == 0 {
		return
	}

	pos := slices.Index(valid, m.s.CurrentTrackIndex)
	switch {
	case pos < 0:
		pos = 0
	case m.s.CurrentTime > RestartThreshold:
		// restart
	default:
		pos = (pos - 1 + len(valid)) % len(valid)
	}

	m.s.CurrentTrackIndex = valid[pos]
	m.s.CurrentTime = 0
}

// UpdateTime records the driver-reported position
func (m *Machine) UpdateTime(seconds float64) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return
	}
	m.s.CurrentTime = math.Max(0, seconds)
}

// SetDuration records the driver-reported duration of the current track
func (m *Machine) SetDuration(seconds float64) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return
	}
	m.s.Duration = seconds
}

// SetVolume sets the volume, clamped to 0..100
func (m *Machine) SetVolume(v int) {
	m.s.Volume = min(100, max(0, v))
}

// ToggleShuffle flips shuffle
func (m *Machine) ToggleShuffle() {
	m.s.Shuffle = !m.s.Shuffle
}

// ToggleRepeat flips repeat
func (m *Machine) ToggleRepeat() {
	m.s.Repeat = !m.s.Repeat
}

// SetShowMiniPlayer shows or hides the mini player without touching transport
func (m *Machine) SetShowMiniPlayer(show bool) {
	m.s.ShowMiniPlayer = show
}

// Resume is the persisted subset of a session
type Resume struct {
	Index     int
	Time      float64
	Volume    int
	PlayState types.PlayState
	Shuffle   bool
	Repeat    bool
}

// Restore applies a persisted session. Playback never resumes on its own:
// a restored playing state comes back paused.
func (m *Machine) Restore(r Resume) {
	idx := r.Index
	if idx < 0 || idx >= len(m.s.Tracks) {
		idx = 0
	}

	state := r.PlayState
	switch state {
	case types.PlayPlaying:
		state = types.PlayPaused
	case types.PlayPaused, types.PlayStopped:
	default:
		state = types.PlayStopped
	}

	m.s.CurrentTrackIndex = idx
	m.s.PlayState = state
	m.s.ShowMiniPlayer = state != types.PlayStopped
	m.s.Shuffle = r.Shuffle
	m.s.Repeat = r.Repeat
	m.SetVolume(r.Volume)
	m.s.CurrentTime = 0
	if state != types.PlayStopped {
		m.UpdateTime(r.Time)
	}
}

// Reset returns to the initial session, keeping the loaded track list
func (m *Machine) Reset() {
	tracks := m.s.Tracks
	m.s = InitialSession()
	m.s.Tracks = tracks
}
