package store

import (
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/internal/domain/playback"
	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

func (s *Store) music(op string, fn func()) {
	_ = s.apply(op, func() error {
		fn()
		return nil
	}, s.persistMusic)
}

// LoadTracks replaces the playlist
func (s *Store) LoadTracks(tracks []types.Track) {
	s.music("load_tracks", func() { s.player.LoadTracks(tracks) })
}

// Play starts playback of the current track
func (s *Store) Play() { s.music("play", s.player.Play) }

// Pause pauses playback
func (s *Store) Pause() { s.music("pause", s.player.Pause) }

// Stop stops playback and rewinds
func (s *Store) Stop() { s.music("stop", s.player.Stop) }

// Dismiss stops playback and hides the mini player
func (s *Store) Dismiss() { s.music("dismiss", s.player.Dismiss) }

// SelectTrack switches to the track at index and starts playing it
func (s *Store) SelectTrack(index int) error {
	return s.apply("select_track", func() error { return s.player.SelectTrack(index) }, s.persistMusic)
}

// Next advances according to the repeat and shuffle settings
func (s *Store) Next() { s.music("next", s.player.Next) }

// Prev restarts the current track or moves to the previous one
func (s *Store) Prev() { s.music("prev", s.player.Prev) }

// SetVolume sets the volume, clamped to 0..100
func (s *Store) SetVolume(v int) {
	s.music("set_volume", func() { s.player.SetVolume(v) })
}

// ToggleShuffle flips shuffle mode
func (s *Store) ToggleShuffle() { s.music("toggle_shuffle", s.player.ToggleShuffle) }

// ToggleRepeat flips repeat mode
func (s *Store) ToggleRepeat() { s.music("toggle_repeat", s.player.ToggleRepeat) }

// UpdateTime records the playback position. Only whole-second multiples of
// the sample interval are written, once per second.
func (s *Store) UpdateTime(seconds float64) {
	_ = s.apply("update_time", func() error {
		s.player.UpdateTime(seconds)
		return nil
	}, s.sampleTime)
}

func (s *Store) sampleTime(snap types.DesktopState) {
	sec := int(snap.Music.CurrentTime)

	s.mu.Lock()
	due := sec%s.sampleEvery == 0 && sec != s.lastTime
	if due {
		s.lastTime = sec
	}
	s.mu.Unlock()

	if due {
		s.musicCache.SaveTime(snap.Music.CurrentTime)
	}
}

// SetDuration records the driver-reported duration of the current source
func (s *Store) SetDuration(seconds float64) {
	_ = s.apply("set_duration", func() error {
		s.player.SetDuration(seconds)
		return nil
	}, nil)
}

// SetShowMiniPlayer shows or hides the mini player
func (s *Store) SetShowMiniPlayer(show bool) {
	_ = s.apply("show_mini_player", func() error {
		s.player.SetShowMiniPlayer(show)
		return nil
	}, nil)
}

// OnTimeUpdate handles a media element time update
func (s *Store) OnTimeUpdate(seconds float64) { s.UpdateTime(seconds) }

// OnLoadedMetadata handles the media element reporting its duration
func (s *Store) OnLoadedMetadata(duration float64) { s.SetDuration(duration) }

// OnEnded handles the current source finishing
func (s *Store) OnEnded() { s.Next() }

// OnError handles a media load or playback failure by pausing
func (s *Store) OnError(err error) {
	s.logger.Warn("Media playback failed", zap.Error(err))
	s.Pause()
}

// FullPlayer projects the full player view
func (s *Store) FullPlayer() playback.FullPlayer {
	return playback.Full(s.Playback())
}

// MiniPlayer projects the mini player view
func (s *Store) MiniPlayer() playback.MiniPlayer {
	s.mu.RLock()
	session := s.player.Session()
	mobile := s.windows.Snapshot().MobileActiveApp
	s.mu.RUnlock()
	return playback.Mini(session, mobile)
}

// DriverView projects what the media element should be doing
func (s *Store) DriverView() playback.DriverView {
	return playback.Driver(s.Playback())
}
