package store

import (
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/internal/domain/cache"
	"github.com/GriffinCanCode/DeskOS/internal/domain/playback"
	"github.com/GriffinCanCode/DeskOS/internal/domain/window"
	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

// hydrate restores windows, music and theme from the cache.
func (s *Store) hydrate() {
	if saved, ok := s.windowCache.Load(); ok {
		s.windows.Restore(saved)
	}

	session := s.player.Session()
	def := cache.MusicState{
		CurrentTrackIndex: session.CurrentTrackIndex,
		Volume:            session.Volume,
		PlayState:         session.PlayState,
	}
	m := s.musicCache.LoadState(def)
	s.player.Restore(playback.Resume{
		Index:     m.CurrentTrackIndex,
		Time:      m.CurrentTime,
		Volume:    m.Volume,
		PlayState: m.PlayState,
		Shuffle:   m.Shuffle,
		Repeat:    m.Repeat,
	})
	s.lastTime = int(s.player.Session().CurrentTime)

	s.prefs.theme = s.prefCache.LoadTheme(types.ThemeLight)

	s.logger.Debug("Store hydrated",
		zap.String("session", s.sessionID.String()),
		zap.Int("tracks", len(session.Tracks)))
}

// Flush writes every pending coalesced write now
func (s *Store) Flush() {
	s.windowCache.Flush()
	s.notes.Flush()
	s.paint.Flush()
}

// Reset cancels pending writes, wipes the cache namespace and returns the
// store to its initial state. The loaded playlist is kept.
func (s *Store) Reset() {
	s.windowCache.Cancel()
	s.notes.Cancel()
	s.paint.Cancel()

	_ = s.apply("reset", func() error {
		s.windows = window.NewManager()
		s.player.Reset()
		s.prefs = defaultPrefs()
		s.lastTime = 0
		return nil
	}, s.wipe)
}

func (s *Store) wipe(types.DesktopState) {
	if !s.cache.ClearAll() {
		s.logger.Warn("Cache not fully cleared during reset")
	}
}

// Close flushes pending writes. A cache created by the store is closed too.
// Close is idempotent.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.Flush()
	if s.ownsCache {
		s.cache.Close()
	}
	s.logger.Debug("Store closed", zap.String("session", s.sessionID.String()))
}
