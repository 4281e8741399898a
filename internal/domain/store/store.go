package store

import (
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/internal/domain/cache"
	"github.com/GriffinCanCode/DeskOS/internal/domain/playback"
	"github.com/GriffinCanCode/DeskOS/internal/domain/window"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/clock"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/storage"
	"github.com/GriffinCanCode/DeskOS/internal/shared/id"
	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

const (
	DefaultUIZoom             = 100
	DefaultTimeSampleInterval = 5
)

// Options configures a Store. Zero values select defaults.
type Options struct {
	// Cache mirrors state durably. Nil uses an unlimited in-memory cache
	// owned by the store.
	Cache   *cache.Cache
	Clock   clock.Clock
	Rand    playback.Rand
	Logger  *zap.Logger
	Metrics *monitoring.Metrics

	// Tracks replaces the built-in playlist
	Tracks []types.Track

	WindowDebounce time.Duration
	ScrollDebounce time.Duration
	CanvasThrottle time.Duration
	MusicExpiry    time.Duration
	// TimeSampleInterval persists playback time only on whole-second
	// multiples of this many seconds
	TimeSampleInterval int
}

// Listener receives the state after each transition. The snapshot is shared
// between listeners and must not be modified.
type Listener func(types.DesktopState)

type subscriber struct {
	id id.SubscriberID
	fn Listener
}

type prefs struct {
	theme        types.Theme
	reduceMotion bool
	uiZoom       int
	showHelp     bool
}

func defaultPrefs() prefs {
	return prefs{theme: types.ThemeLight, uiZoom: DefaultUIZoom}
}

// Store is the desktop session state container
type Store struct {
	sessionID id.SessionID
	logger    *zap.Logger
	metrics   *monitoring.Metrics

	// txMu serializes transitions end to end, including notification and
	// mirroring, so writes land in transition order.
	txMu sync.Mutex

	// mu guards the state below
	mu       sync.RWMutex
	windows  *window.Manager
	player   *playback.Machine
	prefs    prefs
	subs     []subscriber
	lastTime int
	closed   bool

	cache       *cache.Cache
	ownsCache   bool
	windowCache *cache.WindowCache
	musicCache  *cache.MusicCache
	prefCache   *cache.Preferences
	notes       *cache.NotesCache
	paint       *cache.PaintCache
	kalimba     *cache.KalimbaCache

	sampleEvery int
}

// New creates a store and hydrates it from the cache
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := opts.Cache
	owns := false
	if c == nil {
		c = cache.New(storage.NewMemory(0), cache.Options{
			Clock:   opts.Clock,
			Logger:  logger,
			Metrics: opts.Metrics,
		})
		owns = true
	}

	sample := opts.TimeSampleInterval
	if sample <= 0 {
		sample = DefaultTimeSampleInterval
	}

	s := &Store{
		sessionID:   id.NewSessionID(),
		logger:      logger.Named("store"),
		metrics:     opts.Metrics,
		windows:     window.NewManager(),
		player:      playback.NewMachine(opts.Rand),
		prefs:       defaultPrefs(),
		cache:       c,
		ownsCache:   owns,
		windowCache: cache.NewWindowCache(c, opts.WindowDebounce),
		musicCache:  cache.NewMusicCache(c, opts.MusicExpiry),
		prefCache:   cache.NewPreferences(c),
		notes:       cache.NewNotesCache(c, opts.ScrollDebounce),
		paint:       cache.NewPaintCache(c, opts.CanvasThrottle),
		kalimba:     cache.NewKalimbaCache(c),
		sampleEvery: sample,
	}

	if len(opts.Tracks) > 0 {
		s.player.LoadTracks(opts.Tracks)
	}
	s.hydrate()
	return s
}

// ID returns the session identifier
func (s *Store) ID() id.SessionID {
	return s.sessionID
}

// Cache returns the backing cache
func (s *Store) Cache() *cache.Cache {
	return s.cache
}

// Notes returns the notes panel cache
func (s *Store) Notes() *cache.NotesCache { return s.notes }

// Paint returns the paint panel cache
func (s *Store) Paint() *cache.PaintCache { return s.paint }

// Kalimba returns the kalimba panel cache
func (s *Store) Kalimba() *cache.KalimbaCache { return s.kalimba }

// State returns a deep copy of the current state
func (s *Store) State() types.DesktopState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Playback returns a copy of the playback session
func (s *Store) Playback() types.PlaybackSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.player.Session()
}

// Must hold s.mu.
func (s *Store) snapshotLocked() types.DesktopState {
	layout := s.windows.Snapshot()
	return types.DesktopState{
		Theme:           s.prefs.theme,
		ReduceMotion:    s.prefs.reduceMotion,
		UIZoom:          s.prefs.uiZoom,
		ShowHelpModal:   s.prefs.showHelp,
		Windows:         layout.Windows,
		ActiveWindowID:  layout.ActiveWindowID,
		MaxZIndex:       layout.MaxZIndex,
		MobileActiveApp: layout.MobileActiveApp,
		Music:           s.player.Session(),
	}
}

// Subscribe registers fn for state changes and returns a func that removes it
func (s *Store) Subscribe(fn Listener) func() {
	sid := id.NewSubscriberID()

	s.mu.Lock()
	s.subs = append(s.subs, subscriber{id: sid, fn: fn})
	count := len(s.subs)
	s.mu.Unlock()
	s.metrics.SetSubscribers(count)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == sid })
			count := len(s.subs)
			s.mu.Unlock()
			s.metrics.SetSubscribers(count)
		})
	}
}

// mirror persists a slice of the committed state
type mirror func(types.DesktopState)

// apply runs one transition: mutate under lock, notify, then mirror.
func (s *Store) apply(op string, mutate func() error, persist mirror) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	if err := mutate(); err != nil {
		s.mu.Unlock()
		s.logger.Debug("Transition rejected", zap.String("op", op), zap.Error(err))
		return err
	}
	snap := s.snapshotLocked()
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	s.metrics.RecordTransition(op)
	for _, sub := range subs {
		sub.fn(snap)
	}
	if persist != nil {
		persist(snap)
	}
	return nil
}

func (s *Store) persistWindows(snap types.DesktopState) {
	if !s.windowCache.Save(snap.Windows) {
		s.logger.Warn("Window state not persisted")
	}
}

func (s *Store) persistWindowsDebounced(snap types.DesktopState) {
	s.windowCache.SaveDebounced(snap.Windows)
}

func (s *Store) persistMusic(snap types.DesktopState) {
	m := snap.Music
	s.mu.Lock()
	s.lastTime = int(m.CurrentTime)
	s.mu.Unlock()

	s.musicCache.SaveState(cache.MusicState{
		CurrentTrackIndex: m.CurrentTrackIndex,
		CurrentTime:       m.CurrentTime,
		Volume:            m.Volume,
		PlayState:         m.PlayState,
		Shuffle:           m.Shuffle,
		Repeat:            m.Repeat,
	})
}

func (s *Store) persistTheme(snap types.DesktopState) {
	s.prefCache.SaveTheme(snap.Theme)
}
