package cache

import (
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/internal/domain/coalesce"
	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

const (
	DefaultMusicExpiry    = 24 * time.Hour
	DefaultWindowDebounce = 500 * time.Millisecond
	DefaultScrollDebounce = 500 * time.Millisecond
	DefaultCanvasThrottle = 1500 * time.Millisecond
)

// MusicState is the persisted subset of a playback session
type MusicState struct {
	CurrentTrackIndex int             `json:"currentTrackIndex"`
	CurrentTime       float64         `json:"currentTime"`
	Volume            int             `json:"volume"`
	PlayState         types.PlayState `json:"playState"`
	Shuffle           bool            `json:"shuffle"`
	Repeat            bool            `json:"repeat"`
}

// MusicCache persists playback state with an expiry
type MusicCache struct {
	c      *Cache
	expiry time.Duration
}

// NewMusicCache creates a music slice cache
func NewMusicCache(c *Cache, expiry time.Duration) *MusicCache {
	if expiry <= 0 {
		expiry = DefaultMusicExpiry
	}
	return &MusicCache{c: c, expiry: expiry}
}

// SaveState writes every music key
func (m *MusicCache) SaveState(s MusicState) bool {
	ok := m.c.SetWithExpiry(KeyMusicCurrentTrack, s.CurrentTrackIndex, m.expiry).OK
	ok = m.c.SetWithExpiry(KeyMusicPlaybackTime, s.CurrentTime, m.expiry).OK && ok
	ok = m.c.SetWithExpiry(KeyMusicVolume, s.Volume, m.expiry).OK && ok
	ok = m.c.SetWithExpiry(KeyMusicPlayState, s.PlayState, m.expiry).OK && ok
	ok = m.c.SetWithExpiry(KeyMusicShuffle, s.Shuffle, m.expiry).OK && ok
	ok = m.c.SetWithExpiry(KeyMusicRepeat, s.Repeat, m.expiry).OK && ok
	return ok
}

// SaveTime writes only the resume position
func (m *MusicCache) SaveTime(seconds float64) bool {
	return m.c.SetWithExpiry(KeyMusicPlaybackTime, seconds, m.expiry).OK
}

// LoadState reads music state, falling back to def per field
func (m *MusicCache) LoadState(def MusicState) MusicState {
	return MusicState{
		CurrentTrackIndex: Get(m.c, KeyMusicCurrentTrack, def.CurrentTrackIndex),
		CurrentTime:       Get(m.c, KeyMusicPlaybackTime, def.CurrentTime),
		Volume:            Get(m.c, KeyMusicVolume, def.Volume),
		PlayState:         Get(m.c, KeyMusicPlayState, def.PlayState),
		Shuffle:           Get(m.c, KeyMusicShuffle, def.Shuffle),
		Repeat:            Get(m.c, KeyMusicRepeat, def.Repeat),
	}
}

// Clear removes every music key
func (m *MusicCache) Clear() {
	if _, err := m.c.RemoveMatching(musicKeys); err != nil {
		m.c.logger.Warn("Failed to clear music cache", zap.Error(err))
	}
}

// PaintTool is the active paint tool
type PaintTool string

const (
	ToolPencil PaintTool = "pencil"
	ToolEraser PaintTool = "eraser"
)

// PaintState is the persisted paint panel state. A nil CanvasData on save
// leaves the stored canvas alone; use ClearCanvas to drop it.
type PaintState struct {
	CanvasData *string   `json:"canvasData"`
	Color      string    `json:"color" binding:"required"`
	BrushSize  int       `json:"brushSize" binding:"min=1,max=100"`
	Tool       PaintTool `json:"tool" binding:"oneof=pencil eraser"`
}

// PaintCache persists paint settings and throttles canvas snapshots
type PaintCache struct {
	c      *Cache
	canvas *coalesce.Throttler[string]
}

// NewPaintCache creates a paint slice cache
func NewPaintCache(c *Cache, throttle time.Duration) *PaintCache {
	if throttle <= 0 {
		throttle = DefaultCanvasThrottle
	}
	p := &PaintCache{c: c}
	p.canvas = coalesce.NewThrottler(c.Clock(), throttle, func(data string) {
		p.c.SetSnapshot(KeyPaintCanvasData, data)
		p.c.metrics.RecordCoalesced("throttle", "fired")
	})
	return p
}

// SaveState writes paint settings immediately and the canvas, if given,
// through the compression path.
func (p *PaintCache) SaveState(s PaintState) bool {
	ok := p.c.Set(KeyPaintColor, s.Color).OK
	ok = p.c.Set(KeyPaintBrushSize, s.BrushSize).OK && ok
	ok = p.c.Set(KeyPaintTool, s.Tool).OK && ok
	if s.CanvasData != nil {
		ok = p.c.SetSnapshot(KeyPaintCanvasData, *s.CanvasData).OK && ok
	}
	return ok
}

// SaveCanvasThrottled queues a canvas snapshot, at most one write per window
func (p *PaintCache) SaveCanvasThrottled(dataURL string) {
	p.canvas.Call(dataURL)
}

// ClearCanvas drops any pending and stored canvas
func (p *PaintCache) ClearCanvas() {
	if p.canvas.Cancel() {
		p.c.metrics.RecordCoalesced("throttle", "cancelled")
	}
	p.c.Remove(KeyPaintCanvasData)
}

// LoadState reads paint state with panel defaults
func (p *PaintCache) LoadState() PaintState {
	s := PaintState{
		Color:     Get(p.c, KeyPaintColor, "#000000"),
		BrushSize: Get(p.c, KeyPaintBrushSize, 2),
		Tool:      Get(p.c, KeyPaintTool, ToolPencil),
	}
	if data, ok := Lookup[string](p.c, KeyPaintCanvasData); ok {
		s.CanvasData = &data
	}
	return s
}

// Flush writes a pending canvas snapshot now
func (p *PaintCache) Flush() {
	if p.canvas.Flush() {
		p.c.metrics.RecordCoalesced("throttle", "flushed")
	}
}

// Cancel drops a pending canvas snapshot
func (p *PaintCache) Cancel() {
	if p.canvas.Cancel() {
		p.c.metrics.RecordCoalesced("throttle", "cancelled")
	}
}

// Clear removes every paint key
func (p *PaintCache) Clear() {
	p.Cancel()
	if _, err := p.c.RemoveMatching(paintKeys); err != nil {
		p.c.logger.Warn("Failed to clear paint cache", zap.Error(err))
	}
}

// NotesState is the persisted notes panel state
type NotesState struct {
	SelectedNoteID *int    `json:"selectedNoteId"`
	ScrollPosition float64 `json:"scrollPosition"`
	SecretAnswer   string  `json:"secretAnswer"`
	SecretShown    bool    `json:"secretShown"`
}

// NotesUpdate carries optional fields; nil fields are not written
type NotesUpdate struct {
	SelectedNoteID *int     `json:"selectedNoteId"`
	ScrollPosition *float64 `json:"scrollPosition,omitempty"`
	SecretAnswer   *string  `json:"secretAnswer,omitempty"`
	SecretShown    *bool    `json:"secretShown,omitempty"`
}

// NotesCache persists notes selection and debounces scroll bookmarks
type NotesCache struct {
	c      *Cache
	scroll *coalesce.Debouncer[float64]
}

// NewNotesCache creates a notes slice cache
func NewNotesCache(c *Cache, debounce time.Duration) *NotesCache {
	if debounce <= 0 {
		debounce = DefaultScrollDebounce
	}
	n := &NotesCache{c: c}
	n.scroll = coalesce.NewDebouncer(c.Clock(), debounce, func(pos float64) {
		n.c.Set(KeyNotesScrollPosition, pos)
		n.c.metrics.RecordCoalesced("debounce", "fired")
	})
	return n
}

// SaveState writes the selection and any provided optional fields
func (n *NotesCache) SaveState(u NotesUpdate) bool {
	ok := n.c.Set(KeyNotesSelected, u.SelectedNoteID).OK
	if u.ScrollPosition != nil {
		ok = n.c.Set(KeyNotesScrollPosition, *u.ScrollPosition).OK && ok
	}
	if u.SecretAnswer != nil {
		ok = n.c.Set(KeyNotesSecretAnswer, *u.SecretAnswer).OK && ok
	}
	if u.SecretShown != nil {
		ok = n.c.Set(KeyNotesSecretShown, *u.SecretShown).OK && ok
	}
	return ok
}

// SaveScrollDebounced records a scroll position once scrolling settles
func (n *NotesCache) SaveScrollDebounced(pos float64) {
	n.scroll.Call(pos)
}

// LoadState reads notes state with panel defaults
func (n *NotesCache) LoadState() NotesState {
	return NotesState{
		SelectedNoteID: Get[*int](n.c, KeyNotesSelected, nil),
		ScrollPosition: Get(n.c, KeyNotesScrollPosition, 0.0),
		SecretAnswer:   Get(n.c, KeyNotesSecretAnswer, ""),
		SecretShown:    Get(n.c, KeyNotesSecretShown, false),
	}
}

// Flush writes a pending scroll position now
func (n *NotesCache) Flush() {
	if n.scroll.Flush() {
		n.c.metrics.RecordCoalesced("debounce", "flushed")
	}
}

// Cancel drops a pending scroll position
func (n *NotesCache) Cancel() {
	if n.scroll.Cancel() {
		n.c.metrics.RecordCoalesced("debounce", "cancelled")
	}
}

// Clear removes every notes key
func (n *NotesCache) Clear() {
	n.Cancel()
	if _, err := n.c.RemoveMatching(notesKeys); err != nil {
		n.c.logger.Warn("Failed to clear notes cache", zap.Error(err))
	}
}

// Sequence is a named kalimba note sequence
type Sequence struct {
	Name  string   `json:"name" binding:"required"`
	Notes []string `json:"notes"`
}

// KalimbaState is the persisted kalimba panel state
type KalimbaState struct {
	LastNotes []string   `json:"lastNotes"`
	Sequences []Sequence `json:"sequences" binding:"dive"`
}

// KalimbaCache persists recent notes and saved sequences
type KalimbaCache struct {
	c *Cache
}

// NewKalimbaCache creates a kalimba slice cache
func NewKalimbaCache(c *Cache) *KalimbaCache {
	return &KalimbaCache{c: c}
}

// SaveState writes both kalimba keys
func (k *KalimbaCache) SaveState(s KalimbaState) bool {
	ok := k.c.Set(KeyKalimbaLastNotes, s.LastNotes).OK
	return k.c.Set(KeyKalimbaSequences, s.Sequences).OK && ok
}

// LoadState reads kalimba state, defaulting to empty lists
func (k *KalimbaCache) LoadState() KalimbaState {
	return KalimbaState{
		LastNotes: Get(k.c, KeyKalimbaLastNotes, []string{}),
		Sequences: Get(k.c, KeyKalimbaSequences, []Sequence{}),
	}
}

// Clear removes every kalimba key
func (k *KalimbaCache) Clear() {
	if _, err := k.c.RemoveMatching(kalimbaKeys); err != nil {
		k.c.logger.Warn("Failed to clear kalimba cache", zap.Error(err))
	}
}

// WindowCache persists the window map on an immediate and a debounced path.
// An immediate save supersedes any pending debounced one.
type WindowCache struct {
	c        *Cache
	deferred *coalesce.Debouncer[map[types.AppID]types.Window]
}

// NewWindowCache creates a window slice cache
func NewWindowCache(c *Cache, debounce time.Duration) *WindowCache {
	if debounce <= 0 {
		debounce = DefaultWindowDebounce
	}
	w := &WindowCache{c: c}
	w.deferred = coalesce.NewDebouncer(c.Clock(), debounce, func(windows map[types.AppID]types.Window) {
		w.c.Set(KeyWindowsState, windows)
		w.c.metrics.RecordCoalesced("debounce", "fired")
	})
	return w
}

// Save writes windows now
func (w *WindowCache) Save(windows map[types.AppID]types.Window) bool {
	if w.deferred.Cancel() {
		w.c.metrics.RecordCoalesced("debounce", "superseded")
	}
	return w.c.Set(KeyWindowsState, windows).OK
}

// SaveDebounced writes windows once updates settle
func (w *WindowCache) SaveDebounced(windows map[types.AppID]types.Window) {
	w.deferred.Call(windows)
}

// Load reads the stored window map
func (w *WindowCache) Load() (map[types.AppID]types.Window, bool) {
	return Lookup[map[types.AppID]types.Window](w.c, KeyWindowsState)
}

// Pending reports whether a debounced save is waiting
func (w *WindowCache) Pending() bool {
	return w.deferred.Pending()
}

// Flush writes a pending debounced save now
func (w *WindowCache) Flush() {
	if w.deferred.Flush() {
		w.c.metrics.RecordCoalesced("debounce", "flushed")
	}
}

// Cancel drops a pending debounced save
func (w *WindowCache) Cancel() {
	if w.deferred.Cancel() {
		w.c.metrics.RecordCoalesced("debounce", "cancelled")
	}
}

// Preferences persists desktop preferences
type Preferences struct {
	c *Cache
}

// NewPreferences creates a preferences slice cache
func NewPreferences(c *Cache) *Preferences {
	return &Preferences{c: c}
}

// SaveTheme writes the theme
func (p *Preferences) SaveTheme(theme types.Theme) bool {
	return p.c.Set(KeyPrefsTheme, theme).OK
}

// LoadTheme reads the theme
func (p *Preferences) LoadTheme(def types.Theme) types.Theme {
	theme := Get(p.c, KeyPrefsTheme, def)
	if theme != types.ThemeLight && theme != types.ThemeDark {
		return def
	}
	return theme
}
