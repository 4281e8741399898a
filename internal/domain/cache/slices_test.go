package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/clock"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/storage"
	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

func TestMusicCacheRoundTripAndExpiry(t *testing.T) {
	c, _, clk := newTestCache(t, 0)
	music := NewMusicCache(c, 24*time.Hour)

	def := MusicState{Volume: 80, PlayState: types.PlayStopped}
	assert.Equal(t, def, music.LoadState(def))

	saved := MusicState{
		CurrentTrackIndex: 2,
		CurrentTime:       61.5,
		Volume:            40,
		PlayState:         types.PlayPaused,
		Shuffle:           true,
	}
	require.True(t, music.SaveState(saved))
	assert.Equal(t, saved, music.LoadState(def))

	require.True(t, music.SaveTime(90))
	assert.Equal(t, 90.0, music.LoadState(def).CurrentTime)

	clk.Advance(25 * time.Hour)
	assert.Equal(t, def, music.LoadState(def))
}

func TestMusicCacheClear(t *testing.T) {
	c, _, _ := newTestCache(t, 0)
	music := NewMusicCache(c, 0)
	c.Set(KeyPaintColor, "#ff0000")

	music.SaveState(MusicState{Volume: 10})
	music.Clear()

	keys, _ := c.Keys()
	assert.Equal(t, []string{KeyPaintColor}, keys)
}

func TestPaintCanvasThrottled(t *testing.T) {
	c, _, clk := newTestCache(t, 0)
	paint := NewPaintCache(c, 1500*time.Millisecond)

	paint.SaveCanvasThrottled("data:one")
	assert.Equal(t, "data:one", Get(c, KeyPaintCanvasData, ""))

	clk.Advance(100 * time.Millisecond)
	paint.SaveCanvasThrottled("data:two")
	paint.SaveCanvasThrottled("data:three")
	assert.Equal(t, "data:one", Get(c, KeyPaintCanvasData, ""))

	clk.Advance(1400 * time.Millisecond)
	assert.Equal(t, "data:three", Get(c, KeyPaintCanvasData, ""))
}

func TestPaintClearCanvasCancelsPending(t *testing.T) {
	c, _, clk := newTestCache(t, 0)
	paint := NewPaintCache(c, time.Second)

	paint.SaveCanvasThrottled("data:one")
	paint.SaveCanvasThrottled("data:two")
	paint.ClearCanvas()

	clk.Advance(2 * time.Second)
	assert.Nil(t, paint.LoadState().CanvasData)
}

func TestPaintDefaultsAndSave(t *testing.T) {
	c, _, _ := newTestCache(t, 0)
	paint := NewPaintCache(c, 0)

	assert.Equal(t, PaintState{Color: "#000000", BrushSize: 2, Tool: ToolPencil}, paint.LoadState())

	canvas := "data:image/png;base64,AAAA"
	require.True(t, paint.SaveState(PaintState{CanvasData: &canvas, Color: "#123456", BrushSize: 8, Tool: ToolEraser}))

	got := paint.LoadState()
	require.NotNil(t, got.CanvasData)
	assert.Equal(t, canvas, *got.CanvasData)
	assert.Equal(t, "#123456", got.Color)
	assert.Equal(t, 8, got.BrushSize)
	assert.Equal(t, ToolEraser, got.Tool)
}

func TestNotesScrollDebounced(t *testing.T) {
	c, _, clk := newTestCache(t, 0)
	notes := NewNotesCache(c, 500*time.Millisecond)

	for _, pos := range []float64{10, 50, 120} {
		notes.SaveScrollDebounced(pos)
		clk.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, 0.0, notes.LoadState().ScrollPosition)

	clk.Advance(400 * time.Millisecond)
	assert.Equal(t, 120.0, notes.LoadState().ScrollPosition)
}

func TestNotesSaveOptionalFields(t *testing.T) {
	c, _, _ := newTestCache(t, 0)
	notes := NewNotesCache(c, 0)

	id := 3
	answer := "42"
	require.True(t, notes.SaveState(NotesUpdate{SelectedNoteID: &id, SecretAnswer: &answer}))

	got := notes.LoadState()
	require.NotNil(t, got.SelectedNoteID)
	assert.Equal(t, 3, *got.SelectedNoteID)
	assert.Equal(t, "42", got.SecretAnswer)
	assert.False(t, got.SecretShown)

	require.True(t, notes.SaveState(NotesUpdate{}))
	assert.Nil(t, notes.LoadState().SelectedNoteID)
	assert.Equal(t, "42", notes.LoadState().SecretAnswer)
}

func TestKalimbaRoundTrip(t *testing.T) {
	c, _, _ := newTestCache(t, 0)
	k := NewKalimbaCache(c)

	assert.Equal(t, KalimbaState{LastNotes: []string{}, Sequences: []Sequence{}}, k.LoadState())

	s := KalimbaState{
		LastNotes: []string{"C4", "E4"},
		Sequences: []Sequence{{Name: "intro", Notes: []string{"C4", "G4"}}},
	}
	require.True(t, k.SaveState(s))
	assert.Equal(t, s, k.LoadState())

	k.Clear()
	assert.Empty(t, k.LoadState().LastNotes)
}

func TestWindowCacheImmediateSupersedesDebounced(t *testing.T) {
	c, _, clk := newTestCache(t, 0)
	wc := NewWindowCache(c, 500*time.Millisecond)

	dragged := map[types.AppID]types.Window{
		types.AppNotes: {ID: types.AppNotes, IsOpen: true, Position: types.Position{X: 120, Y: 80}},
	}
	closed := map[types.AppID]types.Window{
		types.AppNotes: {ID: types.AppNotes, IsOpen: false, Position: types.Position{X: 120, Y: 80}},
	}

	wc.SaveDebounced(dragged)
	assert.True(t, wc.Pending())

	require.True(t, wc.Save(closed))
	assert.False(t, wc.Pending())

	clk.Advance(time.Second)
	got, ok := wc.Load()
	require.True(t, ok)
	assert.False(t, got[types.AppNotes].IsOpen, "stale debounced write must not overwrite the immediate one")
}

// gatedBackend holds the first Set until release is closed
type gatedBackend struct {
	*storage.Memory
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedBackend) Set(key, value string) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.Memory.Set(key, value)
}

func TestWindowCacheSaveWaitsForInFlightDebouncedWrite(t *testing.T) {
	backend := &gatedBackend{
		Memory:  storage.NewMemory(0),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	clk := clock.NewManual(epoch)
	c := New(backend, Options{Clock: clk})
	t.Cleanup(c.Close)
	wc := NewWindowCache(c, 500*time.Millisecond)

	stale := map[types.AppID]types.Window{
		types.AppNotes: {ID: types.AppNotes, IsOpen: true, Position: types.Position{X: 1, Y: 1}},
	}
	fresh := map[types.AppID]types.Window{
		types.AppNotes: {ID: types.AppNotes, IsOpen: true, Position: types.Position{X: 120, Y: 80}},
	}

	wc.SaveDebounced(stale)
	go clk.Advance(time.Second)
	<-backend.entered

	var saved atomic.Bool
	done := make(chan bool, 1)
	go func() {
		ok := wc.Save(fresh)
		saved.Store(true)
		done <- ok
	}()
	assert.Never(t, saved.Load, 50*time.Millisecond, 5*time.Millisecond)

	close(backend.release)
	select {
	case ok := <-done:
		require.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Save did not return")
	}

	got, ok := wc.Load()
	require.True(t, ok)
	assert.Equal(t, types.Position{X: 120, Y: 80}, got[types.AppNotes].Position)
}

func TestWindowCacheFlush(t *testing.T) {
	c, _, _ := newTestCache(t, 0)
	wc := NewWindowCache(c, 500*time.Millisecond)

	_, ok := wc.Load()
	assert.False(t, ok)

	wc.SaveDebounced(map[types.AppID]types.Window{types.AppMusic: {ID: types.AppMusic, IsOpen: true}})
	wc.Flush()

	got, ok := wc.Load()
	require.True(t, ok)
	assert.True(t, got[types.AppMusic].IsOpen)
}
