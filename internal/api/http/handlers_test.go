package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/DeskOS/internal/domain/cache"
	"github.com/GriffinCanCode/DeskOS/internal/domain/playback"
	"github.com/GriffinCanCode/DeskOS/internal/domain/store"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/clock"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/storage"
	"github.com/GriffinCanCode/DeskOS/internal/providers/contact"
	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

var tracks = []types.Track{
	{ID: 1, Title: "One", Duration: 200, URL: "/audio/one.mp3"},
	{ID: 2, Title: "Two", Duration: 180, URL: "/audio/two.mp3"},
}

type fixture struct {
	router *gin.Engine
	store  *store.Store
	clk    *clock.Manual
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	c := cache.New(storage.NewMemory(0), cache.Options{Clock: clk})
	s := store.New(store.Options{Cache: c, Clock: clk, Tracks: tracks})
	t.Cleanup(s.Close)

	router := gin.New()
	NewHandlers(s, opts).Register(router)
	return &fixture{router: router, store: s, clk: clk}
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRootAndHealth(t *testing.T) {
	f := newFixture(t, Options{})

	w := f.do("GET", "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, Version, decode[map[string]any](t, w)["version"])

	w = f.do("GET", "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, f.store.ID().String(), body["session"])
}

func TestWindowRoutes(t *testing.T) {
	f := newFixture(t, Options{})

	w := f.do("POST", "/windows/notes/open", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Window         types.Window `json:"window"`
		ActiveWindowID string       `json:"activeWindowId"`
		MaxZIndex      int          `json:"maxZIndex"`
	}](t, w)
	assert.True(t, resp.Window.IsOpen)
	assert.Equal(t, "notes", resp.ActiveWindowID)
	assert.Equal(t, 2, resp.MaxZIndex)

	w = f.do("PUT", "/windows/notes/position", types.Position{X: 120, Y: 80})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.Position{X: 120, Y: 80}, f.store.State().Windows[types.AppNotes].Position)

	w = f.do("POST", "/windows/notes/fullscreen", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, f.store.State().Windows[types.AppNotes].IsFullscreen)

	w = f.do("POST", "/windows/notes/minimize", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, f.store.State().ActiveWindowID)
}

func TestWindowRouteErrors(t *testing.T) {
	f := newFixture(t, Options{})

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{name: "unknown id", method: "POST", path: "/windows/calculator/open"},
		{name: "unknown id on move", method: "PUT", path: "/windows/calculator/position", body: types.Position{X: 1, Y: 1}},
		{name: "missing coordinate", method: "PUT", path: "/windows/notes/position", body: map[string]int{"x": 1}},
		{name: "zero size", method: "PUT", path: "/windows/notes/size", body: types.Size{Width: 0, Height: 10}},
		{name: "unknown mobile app", method: "POST", path: "/mobile/calculator/open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, false, decode[map[string]any](t, w)["success"])
		})
	}
}

func TestMobileRoutes(t *testing.T) {
	f := newFixture(t, Options{})

	require.Equal(t, http.StatusOK, f.do("POST", "/mobile/music/open", nil).Code)
	require.NotNil(t, f.store.State().MobileActiveApp)

	require.Equal(t, http.StatusOK, f.do("POST", "/mobile/close", nil).Code)
	assert.Nil(t, f.store.State().MobileActiveApp)
}

func TestPreferenceRoutes(t *testing.T) {
	f := newFixture(t, Options{})

	w := f.do("POST", "/prefs/theme/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dark", decode[map[string]any](t, w)["theme"])

	require.Equal(t, http.StatusOK, f.do("POST", "/prefs/motion/toggle", nil).Code)
	require.Equal(t, http.StatusOK, f.do("PUT", "/prefs/zoom", types.ZoomRequest{Zoom: 125}).Code)
	require.Equal(t, http.StatusOK, f.do("PUT", "/prefs/help", map[string]bool{"value": true}).Code)
	assert.Equal(t, http.StatusBadRequest, f.do("PUT", "/prefs/zoom", types.ZoomRequest{Zoom: 400}).Code)

	st := f.store.State()
	assert.True(t, st.ReduceMotion)
	assert.Equal(t, 125, st.UIZoom)
	assert.True(t, st.ShowHelpModal)
}

func TestMusicRoutes(t *testing.T) {
	f := newFixture(t, Options{})

	w := f.do("POST", "/music/tracks/1/select", nil)
	require.Equal(t, http.StatusOK, w.Code)
	music := decode[struct {
		Music types.PlaybackSession `json:"music"`
	}](t, w).Music
	assert.Equal(t, 1, music.CurrentTrackIndex)
	assert.Equal(t, types.PlayPlaying, music.PlayState)

	require.Equal(t, http.StatusOK, f.do("POST", "/music/next", nil).Code)
	assert.Equal(t, 0, f.store.Playback().CurrentTrackIndex)

	require.Equal(t, http.StatusOK, f.do("PUT", "/music/volume", map[string]int{"volume": 150}).Code)
	assert.Equal(t, 100, f.store.Playback().Volume)

	require.Equal(t, http.StatusOK, f.do("POST", "/music/pause", nil).Code)
	assert.Equal(t, types.PlayPaused, f.store.Playback().PlayState)

	require.Equal(t, http.StatusOK, f.do("POST", "/music/dismiss", nil).Code)
	assert.False(t, f.store.Playback().ShowMiniPlayer)

	assert.Equal(t, http.StatusBadRequest, f.do("POST", "/music/tracks/9/select", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do("POST", "/music/tracks/first/select", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do("PUT", "/music/volume", map[string]int{}).Code)
}

func TestLoadTracksRoute(t *testing.T) {
	f := newFixture(t, Options{})

	next := []types.Track{{ID: 9, Title: "Solo", Duration: 60, URL: "/audio/solo.mp3"}}
	require.Equal(t, http.StatusOK, f.do("PUT", "/music/tracks", types.TracksRequest{Tracks: next}).Code)
	assert.Equal(t, next, f.store.Playback().Tracks)

	bad := []types.Track{{ID: 1, Title: "Broken", Duration: -1}}
	assert.Equal(t, http.StatusBadRequest, f.do("PUT", "/music/tracks", types.TracksRequest{Tracks: bad}).Code)
}

func TestDriverRoutes(t *testing.T) {
	f := newFixture(t, Options{})
	require.Equal(t, http.StatusOK, f.do("POST", "/music/play", nil).Code)

	assert.Equal(t, http.StatusNoContent, f.do("POST", "/driver/time", map[string]float64{"seconds": 42}).Code)
	assert.Equal(t, 42.0, f.store.Playback().CurrentTime)

	require.Equal(t, http.StatusOK, f.do("POST", "/driver/duration", map[string]float64{"seconds": 199}).Code)
	assert.Equal(t, 199.0, f.store.Playback().Duration)

	w := f.do("GET", "/state/driver", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[playback.DriverView](t, w)
	assert.Equal(t, "/audio/one.mp3", view.URL)

	w = f.do("POST", "/driver/plan", playback.Element{Paused: true, Volume: 0.8})
	require.Equal(t, http.StatusOK, w.Code)
	plan := decode[struct {
		Commands []playback.Command `json:"commands"`
	}](t, w).Commands
	require.NotEmpty(t, plan)
	assert.Equal(t, playback.CmdSetSource, plan[0].Kind)
	assert.Equal(t, playback.CmdPlay, plan[len(plan)-1].Kind)

	require.Equal(t, http.StatusOK, f.do("POST", "/driver/ended", nil).Code)
	assert.Equal(t, 1, f.store.Playback().CurrentTrackIndex)

	require.Equal(t, http.StatusOK, f.do("POST", "/driver/error", map[string]string{"message": "decode"}).Code)
	assert.Equal(t, types.PlayPaused, f.store.Playback().PlayState)
}

func TestPlayerProjections(t *testing.T) {
	f := newFixture(t, Options{})
	require.Equal(t, http.StatusOK, f.do("POST", "/music/tracks/0/select", nil).Code)

	full := decode[playback.FullPlayer](t, f.do("GET", "/state/player", nil))
	require.NotNil(t, full.Track)
	assert.Equal(t, "One", full.Track.Title)
	assert.True(t, full.IsPlaying)

	mini := decode[playback.MiniPlayer](t, f.do("GET", "/state/mini-player", nil))
	assert.True(t, mini.Visible)
	assert.Equal(t, "One", mini.Title)

	st := decode[types.DesktopState](t, f.do("GET", "/state", nil))
	assert.Equal(t, types.PlayPlaying, st.Music.PlayState)
}

func TestCacheAndSessionRoutes(t *testing.T) {
	f := newFixture(t, Options{})
	require.Equal(t, http.StatusOK, f.do("POST", "/windows/mail/open", nil).Code)

	stats := decode[struct {
		Stats types.CacheStats `json:"stats"`
	}](t, f.do("GET", "/cache/stats", nil)).Stats
	assert.Equal(t, 1, stats.TotalItems)
	assert.Contains(t, stats.ItemsByKey, cache.KeyWindowsState)

	w := f.do("DELETE", "/cache/expired", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode[map[string]any](t, w)["removed"])

	require.Equal(t, http.StatusOK, f.do("DELETE", "/cache", nil).Code)
	assert.Zero(t, f.store.Cache().Stats().TotalItems)
	assert.True(t, f.store.State().Windows[types.AppMail].IsOpen)

	require.Equal(t, http.StatusOK, f.do("POST", "/session/reset", nil).Code)
	assert.False(t, f.store.State().Windows[types.AppMail].IsOpen)
}

func TestPanelRoutes(t *testing.T) {
	f := newFixture(t, Options{})

	selected := 3
	require.Equal(t, http.StatusOK, f.do("PUT", "/panels/notes", cache.NotesUpdate{SelectedNoteID: &selected}).Code)
	assert.Equal(t, http.StatusAccepted, f.do("PUT", "/panels/notes/scroll", map[string]float64{"position": 250}).Code)
	f.clk.Advance(cache.DefaultScrollDebounce)

	notes := decode[cache.NotesState](t, f.do("GET", "/panels/notes", nil))
	require.NotNil(t, notes.SelectedNoteID)
	assert.Equal(t, 3, *notes.SelectedNoteID)
	assert.Equal(t, 250.0, notes.ScrollPosition)

	require.Equal(t, http.StatusOK, f.do("PUT", "/panels/paint", cache.PaintState{Color: "#ff0000", BrushSize: 8, Tool: cache.ToolEraser}).Code)
	assert.Equal(t, http.StatusBadRequest, f.do("PUT", "/panels/paint", cache.PaintState{Color: "#ff0000", BrushSize: 8, Tool: "spray"}).Code)
	assert.Equal(t, http.StatusAccepted, f.do("PUT", "/panels/paint/canvas", map[string]string{"dataUrl": "data:image/png;base64,AAAA"}).Code)

	paint := decode[cache.PaintState](t, f.do("GET", "/panels/paint", nil))
	assert.Equal(t, "#ff0000", paint.Color)
	assert.Equal(t, cache.ToolEraser, paint.Tool)
	require.NotNil(t, paint.CanvasData)

	require.Equal(t, http.StatusOK, f.do("DELETE", "/panels/paint/canvas", nil).Code)
	assert.Nil(t, decode[cache.PaintState](t, f.do("GET", "/panels/paint", nil)).CanvasData)

	kalimba := cache.KalimbaState{
		LastNotes: []string{"C4", "E4"},
		Sequences: []cache.Sequence{{Name: "intro", Notes: []string{"C4", "G4"}}},
	}
	require.Equal(t, http.StatusOK, f.do("PUT", "/panels/kalimba", kalimba).Code)
	assert.Equal(t, kalimba, decode[cache.KalimbaState](t, f.do("GET", "/panels/kalimba", nil)))
}

func TestPanelRoutesRejectMalformedPayloads(t *testing.T) {
	f := newFixture(t, Options{})

	assert.Equal(t, http.StatusBadRequest, f.do("PUT", "/panels/paint/canvas", map[string]string{"dataUrl": "not-a-data-url"}).Code)
	assert.Equal(t, http.StatusBadRequest, f.do("PUT", "/panels/kalimba", cache.KalimbaState{LastNotes: []string{"Z9"}}).Code)
	assert.Equal(t, http.StatusBadRequest, f.do("PUT", "/panels/kalimba", cache.KalimbaState{
		Sequences: []cache.Sequence{{Name: "bad", Notes: []string{"C5", "nope"}}},
	}).Code)

	secret := "a\x00b"
	assert.Equal(t, http.StatusBadRequest, f.do("PUT", "/panels/notes", cache.NotesUpdate{SecretAnswer: &secret}).Code)
	assert.Empty(t, decode[cache.KalimbaState](t, f.do("GET", "/panels/kalimba", nil)).LastNotes)
}

func TestContactRoute(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok"}`))
	}))
	defer relay.Close()

	client := contact.NewClient(contact.Options{Endpoint: relay.URL, Clock: clock.NewManual(time.Unix(0, 0))})
	f := newFixture(t, Options{Contact: client})

	msg := contact.Message{Name: "Ada", Email: "ada@example.com", Subject: "Hello there", Message: "A long enough message."}
	w := f.do("POST", "/contact", msg)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[map[string]any](t, w)["id"])

	msg.Email = "nope"
	w = f.do("POST", "/contact", msg)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decode[map[string]any](t, w)["error"])
}

func TestContactRouteUnconfigured(t *testing.T) {
	f := newFixture(t, Options{})

	w := f.do("POST", "/contact", contact.Message{})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "service_unavailable", decode[map[string]any](t, w)["error"])
}
