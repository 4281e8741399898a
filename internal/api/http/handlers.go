package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/internal/domain/playback"
	"github.com/GriffinCanCode/DeskOS/internal/domain/store"
	"github.com/GriffinCanCode/DeskOS/internal/domain/window"
	"github.com/GriffinCanCode/DeskOS/internal/providers/contact"
)

const (
	serviceName = "DeskOS Session Service"
	Version     = "0.3.0"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	store         *store.Store
	contact       *contact.Client
	seekThreshold float64
	logger        *zap.Logger
}

// Options configures Handlers
type Options struct {
	// Contact may be nil; the contact route then answers 503
	Contact       *contact.Client
	SeekThreshold float64
	Logger        *zap.Logger
}

// NewHandlers creates a handler set over s
func NewHandlers(s *store.Store, opts Options) *Handlers {
	if opts.SeekThreshold <= 0 {
		opts.SeekThreshold = playback.DefaultSeekThreshold
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Handlers{
		store:         s,
		contact:       opts.Contact,
		seekThreshold: opts.SeekThreshold,
		logger:        opts.Logger.Named("http"),
	}
}

// Register mounts every route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	// State projections
	r.GET("/state", h.State)
	r.GET("/state/player", h.FullPlayer)
	r.GET("/state/mini-player", h.MiniPlayer)
	r.GET("/state/driver", h.DriverView)

	// Windows
	win := r.Group("/windows/:id")
	win.POST("/open", h.windowOp(h.store.OpenWindow))
	win.POST("/close", h.windowOp(h.store.CloseWindow))
	win.POST("/minimize", h.windowOp(h.store.MinimizeWindow))
	win.POST("/focus", h.windowOp(h.store.FocusWindow))
	win.POST("/fullscreen", h.windowOp(h.store.ToggleFullscreen))
	win.PUT("/position", h.UpdatePosition)
	win.PUT("/size", h.UpdateSize)

	r.POST("/mobile/:id/open", h.windowOp(h.store.OpenMobileApp))
	r.POST("/mobile/close", h.CloseMobile)

	// Preferences
	r.POST("/prefs/theme/toggle", h.prefOp(h.store.ToggleTheme))
	r.POST("/prefs/motion/toggle", h.prefOp(h.store.ToggleReduceMotion))
	r.PUT("/prefs/zoom", h.SetZoom)
	r.PUT("/prefs/help", h.SetHelp)

	// Music
	music := r.Group("/music")
	music.PUT("/tracks", h.LoadTracks)
	music.POST("/tracks/:index/select", h.SelectTrack)
	music.POST("/play", h.musicOp(h.store.Play))
	music.POST("/pause", h.musicOp(h.store.Pause))
	music.POST("/stop", h.musicOp(h.store.Stop))
	music.POST("/dismiss", h.musicOp(h.store.Dismiss))
	music.POST("/next", h.musicOp(h.store.Next))
	music.POST("/prev", h.musicOp(h.store.Prev))
	music.POST("/shuffle", h.musicOp(h.store.ToggleShuffle))
	music.POST("/repeat", h.musicOp(h.store.ToggleRepeat))
	music.PUT("/volume", h.SetVolume)
	music.PUT("/mini-player", h.SetMiniPlayer)

	// Media driver events
	driver := r.Group("/driver")
	driver.POST("/time", h.DriverTime)
	driver.POST("/duration", h.DriverDuration)
	driver.POST("/ended", h.musicOp(h.store.OnEnded))
	driver.POST("/error", h.DriverError)
	driver.POST("/plan", h.DriverPlan)

	// Cache and session
	r.GET("/cache/stats", h.CacheStats)
	r.DELETE("/cache", h.ClearCache)
	r.DELETE("/cache/expired", h.ClearExpired)
	r.POST("/session/reset", h.ResetSession)

	// Panels
	panels := r.Group("/panels")
	panels.GET("/notes", h.GetNotes)
	panels.PUT("/notes", h.SaveNotes)
	panels.PUT("/notes/scroll", h.SaveNotesScroll)
	panels.GET("/paint", h.GetPaint)
	panels.PUT("/paint", h.SavePaint)
	panels.PUT("/paint/canvas", h.SavePaintCanvas)
	panels.DELETE("/paint/canvas", h.ClearPaintCanvas)
	panels.GET("/kalimba", h.GetKalimba)
	panels.PUT("/kalimba", h.SaveKalimba)

	r.POST("/contact", h.Contact)
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": serviceName,
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"session": h.store.ID().String(),
		"cache":   h.store.Cache().Stats(),
		"contact": gin.H{"configured": h.contact != nil && h.contact.Configured()},
	})
}

// State returns the full desktop state
func (h *Handlers) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.State())
}

// FullPlayer returns the full player projection
func (h *Handlers) FullPlayer(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.FullPlayer())
}

// MiniPlayer returns the mini player projection
func (h *Handlers) MiniPlayer(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.MiniPlayer())
}

// DriverView returns what the media element should be doing
func (h *Handlers) DriverView(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.DriverView())
}

func (h *Handlers) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, window.ErrUnknownWindow) || errors.Is(err, playback.ErrTrackIndex) {
		status = http.StatusBadRequest
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Invalid request: " + err.Error(),
	})
}
