package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/DeskOS/internal/api/http"
	"github.com/GriffinCanCode/DeskOS/internal/api/middleware"
	"github.com/GriffinCanCode/DeskOS/internal/api/ws"
	"github.com/GriffinCanCode/DeskOS/internal/domain/cache"
	"github.com/GriffinCanCode/DeskOS/internal/domain/playback"
	"github.com/GriffinCanCode/DeskOS/internal/domain/store"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/clock"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/config"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/logging"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/storage"
	"github.com/GriffinCanCode/DeskOS/internal/providers/contact"
	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

// StreamPath is the websocket route. It bypasses response compression.
const StreamPath = "/stream"

// Server wraps the HTTP server and dependencies
type Server struct {
	config  *config.Config
	logger  *logging.Logger
	metrics *monitoring.Metrics
	cache   *cache.Cache
	store   *store.Store
	router  *gin.Engine
	handler http.Handler
}

// Option adjusts server construction
type Option func(*deps)

type deps struct {
	logger *logging.Logger
	clock  clock.Clock
}

// WithLogger replaces the logger built from config
func WithLogger(l *logging.Logger) Option {
	return func(d *deps) { d.logger = l }
}

// WithClock drives coalescers and cache expiry from c
func WithClock(c clock.Clock) Option {
	return func(d *deps) { d.clock = c }
}

// OpenBackend selects the file backend when a cache directory is configured
func OpenBackend(cfg config.CacheConfig) (storage.Backend, error) {
	if cfg.Dir == "" {
		return storage.NewMemory(cfg.Quota), nil
	}
	f, err := storage.OpenFile(cfg.Dir, cfg.Quota)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache dir %s: %w", cfg.Dir, err)
	}
	return f, nil
}

// OpenCache builds the namespaced cache described by cfg
func OpenCache(cfg config.CacheConfig, c clock.Clock, logger *zap.Logger, metrics *monitoring.Metrics) (*cache.Cache, error) {
	backend, err := OpenBackend(cfg)
	if err != nil {
		return nil, err
	}
	return cache.New(backend, cache.Options{
		Namespace:         cfg.Namespace,
		Clock:             c,
		Logger:            logger,
		Metrics:           metrics,
		SnapshotThreshold: cfg.SnapshotThreshold,
		SnapshotCeiling:   cfg.SnapshotCeiling,
		SnapshotQuality:   cfg.SnapshotQuality,
		TotalSizeWarning:  cfg.TotalSizeWarning,
		SweepInterval:     cfg.SweepInterval,
	}), nil
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := deps{clock: clock.System{}}
	for _, opt := range opts {
		opt(&d)
	}
	logger := d.logger
	if logger == nil {
		l, err := logging.New(logging.FromConfig(cfg.Logging))
		if err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
		logger = l
	}

	logger.Info("Initializing DeskOS server",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("namespace", cfg.Cache.Namespace),
		zap.Bool("file_backend", cfg.Cache.Dir != ""),
	)

	metrics := monitoring.NewMetrics()

	c, err := OpenCache(cfg.Cache, d.clock, logger.Logger, metrics)
	if err != nil {
		return nil, err
	}
	c.Initialize()

	var tracks []types.Track
	if cfg.Playback.PlaylistPath != "" {
		tracks, err = playback.LoadPlaylist(cfg.Playback.PlaylistPath)
		if err != nil {
			c.Close()
			return nil, err
		}
		logger.Info("Loaded playlist",
			zap.String("path", cfg.Playback.PlaylistPath),
			zap.Int("tracks", len(tracks)))
	}

	s := store.New(store.Options{
		Cache:              c,
		Clock:              d.clock,
		Logger:             logger.Logger,
		Metrics:            metrics,
		Tracks:             tracks,
		WindowDebounce:     cfg.Coalesce.WindowDebounce,
		ScrollDebounce:     cfg.Coalesce.ScrollDebounce,
		CanvasThrottle:     cfg.Coalesce.CanvasThrottle,
		MusicExpiry:        cfg.Cache.MusicExpiry,
		TimeSampleInterval: cfg.Playback.TimeSampleInterval,
	})

	var relay *contact.Client
	if cfg.Contact.Endpoint != "" {
		relay = contact.NewClient(contact.Options{
			Endpoint: cfg.Contact.Endpoint,
			Timeout:  cfg.Contact.Timeout,
			Retries:  cfg.Contact.Retries,
			Clock:    d.clock,
			Logger:   logger.Logger,
			Metrics:  metrics,
		})
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Logger))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	handlers := apihttp.NewHandlers(s, apihttp.Options{
		Contact:       relay,
		SeekThreshold: cfg.Playback.SeekThreshold,
		Logger:        logger.Logger,
	})
	handlers.Register(router)

	wsHandler := ws.NewHandler(s, ws.Options{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || middleware.AllowedOrigin(middleware.DefaultCORSConfig(), origin)
		},
		Metrics: metrics,
		Logger:  logger.Logger,
	})
	router.GET(StreamPath, wsHandler.HandleConnection)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	mux := http.NewServeMux()
	mux.Handle(StreamPath, router)
	mux.Handle("/", gzhttp.GzipHandler(router))

	logger.Info("Server initialized successfully")

	return &Server{
		config:  cfg,
		logger:  logger,
		metrics: metrics,
		cache:   c,
		store:   s,
		router:  router,
		handler: mux,
	}, nil
}

// Handler returns the root handler, compression included
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Store returns the session store
func (s *Server) Store() *store.Store {
	return s.store
}

// Metrics returns the server's metrics
func (s *Server) Metrics() *monitoring.Metrics {
	return s.metrics
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.Server.Addr(),
		Handler: s.handler,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// Close flushes pending writes and releases the cache
func (s *Server) Close() error {
	s.store.Close()
	s.cache.Close()
	s.logger.Info("Server closed")
	return s.logger.Close()
}
