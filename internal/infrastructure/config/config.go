package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LogConfig       `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Cache     CacheConfig     `yaml:"cache"`
	Coalesce  CoalesceConfig  `yaml:"coalesce"`
	Playback  PlaybackConfig  `yaml:"playback"`
	Contact   ContactConfig   `yaml:"contact"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8000" yaml:"port"`
	Host            string        `envconfig:"HOST" default:"127.0.0.1" yaml:"host"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" yaml:"shutdownTimeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" yaml:"requestsPerSecond"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" yaml:"enabled"`
}

// CacheConfig holds durable cache configuration.
type CacheConfig struct {
	Namespace string `envconfig:"CACHE_NAMESPACE" default:"portfolio_" yaml:"namespace"`
	// Dir selects the file backend; empty keeps state in memory
	Dir               string        `envconfig:"CACHE_DIR" default:"" yaml:"dir"`
	Quota             int64         `envconfig:"CACHE_QUOTA" default:"5242880" yaml:"quota"`
	SnapshotThreshold int           `envconfig:"CACHE_SNAPSHOT_THRESHOLD" default:"2097152" yaml:"snapshotThreshold"`
	SnapshotCeiling   int           `envconfig:"CACHE_SNAPSHOT_CEILING" default:"2097152" yaml:"snapshotCeiling"`
	SnapshotQuality   int           `envconfig:"CACHE_SNAPSHOT_QUALITY" default:"85" yaml:"snapshotQuality"`
	TotalSizeWarning  int64         `envconfig:"CACHE_SIZE_WARNING" default:"3145728" yaml:"totalSizeWarning"`
	MusicExpiry       time.Duration `envconfig:"CACHE_MUSIC_EXPIRY" default:"24h" yaml:"musicExpiry"`
	SweepInterval     time.Duration `envconfig:"CACHE_SWEEP_INTERVAL" default:"5m" yaml:"sweepInterval"`
}

// CoalesceConfig holds write coalescing intervals.
type CoalesceConfig struct {
	WindowDebounce time.Duration `envconfig:"WINDOW_DEBOUNCE" default:"500ms" yaml:"windowDebounce"`
	ScrollDebounce time.Duration `envconfig:"SCROLL_DEBOUNCE" default:"500ms" yaml:"scrollDebounce"`
	CanvasThrottle time.Duration `envconfig:"CANVAS_THROTTLE" default:"1500ms" yaml:"canvasThrottle"`
}

// PlaybackConfig holds audio session configuration.
type PlaybackConfig struct {
	TimeSampleInterval int     `envconfig:"PLAYBACK_SAMPLE_INTERVAL" default:"5" yaml:"timeSampleInterval"`
	SeekThreshold      float64 `envconfig:"PLAYBACK_SEEK_THRESHOLD" default:"0.5" yaml:"seekThreshold"`
	PlaylistPath       string  `envconfig:"PLAYLIST_PATH" default:"" yaml:"playlistPath"`
}

// ContactConfig holds contact relay configuration.
type ContactConfig struct {
	// Endpoint is the relay URL; empty disables the contact route
	Endpoint string        `envconfig:"CONTACT_ENDPOINT" default:"" yaml:"endpoint"`
	Timeout  time.Duration `envconfig:"CONTACT_TIMEOUT" default:"10s" yaml:"timeout"`
	Retries  int           `envconfig:"CONTACT_RETRIES" default:"2" yaml:"retries"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadFile loads configuration from the environment and overlays the YAML
// file at path. An empty path is the same as Load.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that envconfig cannot constrain.
func (c *Config) Validate() error {
	switch {
	case c.Cache.Quota < 0:
		return fmt.Errorf("cache quota must not be negative: %d", c.Cache.Quota)
	case c.Cache.SnapshotQuality < 1 || c.Cache.SnapshotQuality > 100:
		return fmt.Errorf("snapshot quality must be within 1..100: %d", c.Cache.SnapshotQuality)
	case c.Playback.TimeSampleInterval < 1:
		return fmt.Errorf("time sample interval must be positive: %d", c.Playback.TimeSampleInterval)
	case c.Contact.Retries < 0:
		return fmt.Errorf("contact retries must not be negative: %d", c.Contact.Retries)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "127.0.0.1",
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Cache: CacheConfig{
			Namespace:         "portfolio_",
			Quota:             5 << 20,
			SnapshotThreshold: 2 << 20,
			SnapshotCeiling:   2 << 20,
			SnapshotQuality:   85,
			TotalSizeWarning:  3 << 20,
			MusicExpiry:       24 * time.Hour,
			SweepInterval:     5 * time.Minute,
		},
		Coalesce: CoalesceConfig{
			WindowDebounce: 500 * time.Millisecond,
			ScrollDebounce: 500 * time.Millisecond,
			CanvasThrottle: 1500 * time.Millisecond,
		},
		Playback: PlaybackConfig{
			TimeSampleInterval: 5,
			SeekThreshold:      0.5,
		},
		Contact: ContactConfig{
			Timeout: 10 * time.Second,
			Retries: 2,
		},
	}
}
