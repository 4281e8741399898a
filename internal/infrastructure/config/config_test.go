package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "127.0.0.1:8000", cfg.Server.Addr())

	// Cache config
	assert.Equal(t, "portfolio_", cfg.Cache.Namespace)
	assert.Equal(t, int64(5<<20), cfg.Cache.Quota)
	assert.Equal(t, 24*time.Hour, cfg.Cache.MusicExpiry)

	// Coalesce config
	assert.Equal(t, 500*time.Millisecond, cfg.Coalesce.WindowDebounce)
	assert.Equal(t, 1500*time.Millisecond, cfg.Coalesce.CanvasThrottle)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	assert.NoError(t, cfg.Validate())
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                     "9000",
		"HOST":                     "0.0.0.0",
		"LOG_LEVEL":                "debug",
		"LOG_DEV":                  "true",
		"RATE_LIMIT_ENABLED":       "false",
		"CACHE_DIR":                "/var/lib/deskos",
		"CACHE_QUOTA":              "1024",
		"WINDOW_DEBOUNCE":          "250ms",
		"PLAYBACK_SAMPLE_INTERVAL": "10",
		"CONTACT_ENDPOINT":         "https://relay.example.com/contact",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "/var/lib/deskos", cfg.Cache.Dir)
	assert.Equal(t, int64(1024), cfg.Cache.Quota)
	assert.Equal(t, 250*time.Millisecond, cfg.Coalesce.WindowDebounce)
	assert.Equal(t, 10, cfg.Playback.TimeSampleInterval)
	assert.Equal(t, "https://relay.example.com/contact", cfg.Contact.Endpoint)
}

func TestLoadInvalidEnvironment(t *testing.T) {
	t.Setenv("CACHE_QUOTA", "lots")

	_, err := Load()
	assert.Error(t, err)

	cfg := LoadOrDefault()
	assert.Equal(t, Default(), cfg)
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deskos.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFileOverlay(t *testing.T) {
	t.Setenv("PORT", "9100")
	path := writeFile(t, `
server:
  host: 0.0.0.0
cache:
  namespace: test_
  quota: 2048
coalesce:
  canvasThrottle: 3s
playback:
  playlistPath: /etc/deskos/playlist.toml
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "test_", cfg.Cache.Namespace)
	assert.Equal(t, int64(2048), cfg.Cache.Quota)
	assert.Equal(t, 3*time.Second, cfg.Coalesce.CanvasThrottle)
	assert.Equal(t, 500*time.Millisecond, cfg.Coalesce.WindowDebounce)
	assert.Equal(t, "/etc/deskos/playlist.toml", cfg.Playback.PlaylistPath)
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown key", body: "server:\n  colour: blue\n"},
		{name: "malformed", body: "server: [\n"},
		{name: "invalid quality", body: "cache:\n  snapshotQuality: 0\n"},
		{name: "invalid sample interval", body: "playback:\n  timeSampleInterval: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFileEmptyPath(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
