package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/clock"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/config"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/server"
)

func writeConfig(t *testing.T) (string, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "deskos.yaml")
	cacheDir := filepath.Join(dir, "cache")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  dir: "+cacheDir+"\n"), 0o644))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	return path, cfg
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCacheCommands(t *testing.T) {
	path, cfg := writeConfig(t)

	c, err := server.OpenCache(cfg.Cache, clock.System{}, nil, nil)
	require.NoError(t, err)
	require.True(t, c.Set("theme", "dark").OK)
	c.Close()

	out, err := run(t, "cache", "stats", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "portfolio_theme")
	assert.Contains(t, strings.ToLower(out), "1 items")

	out, err = run(t, "cache", "sweep", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Evicted 0 entries")

	out, err = run(t, "cache", "clear", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared portfolio_")

	out, err = run(t, "cache", "stats", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(out), "0 items")
}

func TestCacheCommandsNeedDirectory(t *testing.T) {
	_, err := run(t, "cache", "stats")
	assert.Error(t, err)
}
