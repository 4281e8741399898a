package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T, quota int64) map[string]Backend {
	t.Helper()
	f, err := OpenFile(t.TempDir(), quota)
	require.NoError(t, err)
	return map[string]Backend{
		"memory": NewMemory(quota),
		"file":   f,
	}
}

func TestBackendSetGetRemove(t *testing.T) {
	for name, b := range backends(t, 0) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := b.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, b.Set("portfolio_music", `{"value":1}`))
			v, ok, err := b.Get("portfolio_music")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"value":1}`, v)

			require.NoError(t, b.Set("portfolio_music", `{"value":2}`))
			v, _, _ = b.Get("portfolio_music")
			assert.Equal(t, `{"value":2}`, v)

			require.NoError(t, b.Remove("portfolio_music"))
			require.NoError(t, b.Remove("portfolio_music"))
			_, ok, _ = b.Get("portfolio_music")
			assert.False(t, ok)
		})
	}
}

func TestBackendKeysSorted(t *testing.T) {
	for name, b := range backends(t, 0) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Set("b", "2"))
			require.NoError(t, b.Set("a", "1"))
			require.NoError(t, b.Set("c/d", "3"))

			keys, err := b.Keys()
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b", "c/d"}, keys)
		})
	}
}

func TestBackendQuota(t *testing.T) {
	for name, b := range backends(t, 10) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Set("k", "12345"))
			assert.ErrorIs(t, b.Set("x", "123456789"), ErrQuotaExceeded)

			// previous value survives a rejected write
			v, ok, _ := b.Get("k")
			assert.True(t, ok)
			assert.Equal(t, "12345", v)

			// replacing an entry only counts the delta
			require.NoError(t, b.Set("k", "123456789"))

			require.NoError(t, b.Remove("k"))
			require.NoError(t, b.Set("x", "123456789"))
		})
	}
}

func TestFileReopen(t *testing.T) {
	dir := t.TempDir()

	f, err := OpenFile(dir, 0)
	require.NoError(t, err)
	require.NoError(t, f.Set("portfolio_windows", `{"value":{}}`))
	require.NoError(t, f.Set("portfolio_paint_canvas", "data"))
	require.NoError(t, f.Remove("portfolio_paint_canvas"))

	reopened, err := OpenFile(dir, 0)
	require.NoError(t, err)

	v, ok, err := reopened.Get("portfolio_windows")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"value":{}}`, v)

	keys, _ := reopened.Keys()
	assert.Equal(t, []string{"portfolio_windows"}, keys)
	assert.Equal(t, f.Usage(), reopened.Usage())
}

func TestFileEscapesKeys(t *testing.T) {
	dir := t.TempDir()
	f, err := OpenFile(dir, 0)
	require.NoError(t, err)

	require.NoError(t, f.Set("../escape", "x"))

	_, err = os.Stat(filepath.Join(dir, "..%2Fescape.json"))
	assert.NoError(t, err)

	entries, err := os.ReadDir(filepath.Dir(dir))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, "escape.json", e.Name())
	}
}

func TestMemoryUsage(t *testing.T) {
	m := NewMemory(0)
	require.NoError(t, m.Set("ab", "cd"))
	assert.Equal(t, Usage{Used: 4}, m.Usage())

	m.SetQuota(3)
	assert.ErrorIs(t, m.Set("e", "fgh"), ErrQuotaExceeded)
}
