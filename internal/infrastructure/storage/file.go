package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const fileExt = ".json"

// File stores each key as its own file under a directory.
// Values are loaded once at open and kept in memory; writes go through to disk.
type File struct {
	dir   string
	mu    sync.RWMutex
	cache map[string]string
	used  int64
	quota int64
}

// OpenFile opens or creates a file backend rooted at dir
func OpenFile(dir string, quota int64) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	f := &File{
		dir:   dir,
		cache: make(map[string]string),
		quota: quota,
	}
	if err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) load() error {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return fmt.Errorf("read storage dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(e.Name(), fileExt))
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(f.dir, e.Name()))
		if err != nil {
			return fmt.Errorf("read %s: %w", e.Name(), err)
		}
		f.cache[key] = string(data)
		f.used += entrySize(key, string(data))
	}
	return nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+fileExt)
}

// Get returns the value for key
func (f *File) Get(key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.cache[key]
	return v, ok, nil
}

// Set writes value to disk atomically and updates the in-memory view
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := f.used + entrySize(key, value)
	if old, ok := f.cache[key]; ok {
		next -= entrySize(key, old)
	}
	if f.quota > 0 && next > f.quota {
		return ErrQuotaExceeded
	}

	target := f.path(key)
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", key, err)
	}

	f.cache[key] = value
	f.used = next
	return nil
}

// Remove deletes key from disk and memory
func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	old, ok := f.cache[key]
	if !ok {
		return nil
	}
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	f.used -= entrySize(key, old)
	delete(f.cache, key)
	return nil
}

// Keys returns all keys in sorted order
func (f *File) Keys() ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	keys := make([]string, 0, len(f.cache))
	for k := range f.cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Usage returns current byte usage
func (f *File) Usage() Usage {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return Usage{Used: f.used, Quota: f.quota}
}

// Dir returns the root directory
func (f *File) Dir() string {
	return f.dir
}
