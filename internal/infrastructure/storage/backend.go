package storage

import (
	"errors"
	"sort"
	"sync"
)

var (
	// ErrQuotaExceeded is returned when a write would exceed the backend quota
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrNotFound is returned by operations that require an existing key
	ErrNotFound = errors.New("key not found")
)

// Backend is a flat key/value space
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Keys() ([]string, error)
}

// Usage reports bytes used against the quota
type Usage struct {
	Used  int64
	Quota int64
}

// entrySize counts key and value bytes, the way browser storage quotas do
func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}

// Memory is an in-process backend
type Memory struct {
	mu    sync.RWMutex
	data  map[string]string
	used  int64
	quota int64
}

// NewMemory creates a memory backend. A quota <= 0 means unlimited.
func NewMemory(quota int64) *Memory {
	return &Memory{
		data:  make(map[string]string),
		quota: quota,
	}
}

// Get returns the value for key
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.used + entrySize(key, value)
	if old, ok := m.data[key]; ok {
		next -= entrySize(key, old)
	}
	if m.quota > 0 && next > m.quota {
		return ErrQuotaExceeded
	}

	m.data[key] = value
	m.used = next
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.data[key]; ok {
		m.used -= entrySize(key, old)
		delete(m.data, key)
	}
	return nil
}

// Keys returns all keys in sorted order
func (m *Memory) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Usage returns current byte usage
func (m *Memory) Usage() Usage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Usage{Used: m.used, Quota: m.quota}
}

// SetQuota changes the quota. Existing data is kept even if above it.
func (m *Memory) SetQuota(quota int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quota = quota
}
