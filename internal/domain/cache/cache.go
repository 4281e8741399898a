package cache

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/bytedance/sonic"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/clock"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/storage"
	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

const (
	DefaultNamespace        = "portfolio_"
	DefaultSnapshotLimit    = 2 * 1024 * 1024
	DefaultSnapshotQuality  = 85
	DefaultTotalSizeWarning = 3 * 1024 * 1024
	DefaultSweepInterval    = 5 * time.Minute
)

// json mirrors encoding/json output (sorted map keys, HTML escaping) so
// stored envelopes are stable across writes.
var json = sonic.ConfigStd

// Options configures a Cache
type Options struct {
	Namespace string
	Clock     clock.Clock
	Logger    *zap.Logger
	Metrics   *monitoring.Metrics

	// SnapshotThreshold is the size above which snapshots are re-encoded
	SnapshotThreshold int
	// SnapshotCeiling is the size above which a write is flagged Oversized
	SnapshotCeiling int
	// SnapshotQuality is the JPEG quality (1-100) used for re-encoding
	SnapshotQuality int

	TotalSizeWarning int64
	SweepInterval    time.Duration
}

func (o *Options) withDefaults() {
	if o.Namespace == "" {
		o.Namespace = DefaultNamespace
	}
	if o.Clock == nil {
		o.Clock = clock.System{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.SnapshotThreshold <= 0 {
		o.SnapshotThreshold = DefaultSnapshotLimit
	}
	if o.SnapshotCeiling <= 0 {
		o.SnapshotCeiling = DefaultSnapshotLimit
	}
	if o.SnapshotQuality <= 0 || o.SnapshotQuality > 100 {
		o.SnapshotQuality = DefaultSnapshotQuality
	}
	if o.TotalSizeWarning <= 0 {
		o.TotalSizeWarning = DefaultTotalSizeWarning
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = DefaultSweepInterval
	}
}

// WriteResult describes the outcome of a write
type WriteResult struct {
	OK        bool `json:"ok"`
	Size      int  `json:"size"`
	Retried   bool `json:"retried,omitempty"`
	Oversized bool `json:"oversized,omitempty"`
}

type envelope[T any] struct {
	Value     T      `json:"value"`
	Timestamp int64  `json:"timestamp"`
	ExpiresAt *int64 `json:"expiresAt,omitempty"`
}

// header decodes the envelope metadata without the value
type header struct {
	Timestamp int64  `json:"timestamp"`
	ExpiresAt *int64 `json:"expiresAt,omitempty"`
}

// Cache is a namespaced, typed view over a storage backend
type Cache struct {
	backend storage.Backend
	opts    Options
	logger  *zap.Logger
	metrics *monitoring.Metrics

	sweepMu    sync.Mutex
	sweepTimer clock.Timer
	closed     bool
}

// New creates a cache over backend
func New(backend storage.Backend, opts Options) *Cache {
	opts.withDefaults()
	return &Cache{
		backend: backend,
		opts:    opts,
		logger:  opts.Logger.Named("cache"),
		metrics: opts.Metrics,
	}
}

// Namespace returns the key prefix
func (c *Cache) Namespace() string {
	return c.opts.Namespace
}

// Clock returns the clock used for timestamps
func (c *Cache) Clock() clock.Clock {
	return c.opts.Clock
}

// Logger returns the cache logger
func (c *Cache) Logger() *zap.Logger {
	return c.logger
}

func (c *Cache) fullKey(key string) string {
	return c.opts.Namespace + key
}

func (c *Cache) nowMillis() int64 {
	return c.opts.Clock.Now().UnixMilli()
}

// Get reads key into T, returning def when the entry is absent, expired or
// undecodable. Expired and corrupt entries are evicted.
func Get[T any](c *Cache, key string, def T) T {
	v, ok := Lookup[T](c, key)
	if !ok {
		return def
	}
	return v
}

// Lookup is Get with an explicit presence flag
func Lookup[T any](c *Cache, key string) (T, bool) {
	var zero T
	full := c.fullKey(key)

	raw, ok, err := c.backend.Get(full)
	if err != nil {
		c.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		c.metrics.RecordCacheOp("get", "error")
		return zero, false
	}
	if !ok || raw == "" {
		c.metrics.RecordCacheOp("get", "miss")
		return zero, false
	}

	var env envelope[T]
	if err := json.UnmarshalFromString(raw, &env); err != nil {
		c.logger.Error("Corrupt cache entry evicted", zap.String("key", key), zap.Error(err))
		c.evict(full, "corrupt")
		c.metrics.RecordCacheOp("get", "corrupt")
		return zero, false
	}

	if env.ExpiresAt != nil && c.nowMillis() > *env.ExpiresAt {
		c.evict(full, "expired")
		c.metrics.RecordCacheOp("get", "expired")
		return zero, false
	}

	c.metrics.RecordCacheOp("get", "hit")
	return env.Value, true
}

func (c *Cache) evict(full, reason string) {
	if err := c.backend.Remove(full); err != nil {
		c.logger.Warn("Cache eviction failed", zap.String("key", full), zap.Error(err))
		return
	}
	c.metrics.RecordEviction(reason, 1)
}

// Set writes value under key without expiry
func (c *Cache) Set(key string, value any) WriteResult {
	return c.SetWithExpiry(key, value, 0)
}

// SetWithExpiry writes value under key. A ttl <= 0 never expires.
func (c *Cache) SetWithExpiry(key string, value any, ttl time.Duration) WriteResult {
	full := c.fullKey(key)

	data, err := c.encode(value, ttl)
	if err != nil {
		c.logger.Error("Cache encode failed", zap.String("key", key), zap.Error(err))
		c.metrics.RecordCacheOp("set", "failed")
		return WriteResult{}
	}

	res := WriteResult{Size: len(data)}
	if len(data) > c.opts.SnapshotCeiling {
		res.Oversized = true
		c.logger.Warn("Cache item is large, storage limit may be exceeded",
			zap.String("key", key),
			zap.Float64("size_mb", float64(len(data))/1024/1024))
	}

	err = c.backend.Set(full, data)
	if errors.Is(err, storage.ErrQuotaExceeded) {
		c.logger.Warn("Storage quota exceeded, sweeping expired entries", zap.String("key", key))
		c.ClearExpired()
		res.Retried = true

		// fresh timestamp for the retry
		if data, err = c.encode(value, ttl); err == nil {
			res.Size = len(data)
			err = c.backend.Set(full, data)
		}
	}
	if err != nil {
		c.logger.Error("Cache write dropped", zap.String("key", key), zap.Bool("retried", res.Retried), zap.Error(err))
		c.metrics.RecordCacheOp("set", "failed")
		return res
	}

	res.OK = true
	if res.Retried {
		c.metrics.RecordCacheOp("set", "retried")
	} else {
		c.metrics.RecordCacheOp("set", "ok")
	}
	return res
}

func (c *Cache) encode(value any, ttl time.Duration) (string, error) {
	now := c.nowMillis()
	env := envelope[any]{Value: value, Timestamp: now}
	if ttl > 0 {
		exp := now + ttl.Milliseconds()
		env.ExpiresAt = &exp
	}
	return json.MarshalToString(env)
}

// Remove deletes a single key
func (c *Cache) Remove(key string) bool {
	if err := c.backend.Remove(c.fullKey(key)); err != nil {
		c.logger.Warn("Cache remove failed", zap.String("key", key), zap.Error(err))
		return false
	}
	c.metrics.RecordCacheOp("remove", "ok")
	return true
}

// RemoveMatching deletes every key matching a glob pattern (e.g. "music_*")
// and returns how many were removed.
func (c *Cache) RemoveMatching(pattern string) (int, error) {
	if !doublestar.ValidatePattern(pattern) {
		return 0, fmt.Errorf("invalid key pattern %q", pattern)
	}

	keys, err := c.Keys()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range keys {
		if ok, _ := doublestar.Match(pattern, key); !ok {
			continue
		}
		if c.Remove(key) {
			removed++
		}
	}
	return removed, nil
}

// Keys lists keys under the namespace with the prefix stripped
func (c *Cache) Keys() ([]string, error) {
	all, err := c.backend.Keys()
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	ns := c.opts.Namespace
	return lo.FilterMap(all, func(k string, _ int) (string, bool) {
		if !strings.HasPrefix(k, ns) {
			return "", false
		}
		return strings.TrimPrefix(k, ns), true
	}), nil
}

// ClearAll removes every key under the namespace. Keys outside the namespace
// are untouched. Safe to call on an empty cache.
func (c *Cache) ClearAll() bool {
	keys, err := c.Keys()
	if err != nil {
		c.logger.Error("Failed to clear cache", zap.Error(err))
		return false
	}

	ok := true
	for _, key := range keys {
		if err := c.backend.Remove(c.fullKey(key)); err != nil {
			c.logger.Warn("Cache remove failed", zap.String("key", key), zap.Error(err))
			ok = false
		}
	}
	c.logger.Info("Cleared cached items", zap.Int("count", len(keys)))
	c.metrics.RecordCacheOp("clear", lo.Ternary(ok, "ok", "partial"))
	return ok
}

// ClearExpired evicts expired and corrupt entries and returns the count
func (c *Cache) ClearExpired() int {
	keys, err := c.Keys()
	if err != nil {
		c.logger.Error("Failed to clear expired cache", zap.Error(err))
		return 0
	}

	now := c.nowMillis()
	cleared := 0
	for _, key := range keys {
		full := c.fullKey(key)
		raw, ok, err := c.backend.Get(full)
		if err != nil || !ok {
			continue
		}

		var h header
		if !json.Valid([]byte(raw)) || json.UnmarshalFromString(raw, &h) != nil {
			c.evict(full, "corrupt")
			cleared++
			continue
		}
		if h.ExpiresAt != nil && now > *h.ExpiresAt {
			c.evict(full, "expired")
			cleared++
		}
	}

	if cleared > 0 {
		c.logger.Info("Cleared expired cached items", zap.Int("count", cleared))
	}
	return cleared
}

// Stats reports item count and byte sizes under the namespace
func (c *Cache) Stats() types.CacheStats {
	stats := types.CacheStats{ItemsByKey: make(map[string]int)}

	keys, err := c.Keys()
	if err != nil {
		c.logger.Error("Failed to get cache stats", zap.Error(err))
		return stats
	}
	for _, key := range keys {
		raw, ok, err := c.backend.Get(c.fullKey(key))
		if err != nil || !ok {
			continue
		}
		stats.TotalItems++
		stats.TotalSize += int64(len(raw))
		stats.ItemsByKey[key] = len(raw)
	}

	c.metrics.SetCacheBytes(stats.TotalSize)
	return stats
}
