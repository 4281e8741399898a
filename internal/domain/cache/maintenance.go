package cache

import (
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

// Initialize sweeps expired entries, reports namespace size and starts the
// periodic sweep. Call once at startup; Close stops the sweep.
func (c *Cache) Initialize() types.CacheStats {
	cleared := c.ClearExpired()
	stats := c.Stats()

	c.logger.Info("Cache initialized",
		zap.Int("items_cleared", cleared),
		zap.Int("total_items", stats.TotalItems),
		zap.Float64("total_size_kb", float64(stats.TotalSize)/1024))

	if stats.TotalSize > c.opts.TotalSizeWarning {
		c.logger.Warn("Total cache size is large, consider resetting the cache",
			zap.Float64("total_size_mb", float64(stats.TotalSize)/1024/1024))
	}

	c.scheduleSweep()
	return stats
}

func (c *Cache) scheduleSweep() {
	c.sweepMu.Lock()
	defer c.sweepMu.Unlock()

	if c.closed || c.sweepTimer != nil {
		return
	}
	c.sweepTimer = c.opts.Clock.AfterFunc(c.opts.SweepInterval, c.sweep)
}

func (c *Cache) sweep() {
	if n := c.ClearExpired(); n > 0 {
		c.logger.Debug("Periodic cleanup removed expired items", zap.Int("count", n))
	}

	c.sweepMu.Lock()
	c.sweepTimer = nil
	c.sweepMu.Unlock()
	c.scheduleSweep()
}

// Close stops the periodic sweep
func (c *Cache) Close() {
	c.sweepMu.Lock()
	defer c.sweepMu.Unlock()

	c.closed = true
	if c.sweepTimer != nil {
		c.sweepTimer.Stop()
		c.sweepTimer = nil
	}
}
