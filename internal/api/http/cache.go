package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CacheStats reports cache usage
func (h *Handlers) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   h.store.Cache().Stats(),
	})
}

// ClearCache removes every namespaced cache entry. In-memory state is kept.
func (h *Handlers) ClearCache(c *gin.Context) {
	ok := h.store.Cache().ClearAll()
	status := http.StatusOK
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"success": ok})
}

// ClearExpired sweeps expired and corrupt entries
func (h *Handlers) ClearExpired(c *gin.Context) {
	removed := h.store.Cache().ClearExpired()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"removed": removed,
	})
}

// ResetSession wipes persisted state and returns the store to its start
func (h *Handlers) ResetSession(c *gin.Context) {
	h.store.Reset()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"state":   h.store.State(),
	})
}
