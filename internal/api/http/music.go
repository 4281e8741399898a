package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/DeskOS/internal/domain/playback"
	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

func (h *Handlers) respondMusic(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"music":   h.store.Playback(),
	})
}

func (h *Handlers) musicOp(op func()) gin.HandlerFunc {
	return func(c *gin.Context) {
		op()
		h.respondMusic(c)
	}
}

// LoadTracks replaces the playlist
func (h *Handlers) LoadTracks(c *gin.Context) {
	var req types.TracksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	for i, t := range req.Tracks {
		if t.Duration < 0 {
			badRequest(c, fmt.Errorf("track %d: negative duration", i))
			return
		}
	}
	h.store.LoadTracks(req.Tracks)
	h.respondMusic(c)
}

// SelectTrack jumps to a track and plays it
func (h *Handlers) SelectTrack(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, fmt.Errorf("track index %q is not a number", c.Param("index")))
		return
	}
	if err := h.store.SelectTrack(index); err != nil {
		h.fail(c, err)
		return
	}
	h.respondMusic(c)
}

// SetVolume sets the playback volume
func (h *Handlers) SetVolume(c *gin.Context) {
	var req types.VolumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.store.SetVolume(*req.Volume)
	h.respondMusic(c)
}

// SetMiniPlayer shows or hides the mini player
func (h *Handlers) SetMiniPlayer(c *gin.Context) {
	var req types.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.store.SetShowMiniPlayer(*req.Value)
	h.respondMusic(c)
}

// DriverTime records a media element time update
func (h *Handlers) DriverTime(c *gin.Context) {
	var req types.TimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.store.OnTimeUpdate(*req.Seconds)
	c.Status(http.StatusNoContent)
}

// DriverDuration records loaded metadata
func (h *Handlers) DriverDuration(c *gin.Context) {
	var req types.TimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.store.OnLoadedMetadata(*req.Seconds)
	h.respondMusic(c)
}

// DriverError reports a media failure
func (h *Handlers) DriverError(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.Message == "" {
		req.Message = "media error"
	}
	h.store.OnError(errors.New(req.Message))
	h.respondMusic(c)
}

// DriverPlan returns the commands that bring the reported element in line
// with the session
func (h *Handlers) DriverPlan(c *gin.Context) {
	var el playback.Element
	if err := c.ShouldBindJSON(&el); err != nil {
		badRequest(c, err)
		return
	}
	cmds := playback.Plan(el, h.store.Playback(), h.seekThreshold)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"commands": cmds,
	})
}
