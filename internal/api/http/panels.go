package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/DeskOS/internal/domain/cache"
	"github.com/GriffinCanCode/DeskOS/internal/shared/utils"
)

// GetNotes returns the notes panel state
func (h *Handlers) GetNotes(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Notes().LoadState())
}

// SaveNotes writes the notes panel state
func (h *Handlers) SaveNotes(c *gin.Context) {
	var req cache.NotesUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.SecretAnswer != nil {
		if err := utils.ValidateString(*req.SecretAnswer, "secretAnswer", 0, utils.MaxSecretLength, false); err != nil {
			badRequest(c, err)
			return
		}
	}
	ok := h.store.Notes().SaveState(req)
	c.JSON(http.StatusOK, gin.H{"success": ok, "notes": h.store.Notes().LoadState()})
}

// SaveNotesScroll records a scroll position once scrolling settles
func (h *Handlers) SaveNotesScroll(c *gin.Context) {
	var req struct {
		Position *float64 `json:"position" binding:"required,min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.store.Notes().SaveScrollDebounced(*req.Position)
	c.Status(http.StatusAccepted)
}

// GetPaint returns the paint panel state
func (h *Handlers) GetPaint(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Paint().LoadState())
}

// SavePaint writes paint settings and an optional canvas
func (h *Handlers) SavePaint(c *gin.Context) {
	var req cache.PaintState
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ok := h.store.Paint().SaveState(req)
	c.JSON(http.StatusOK, gin.H{"success": ok})
}

// SavePaintCanvas queues a throttled canvas snapshot
func (h *Handlers) SavePaintCanvas(c *gin.Context) {
	var req struct {
		DataURL string `json:"dataUrl" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateCanvas(req.DataURL); err != nil {
		badRequest(c, err)
		return
	}
	h.store.Paint().SaveCanvasThrottled(req.DataURL)
	c.Status(http.StatusAccepted)
}

// ClearPaintCanvas drops the stored canvas
func (h *Handlers) ClearPaintCanvas(c *gin.Context) {
	h.store.Paint().ClearCanvas()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetKalimba returns the kalimba panel state
func (h *Handlers) GetKalimba(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Kalimba().LoadState())
}

// SaveKalimba writes the kalimba panel state
func (h *Handlers) SaveKalimba(c *gin.Context) {
	var req cache.KalimbaState
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := validateKalimba(req); err != nil {
		badRequest(c, err)
		return
	}
	ok := h.store.Kalimba().SaveState(req)
	c.JSON(http.StatusOK, gin.H{"success": ok})
}

func validateKalimba(s cache.KalimbaState) error {
	if err := utils.ValidateNotes(s.LastNotes, "lastNotes", utils.MaxLastNotes); err != nil {
		return err
	}
	if len(s.Sequences) > utils.MaxSequenceCount {
		return fmt.Errorf("sequences must not exceed %d entries", utils.MaxSequenceCount)
	}
	for _, seq := range s.Sequences {
		if err := utils.ValidateString(seq.Name, "sequence name", 1, utils.MaxSequenceName, true); err != nil {
			return err
		}
		if err := utils.ValidateNotes(seq.Notes, seq.Name, utils.MaxSequenceLength); err != nil {
			return err
		}
	}
	return nil
}
