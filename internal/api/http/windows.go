package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

func appID(c *gin.Context) types.AppID {
	return types.AppID(c.Param("id"))
}

func (h *Handlers) respondWindow(c *gin.Context, id types.AppID) {
	st := h.store.State()
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"window":          st.Windows[id],
		"activeWindowId":  st.ActiveWindowID,
		"maxZIndex":       st.MaxZIndex,
		"mobileActiveApp": st.MobileActiveApp,
	})
}

func (h *Handlers) windowOp(op func(types.AppID) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := appID(c)
		if err := op(id); err != nil {
			h.fail(c, err)
			return
		}
		h.respondWindow(c, id)
	}
}

// UpdatePosition moves a window
func (h *Handlers) UpdatePosition(c *gin.Context) {
	var req types.PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id := appID(c)
	if err := h.store.UpdatePosition(id, types.Position{X: *req.X, Y: *req.Y}); err != nil {
		h.fail(c, err)
		return
	}
	h.respondWindow(c, id)
}

// UpdateSize resizes a window
func (h *Handlers) UpdateSize(c *gin.Context) {
	var req types.SizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id := appID(c)
	if err := h.store.UpdateSize(id, types.Size{Width: req.Width, Height: req.Height}); err != nil {
		h.fail(c, err)
		return
	}
	h.respondWindow(c, id)
}

// CloseMobile leaves single-pane mode
func (h *Handlers) CloseMobile(c *gin.Context) {
	h.store.CloseMobileApp()
	c.JSON(http.StatusOK, gin.H{"success": true, "mobileActiveApp": nil})
}

func (h *Handlers) respondPrefs(c *gin.Context) {
	st := h.store.State()
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"theme":         st.Theme,
		"reduceMotion":  st.ReduceMotion,
		"uiZoom":        st.UIZoom,
		"showHelpModal": st.ShowHelpModal,
	})
}

func (h *Handlers) prefOp(op func()) gin.HandlerFunc {
	return func(c *gin.Context) {
		op()
		h.respondPrefs(c)
	}
}

// SetZoom sets the UI zoom
func (h *Handlers) SetZoom(c *gin.Context) {
	var req types.ZoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.store.SetUIZoom(req.Zoom)
	h.respondPrefs(c)
}

// SetHelp shows or hides the help modal
func (h *Handlers) SetHelp(c *gin.Context) {
	var req types.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.store.SetShowHelpModal(*req.Value)
	h.respondPrefs(c)
}
