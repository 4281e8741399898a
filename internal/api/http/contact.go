package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/DeskOS/internal/providers/contact"
)

// Contact relays a contact form submission
func (h *Handlers) Contact(c *gin.Context) {
	if h.contact == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   contact.CodeServiceUnavailable,
			"message": "Contact relay not configured",
		})
		return
	}

	var msg contact.Message
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   contact.CodeValidation,
			"message": "Invalid request body",
		})
		return
	}

	receipt, err := h.contact.Send(c.Request.Context(), msg)
	if err != nil {
		status := http.StatusInternalServerError
		message := "An error occurred"
		var ce *contact.Error
		if errors.As(err, &ce) {
			status = ce.HTTPStatus()
			message = ce.Message
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   contact.CodeOf(err),
			"message": message,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      receipt.ID,
		"message": "Message sent successfully!",
	})
}
