package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// StartScanner begins a background scanning session.
func (h *Handler) StartScanner(c *gin.Context) {
	if h.Scanner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No barcode source configured"})
		return
	}
	started := h.session.Start(h.Context, h.Scanner)
	c.JSON(http.StatusOK, gin.H{"running": true, "started": started})
}

func (h *Handler) StopScanner(c *gin.Context) {
	stopped := h.session.Stop()
	c.JSON(http.StatusOK, gin.H{"running": false, "stopped": stopped})
}

type ScanRequest struct {
	Code string `json:"code" binding:"required"`
}

// PushCode accepts a code read by a handheld scanner or the browser camera.
// While a session runs the code is queued for it (repeats are debounced);
// otherwise it is looked up and added to the cart straight away.
func (h *Handler) PushCode(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "Code is required")
		return
	}
	code := strings.TrimSpace(req.Code)

	if h.Push != nil && h.session.Running() {
		if !h.Push.Push(code) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Scanner is busy, try again"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"queued": code})
		return
	}

	p, err := h.Store.ScanCode(code)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p, "cart": h.Store.Cart()})
}
