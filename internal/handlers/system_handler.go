package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetSystemStatus feeds the header bar and the safe mode screen
func (h *Handler) GetSystemStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"device_id":     h.Station,
		"sync_status":   "synced",
		"safe_mode":     h.Store.SafeMode(),
		"notifications": h.Store.NotificationCount(),
		"ai_enabled":    h.AI.Enabled(),
		"archive":       h.Archive != nil,
		"scanner":       h.session.Running(),
	})
}

func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Settings())
}

type PINChangeRequest struct {
	Current string `json:"current" binding:"required"`
	New     string `json:"new" binding:"required"`
}

// ChangeAdminPIN needs the current PIN even from an admin session.
func (h *Handler) ChangeAdminPIN(c *gin.Context) {
	var req PINChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "Current and new PIN are required")
		return
	}
	if err := h.Store.ChangeAdminPIN(req.Current, req.New); err != nil {
		h.fail(c, err)
		return
	}
	h.Log.Info("🔑 admin PIN changed", zap.String("station", h.Station))
	c.JSON(http.StatusOK, gin.H{"message": "PIN updated"})
}

type TechCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *Handler) SetTechCode(c *gin.Context) {
	var req TechCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "Code is required")
		return
	}
	if err := h.Store.SetTechCode(req.Code); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Store.Settings())
}

type ToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// SetNoBillNoExit locks cart clearing behind the admin PIN.
func (h *Handler) SetNoBillNoExit(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "Invalid input")
		return
	}
	h.Store.SetNoBillNoExit(req.Enabled)
	c.JSON(http.StatusOK, h.Store.Settings())
}

func (h *Handler) GetSecurityLogs(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.SecurityLogs())
}

func (h *Handler) GetStockLogs(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.StockLogs())
}

func (h *Handler) GetPriceLogs(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.PriceLogs())
}

func (h *Handler) GetLedger(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Ledger())
}
