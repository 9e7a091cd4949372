package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"khata-pos/internal/auth"
)

type LoginRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// Login exchanges the admin or cashier PIN for a session token.
func (h *Handler) Login(c *gin.Context) {
	var input LoginRequest
	// 1. Validate Input JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, "PIN is required")
		return
	}

	// 2. Verify the PIN (bcrypt)
	role, err := h.PINs.Authorize(input.PIN)
	if err != nil {
		h.Log.Warn("🔒 failed login", zap.String("station", h.Station))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect PIN"})
		return
	}

	// 3. Generate JWT Token bound to this counter
	token, err := auth.GenerateToken(role, h.Station)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// 4. Success! Return Token and Role
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"role":    role,
		"station": h.Station,
	})
}
