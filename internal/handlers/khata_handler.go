package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"khata-pos/internal/models"
	"khata-pos/internal/store"
)

func (h *Handler) GetTechnicians(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Technicians())
}

// GetTechnician returns the account with its statement, newest first.
func (h *Handler) GetTechnician(c *gin.Context) {
	t, history, err := h.Store.Technician(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"technician": t, "history": history})
}

func (h *Handler) AddTechnician(c *gin.Context) {
	var req store.NewTechnician
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "Invalid input")
		return
	}
	t, err := h.Store.AddTechnician(req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

type LedgerRequest struct {
	Amount      float64           `json:"amount" binding:"required,gt=0"`
	Type        models.LedgerKind `json:"type" binding:"required,oneof=Debit Credit"`
	Description string            `json:"description"`
}

// PostLedgerEntry records a manual charge or a payment received.
func (h *Handler) PostLedgerEntry(c *gin.Context) {
	var req LedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Amount must be greater than zero and type Debit or Credit"})
		return
	}
	entry, err := h.Store.PostLedger(c.Param("id"), req.Amount, req.Type, req.Description)
	if err != nil {
		h.fail(c, err)
		return
	}
	t, _, err := h.Store.Technician(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry, "technician": t})
}
