package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"khata-pos/internal/store"
)

func (h *Handler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Cart())
}

type CartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// AddCartItem adds units of a product; a negative quantity decreases the line.
func (h *Handler) AddCartItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "productId is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	view, err := h.Store.AddToCart(req.ProductID, req.Quantity)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "cart": view})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.RemoveLine(c.Param("id")))
}

type ClearRequest struct {
	PIN string `json:"pin"`
}

// ClearCart voids the sale in progress. Needs the admin PIN when "no bill, no exit" is on.
func (h *Handler) ClearCart(c *gin.Context) {
	var req ClearRequest
	// an empty body is fine
	_ = c.ShouldBindJSON(&req)
	if err := h.Store.ClearCart(req.PIN); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Store.Cart())
}

type ReturnModeRequest struct {
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason"`
}

func (h *Handler) SetReturnMode(c *gin.Context) {
	var req ReturnModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "Invalid input")
		return
	}
	c.JSON(http.StatusOK, h.Store.SetReturnMode(req.Enabled, req.Reason))
}

type TaxRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *Handler) SetTax(c *gin.Context) {
	var req TaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "Invalid input")
		return
	}
	c.JSON(http.StatusOK, h.Store.SetTax(req.Enabled))
}

type CodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ApplyCode activates a technician, discount or manual-total code.
func (h *Handler) ApplyCode(c *gin.Context) {
	var req CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "Code is required")
		return
	}
	view, err := h.Store.ApplyCode(req.Code)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "cart": view})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) RemoveCode(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.RemoveCode())
}

type ManualTotalRequest struct {
	Total       string `json:"total" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) SetManualTotal(c *gin.Context) {
	var req ManualTotalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "Total is required")
		return
	}
	view, err := h.Store.SetManualTotal(req.Total, req.Description)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "cart": view})
		return
	}
	c.JSON(http.StatusOK, view)
}

// Checkout saves the cart as a bill. A rejected checkout changes nothing.
func (h *Handler) Checkout(c *gin.Context) {
	var req store.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "Invalid request body")
		return
	}

	bill, err := h.Store.Checkout(req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Sale successful!",
		"bill":    bill,
	})
}
