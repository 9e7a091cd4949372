package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"khata-pos/internal/auth"
	"khata-pos/internal/middleware"
	"khata-pos/internal/models"
	"khata-pos/internal/stock"
)

// --- GET: Search the catalog ---
// ?q= matches part name, brand, barcode or compatible model; ?machine= filters by appliance.
func (h *Handler) GetProducts(c *gin.Context) {
	products := h.Store.Products(c.Query("q"), models.MachineType(c.Query("machine")))
	c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.Store.Product(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ScanProduct looks a barcode up without touching the cart.
func (h *Handler) ScanProduct(c *gin.Context) {
	p, err := h.Store.FindByBarcode(c.Param("barcode"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// SimilarProducts suggests in-stock alternatives for an out-of-stock part.
func (h *Handler) SimilarProducts(c *gin.Context) {
	list, err := h.Store.Similar(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type RevealRequest struct {
	Code string `json:"code"`
}

// RevealPrices shows the price tiers the entered code unlocks.
func (h *Handler) RevealPrices(c *gin.Context) {
	var req RevealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "Invalid input")
		return
	}
	reveal, err := h.Store.RevealPrices(c.Param("id"), req.Code)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reveal)
}

// --- POST: Add a new product ---
func (h *Handler) AddProduct(c *gin.Context) {
	var newProduct models.Product

	// 1. Parse JSON Input
	if err := c.ShouldBindJSON(&newProduct); err != nil {
		badInput(c, "Invalid input")
		return
	}

	// 2. Save (logs the opening stock)
	p, err := h.Store.AddProduct(newProduct)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// ProductUpdate is a full product plus the reason for a quantity change.
type ProductUpdate struct {
	models.Product
	Reason models.StockReason `json:"reason"`
}

// --- PUT: Update a product ---
// A stock change without a reason is parked; the client confirms it with a reason.
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req ProductUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "Invalid input")
		return
	}

	p, pending, err := h.Store.EditProduct(c.Param("id"), req.Product, req.Reason, userName(c))
	if errors.Is(err, stock.ErrReasonRequired) && pending != nil {
		c.JSON(http.StatusAccepted, gin.H{
			"message": err.Error(),
			"pending": pending,
			"reasons": models.StockReasons,
		})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": p})
}

type PriceUpdate struct {
	Field models.PriceField `json:"field" binding:"required,oneof=Purchase Technician Customer"`
	Value *float64          `json:"value" binding:"required"`
}

func (h *Handler) UpdatePrice(c *gin.Context) {
	var req PriceUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "field and value are required")
		return
	}
	p, err := h.Store.UpdatePrice(c.Param("id"), req.Field, *req.Value, userName(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) PendingEdits(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.PendingEdits())
}

type ConfirmRequest struct {
	Reason models.StockReason `json:"reason" binding:"required"`
}

// ConfirmEdit commits a parked stock change with its reason.
func (h *Handler) ConfirmEdit(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, "A reason is required")
		return
	}
	p, err := h.Store.ConfirmEdit(c.Param("id"), req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CancelEdit(c *gin.Context) {
	if err := h.Store.CancelEdit(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Edit discarded"})
}

// --- DELETE: Remove a product ---
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.Store.DeleteProduct(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// userName labels audit entries with the signed-in role.
func userName(c *gin.Context) string {
	role, _ := c.Get(middleware.RoleKey)
	if role == auth.RoleCashier {
		return "Cashier"
	}
	return "Admin"
}
