package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"khata-pos/internal/render"
	"khata-pos/internal/reports"
)

// --- GET: /api/dashboard ---
func (h *Handler) GetDashboard(c *gin.Context) {
	d := reports.BuildDashboard(h.Store.Bills(), h.Store.Inventory(), h.Now(), h.Store.DeadStockDays())
	c.JSON(http.StatusOK, d)
}

// --- GET: /api/reports?range=today|custom|all&from=&to=&format=json|pdf|xlsx ---
func (h *Handler) GetReport(c *gin.Context) {
	var period reports.Period
	if err := c.ShouldBindQuery(&period); err != nil {
		badInput(c, "Invalid report range")
		return
	}

	// 1. Build the summary for the period
	now := h.Now()
	summary, err := reports.Summarize(period, h.Store.Bills(), h.Store.Inventory(), h.Store.Technicians(), now, h.Store.DeadStockDays())
	if err != nil {
		h.fail(c, err)
		return
	}

	// 2. Render in the requested format
	name := "report_" + now.Format("2006-01-02")
	switch strings.ToLower(c.DefaultQuery("format", "json")) {
	case "pdf":
		data, err := render.ReportPDF(h.Shop, summary)
		if err != nil {
			h.fail(c, err)
			return
		}
		attachment(c, "application/pdf", name+".pdf", data)
	case "xlsx":
		data, err := render.ReportXLSX(h.Shop, summary)
		if err != nil {
			h.fail(c, err)
			return
		}
		attachment(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", name+".xlsx", data)
	case "json":
		c.JSON(http.StatusOK, summary)
	default:
		badInput(c, "format must be json, pdf or xlsx")
	}
}

// --- GET: /api/reports/valuation ---
// GetStockValuation groups the stock value at purchase price by machine type
func (h *Handler) GetStockValuation(c *gin.Context) {
	c.JSON(http.StatusOK, reports.StockValuation(h.Store.Inventory()))
}

func (h *Handler) GetBills(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Bills())
}

func (h *Handler) GetBill(c *gin.Context) {
	bill, err := h.Store.Bill(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

// GetBillPDF prints one bill (estimate or final invoice).
func (h *Handler) GetBillPDF(c *gin.Context) {
	bill, err := h.Store.Bill(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	data, err := render.BillPDF(h.Shop, bill)
	if err != nil {
		h.fail(c, err)
		return
	}
	attachment(c, "application/pdf", "bill_"+bill.ID+".pdf", data)
}
