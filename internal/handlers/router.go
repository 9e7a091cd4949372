package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"khata-pos/internal/auth"
	"khata-pos/internal/middleware"
)

// RouterOptions configures the outer HTTP surface.
type RouterOptions struct {
	AllowedOrigins []string
	WebDir         string
}

// NewRouter wires every route. Everything under /api needs a token; the
// back office additionally needs the admin role.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestMetrics(h.Log))

	// --- The Bridge Configuration (browser SPA on another origin) ---
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "online"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/login", h.Login)

	// 🚨 UNLOCKED ROUTE: the safe mode screen needs it before login
	r.GET("/api/system/status", h.GetSystemStatus)

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	api.Use(middleware.SafeModeGuard(h.Store))
	{
		// COUNTER & ADMIN
		api.GET("/products", h.GetProducts)
		api.GET("/products/scan/:barcode", h.ScanProduct)
		api.GET("/products/:id", h.GetProduct)
		api.GET("/products/:id/similar", h.SimilarProducts)
		api.POST("/products/:id/prices", h.RevealPrices)

		api.GET("/cart", h.GetCart)
		api.POST("/cart/items", h.AddCartItem)
		api.DELETE("/cart/items/:id", h.RemoveCartItem)
		api.POST("/cart/clear", h.ClearCart)
		api.PUT("/cart/return-mode", h.SetReturnMode)
		api.PUT("/cart/tax", h.SetTax)
		api.POST("/cart/code", h.ApplyCode)
		api.DELETE("/cart/code", h.RemoveCode)
		api.PUT("/cart/manual-total", h.SetManualTotal)
		api.POST("/checkout", h.Checkout)

		api.POST("/scanner/start", h.StartScanner)
		api.POST("/scanner/stop", h.StopScanner)
		api.POST("/scanner/codes", h.PushCode)

		api.GET("/technicians", h.GetTechnicians)
		api.GET("/technicians/:id", h.GetTechnician)
		api.POST("/technicians", h.AddTechnician)
		api.POST("/technicians/:id/entries", h.PostLedgerEntry)

		api.POST("/vision/analyze", h.AnalyzeImage)
		api.POST("/vision/voice", h.VoiceSearch)
		api.GET("/events", h.Events)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole(auth.RoleAdmin))
		{
			admin.POST("/ask", h.AskAI)

			admin.POST("/products", h.AddProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.PUT("/products/:id/price", h.UpdatePrice)
			admin.DELETE("/products/:id", h.DeleteProduct)
			admin.GET("/stock-edits", h.PendingEdits)
			admin.POST("/stock-edits/:id/confirm", h.ConfirmEdit)
			admin.DELETE("/stock-edits/:id", h.CancelEdit)

			admin.GET("/bills", h.GetBills)
			admin.GET("/bills/:id", h.GetBill)
			admin.GET("/bills/:id/pdf", h.GetBillPDF)
			admin.GET("/ledger", h.GetLedger)

			admin.GET("/dashboard", h.GetDashboard)
			admin.GET("/reports", h.GetReport)
			admin.GET("/reports/valuation", h.GetStockValuation)

			admin.GET("/logs/security", h.GetSecurityLogs)
			admin.GET("/logs/stock", h.GetStockLogs)
			admin.GET("/logs/price", h.GetPriceLogs)

			admin.GET("/settings", h.GetSettings)
			admin.PUT("/settings/pin", h.ChangeAdminPIN)
			admin.PUT("/settings/tech-code", h.SetTechCode)
			admin.PUT("/settings/no-bill-no-exit", h.SetNoBillNoExit)

			admin.GET("/backup/export", h.ExportBackup)
			admin.POST("/backup/import", h.ImportBackup)
			admin.GET("/backup/inventory", h.ExportInventory)
			admin.POST("/backup/inventory", h.ImportInventory)
			admin.POST("/backup/archive", h.SaveArchive)
			admin.GET("/backup/archive", h.ListArchive)
			admin.POST("/backup/archive/:id/restore", h.RestoreArchive)
		}
	}

	// --- DEPLOYMENT: Serve React Frontend ---
	if index := filepath.Join(opts.WebDir, "index.html"); opts.WebDir != "" && fileExists(index) {
		r.Static("/assets", filepath.Join(opts.WebDir, "assets"))
		// SPA Catch-All: a refresh on "/khata" serves index.html so React can route it.
		r.NoRoute(func(c *gin.Context) {
			c.File(index)
		})
	}

	return r
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
