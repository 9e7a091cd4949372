package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"khata-pos/internal/ai"
	"khata-pos/internal/auth"
	"khata-pos/internal/barcode"
	"khata-pos/internal/config"
	"khata-pos/internal/database"
	"khata-pos/internal/feedback"
	"khata-pos/internal/handlers"
	"khata-pos/internal/render"
	"khata-pos/internal/store"
	"khata-pos/internal/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.SyncLogger()
	logger := utils.GetLogger()

	// 1. Counter identity and PINs
	auth.SetSecret(cfg.Security.JWTSecret)
	pins, err := auth.NewPINAuthorizer(cfg.Security.AdminPIN, cfg.Security.CashierPIN)
	if err != nil {
		logger.Fatal("invalid PIN configuration", zap.Error(err))
	}
	station := utils.StationID()

	// 2. Live shop state
	hub := feedback.NewHub(logger)
	st := store.New(pins, store.Options{
		TechCode:            cfg.Pricing.TechCode,
		ManualCode:          cfg.Pricing.ManualCode,
		VoidAlertThreshold:  cfg.Pricing.VoidAlertThreshold,
		EstimateSideEffects: cfg.Pricing.EstimateSideEffects,
		DeadStockDays:       cfg.Pricing.DeadStockDays,
		Player:              hub,
		Logger:              logger,
	})
	boot(st, cfg, logger)

	// 3. Optional collaborators
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var archive *database.Archive
	if db, err := database.Connect(cfg.Database.DSN); err == nil {
		archive = database.NewArchive(db)
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
	} else if !errors.Is(err, database.ErrNoDSN) {
		logger.Warn("⚠️ backup archive unavailable", zap.Error(err))
	}

	aiClient, err := ai.NewClient(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model, logger)
	if err != nil {
		logger.Info("🤖 AI features disabled", zap.Error(err))
	}
	defer aiClient.Close()

	push, scanner := newScanner(st, cfg, logger)

	// 4. HTTP
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	h := handlers.New(handlers.Deps{
		Store:   st,
		PINs:    pins,
		Archive: archive,
		AI:      aiClient,
		Hub:     hub,
		Scanner: scanner,
		Push:    push,
		Shop: render.ShopInfo{
			Name:    cfg.Shop.Name,
			Tagline: cfg.Shop.Tagline,
			GSTIN:   cfg.Shop.GSTIN,
			Phone:   cfg.Shop.Phone,
		},
		Station: station,
		Log:     logger,
		Context: ctx,
	})
	router := handlers.NewRouter(h, handlers.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		WebDir:         cfg.Server.WebDir,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// event streams end when a shutdown signal arrives
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		logger.Info("🚀 Server starting", zap.String("port", cfg.Server.Port), zap.String("station", station))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server forced to shutdown", zap.Error(err))
	}
	h.Close()

	logger.Info("Server exited")
}

// boot loads the startup backup, or the demo data on a fresh install.
// A bad backup leaves the store in safe mode so the owner can restore one.
func boot(st *store.Store, cfg *config.Config, logger *zap.Logger) {
	if path := cfg.Server.BootBackup; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			st.EnterSafeMode("boot backup unreadable: " + err.Error())
			logger.Error("🛑 safe mode: boot backup unreadable", zap.String("path", path), zap.Error(err))
			return
		}
		if err := st.Boot(data); err != nil {
			logger.Error("🛑 safe mode: boot backup rejected", zap.String("path", path), zap.Error(err))
			return
		}
		logger.Info("✅ boot backup loaded", zap.String("path", path))
		return
	}
	if cfg.Server.SeedDemo {
		st.Seed()
		logger.Info("🌱 demo catalog loaded")
	}
}

// newScanner builds the configured barcode source. Only the push source
// accepts codes through the API.
func newScanner(st *store.Store, cfg *config.Config, logger *zap.Logger) (*barcode.PushSource, *barcode.Scanner) {
	handle := func(code string) {
		p, err := st.ScanCode(code)
		if err != nil {
			logger.Info("scan not added", zap.String("code", code), zap.Error(err))
			return
		}
		logger.Debug("scan added", zap.String("code", code), zap.String("product", p.PartName))
	}

	if cfg.Scanner.Source == "stub" {
		var codes []string
		for _, p := range st.Inventory() {
			if p.Barcode != "" {
				codes = append(codes, p.Barcode)
			}
		}
		logger.Info("📷 stub barcode source", zap.Int("codes", len(codes)), zap.Duration("interval", cfg.Scanner.Interval))
		return nil, barcode.NewScanner(barcode.NewStubSource(codes, cfg.Scanner.Interval), handle, logger)
	}

	push := barcode.NewPushSource(16)
	return push, barcode.NewScanner(push, handle, logger)
}
