package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ESTIMATE_SIDE_EFFECTS", "")
	t.Setenv("VOID_ALERT_THRESHOLD", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "A", cfg.Pricing.ManualCode)
	assert.Equal(t, 2000.0, cfg.Pricing.VoidAlertThreshold)
	assert.False(t, cfg.Pricing.EstimateSideEffects)
	assert.Equal(t, 90, cfg.Pricing.DeadStockDays)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("ESTIMATE_SIDE_EFFECTS", "true")
	t.Setenv("VOID_ALERT_THRESHOLD", "5000")
	t.Setenv("DEAD_STOCK_DAYS", "-3")
	t.Setenv("SCAN_INTERVAL", "500ms")
	t.Setenv("BARCODE_SOURCE", "STUB")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Pricing.EstimateSideEffects)
	assert.Equal(t, 5000.0, cfg.Pricing.VoidAlertThreshold)
	assert.Equal(t, 90, cfg.Pricing.DeadStockDays)
	assert.Equal(t, 500*time.Millisecond, cfg.Scanner.Interval)
	assert.Equal(t, "stub", cfg.Scanner.Source)
}
