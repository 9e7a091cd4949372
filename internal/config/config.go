package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Security SecurityConfig
	Pricing  PricingConfig
	AI       AIConfig
	Database DatabaseConfig
	Scanner  ScannerConfig
	Shop     ShopConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
	BootBackup     string
	SeedDemo       bool
	WebDir         string // built SPA; empty serves the API only
}

type SecurityConfig struct {
	JWTSecret  string
	AdminPIN   string
	CashierPIN string
}

type PricingConfig struct {
	TechCode            string
	ManualCode          string
	VoidAlertThreshold  float64
	EstimateSideEffects bool
	DeadStockDays       int
}

type AIConfig struct {
	GeminiAPIKey string
	Model        string
}

type DatabaseConfig struct {
	DSN string // empty disables the backup archive
}

type ScannerConfig struct {
	Source   string // "push" or "stub"
	Interval time.Duration
}

type ShopConfig struct {
	Name    string
	Tagline string
	GSTIN   string
	Phone   string
}

// Load reads .env (if present) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            getEnv("ENV", "development"),
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
			BootBackup:     getEnv("BOOT_BACKUP", ""),
			SeedDemo:       getBool("SEED_DEMO", true),
			WebDir:         getEnv("WEB_DIR", "./web"),
		},
		Security: SecurityConfig{
			JWTSecret:  getEnv("JWT_SECRET", "change_me_khata_pos_secret"),
			AdminPIN:   getEnv("ADMIN_PIN", "1234"),
			CashierPIN: getEnv("CASHIER_PIN", ""),
		},
		Pricing: PricingConfig{
			TechCode:            getEnv("TECH_CODE", "TECH99"),
			ManualCode:          getEnv("MANUAL_CODE", "A"),
			VoidAlertThreshold:  getFloat("VOID_ALERT_THRESHOLD", 2000),
			EstimateSideEffects: getBool("ESTIMATE_SIDE_EFFECTS", false),
			DeadStockDays:       getInt("DEAD_STOCK_DAYS", 90),
		},
		AI: AIConfig{
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			Model:        getEnv("GEMINI_MODEL", "gemini-2.0-flash-001"),
		},
		Database: DatabaseConfig{
			DSN: getEnv("DB_DSN", ""),
		},
		Scanner: ScannerConfig{
			Source:   strings.ToLower(getEnv("BARCODE_SOURCE", "push")),
			Interval: getDuration("SCAN_INTERVAL", 3*time.Second),
		},
		Shop: ShopConfig{
			Name:    getEnv("SHOP_NAME", "Nine Refrigeration & Spares"),
			Tagline: getEnv("SHOP_TAGLINE", "AC, Fridge & Washing Machine Spare Parts"),
			GSTIN:   getEnv("SHOP_GSTIN", ""),
			Phone:   getEnv("SHOP_PHONE", ""),
		},
	}

	log.Printf("Config loaded: env=%s, port=%s", cfg.Server.Env, cfg.Server.Port)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}

func getFloat(key string, defaultVal float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
