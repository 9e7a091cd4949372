package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"khata-pos/internal/auth"
	"khata-pos/internal/backup"
	"khata-pos/internal/barcode"
	"khata-pos/internal/billing"
	"khata-pos/internal/database"
	"khata-pos/internal/feedback"
	"khata-pos/internal/stock"
	"khata-pos/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2025, 6, 1, 11, 30, 0, 0, time.UTC)

type testEnv struct {
	store   *store.Store
	handler *Handler
	router  *gin.Engine
	admin   string
	cashier string
}

func newTestEnv(t *testing.T, mutate ...func(*Deps)) *testEnv {
	t.Helper()
	pins, err := auth.NewPINAuthorizer("1234", "5678")
	require.NoError(t, err)

	hub := feedback.NewHub(zap.NewNop())
	seq := 0
	s := store.New(pins, store.Options{
		TechCode: "TECH99",
		Player:   hub,
		Now:      func() time.Time { return testNow },
		NewID: func(prefix string) string {
			seq++
			return fmt.Sprintf("%s-%04d", prefix, seq)
		},
	})
	s.Seed()

	d := Deps{
		Store:   s,
		PINs:    pins,
		Hub:     hub,
		Station: "NINE-TEST",
		Now:     func() time.Time { return testNow },
	}
	for _, m := range mutate {
		m(&d)
	}
	h := New(d)
	t.Cleanup(h.Close)

	admin, err := auth.GenerateToken(auth.RoleAdmin, "NINE-TEST")
	require.NoError(t, err)
	cashier, err := auth.GenerateToken(auth.RoleCashier, "NINE-TEST")
	require.NoError(t, err)

	return &testEnv{store: s, handler: h, router: NewRouter(h, RouterOptions{}), admin: admin, cashier: cashier}
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func TestHealthAndStatus(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/health", "", nil).Code)

	w := env.do(http.MethodGet, "/api/system/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]any
	decode(t, w, &status)
	assert.Equal(t, "NINE-TEST", status["device_id"])
	assert.Equal(t, false, status["safe_mode"])
	assert.Equal(t, false, status["ai_enabled"])
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/login", "", gin.H{}).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/login", "", gin.H{"pin": "0000"}).Code)

	w := env.do(http.MethodPost, "/login", "", gin.H{"pin": "1234"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "admin", resp.Role)
	claims, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "NINE-TEST", claims.Station)

	w = env.do(http.MethodPost, "/login", "", gin.H{"pin": "5678"})
	decode(t, w, &resp)
	assert.Equal(t, "cashier", resp.Role)
}

func TestProductsNeedToken(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/products", "", nil).Code)

	w := env.do(http.MethodGet, "/api/products?q=samsung", env.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "2", list[0]["id"])

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/products/scan/LG-PCB-001", env.cashier, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/products/99", env.cashier, nil).Code)
}

func TestCashierCannotReachBackOffice(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/dashboard", "/api/bills", "/api/settings", "/api/backup/export"} {
		assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, path, env.cashier, nil).Code, path)
	}
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/dashboard", env.admin, nil).Code)
}

func TestRevealPrices(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/products/1/prices", env.cashier, gin.H{"code": "TECH99"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"technicianPrice":2800`)
	assert.NotContains(t, w.Body.String(), "purchasePrice")

	w = env.do(http.MethodPost, "/api/products/1/prices", env.cashier, gin.H{"code": "1234"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"purchasePrice":2200`)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/products/1/prices", env.cashier, gin.H{"code": "NOPE"}).Code)
}

func TestCartAndCheckout(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/checkout", env.cashier, gin.H{"type": "Final"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(http.MethodPost, "/api/cart/items", env.cashier, gin.H{"productId": "1", "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	var view store.CartView
	decode(t, w, &view)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)

	w = env.do(http.MethodPost, "/api/checkout", env.cashier, gin.H{
		"type":    "Final",
		"payment": gin.H{"mode": "Single", "method": "Cash"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Bill struct {
			ID           string  `json:"id"`
			CustomerName string  `json:"customerName"`
			Total        float64 `json:"total"`
		} `json:"bill"`
	}
	decode(t, w, &resp)
	assert.Equal(t, store.WalkInCustomer, resp.Bill.CustomerName)
	assert.Greater(t, resp.Bill.Total, 0.0)

	p, err := env.store.Product("1")
	require.NoError(t, err)
	assert.Equal(t, 13, p.StockQuantity)
	assert.Empty(t, env.store.Cart().Lines)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/bills/"+resp.Bill.ID, env.admin, nil).Code)
	w = env.do(http.MethodGet, "/api/bills/"+resp.Bill.ID+"/pdf", env.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestKhataCheckoutNeedsTechnician(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/cart/items", env.cashier, gin.H{"productId": "2"}).Code)

	w := env.do(http.MethodPost, "/api/checkout", env.cashier, gin.H{"payment": gin.H{"method": "Khata"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Len(t, env.store.Cart().Lines, 1)

	w = env.do(http.MethodPost, "/api/checkout", env.cashier, gin.H{"payment": gin.H{"method": "Khata", "technicianId": "T1"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	tech, history, err := env.store.Technician("T1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Greater(t, tech.Balance, 1250.0)
}

func TestInvalidCodeKeepsCart(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/cart/code", env.cashier, gin.H{"code": "BOGUS"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"cart"`)

	w = env.do(http.MethodPut, "/api/cart/manual-total", env.cashier, gin.H{"total": "100"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestClearCartWithNoBillNoExit(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusOK, env.do(http.MethodPut, "/api/settings/no-bill-no-exit", env.admin, gin.H{"enabled": true}).Code)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/cart/items", env.cashier, gin.H{"productId": "1"}).Code)

	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/api/cart/clear", env.cashier, gin.H{"pin": "5678"}).Code)
	assert.Len(t, env.store.Cart().Lines, 1)

	assert.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/cart/clear", env.cashier, gin.H{"pin": "1234"}).Code)
	assert.Empty(t, env.store.Cart().Lines)
}

func TestStockEditNeedsReason(t *testing.T) {
	env := newTestEnv(t)
	p, err := env.store.Product("1")
	require.NoError(t, err)
	p.StockQuantity = 20

	w := env.do(http.MethodPut, "/api/products/1", env.admin, p)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	var parked struct {
		Pending stock.PendingEdit `json:"pending"`
	}
	decode(t, w, &parked)
	assert.Equal(t, 5, parked.Pending.Change)

	unchanged, _ := env.store.Product("1")
	assert.Equal(t, 15, unchanged.StockQuantity)

	w = env.do(http.MethodPost, "/api/stock-edits/"+parked.Pending.ID+"/confirm", env.admin, gin.H{"reason": "Dancing"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(http.MethodPost, "/api/stock-edits/"+parked.Pending.ID+"/confirm", env.admin, gin.H{"reason": "Audit Correction"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated, _ := env.store.Product("1")
	assert.Equal(t, 20, updated.StockQuantity)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, "/api/stock-edits/"+parked.Pending.ID, env.admin, nil).Code)
}

func TestProductAdminCRUD(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/products", env.admin, gin.H{"partName": "Whirlpool Drain Pump", "machineType": "Washing Machine", "stockQuantity": 3})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	decode(t, w, &created)

	w = env.do(http.MethodPut, "/api/products/"+created.ID+"/price", env.admin, gin.H{"field": "Customer", "value": 950})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, env.store.PriceLogs(), 1)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPut, "/api/products/"+created.ID+"/price", env.admin, gin.H{"field": "Wholesale", "value": 1}).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, env.do(http.MethodPost, "/api/products", env.admin, gin.H{"partName": " "}).Code)

	assert.Equal(t, http.StatusOK, env.do(http.MethodDelete, "/api/products/"+created.ID, env.admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, "/api/products/"+created.ID, env.admin, nil).Code)
}

func TestLedgerEntries(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/technicians/T1/entries", env.cashier, gin.H{"amount": 250, "type": "Credit"})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Technician struct {
			Balance float64 `json:"balance"`
		} `json:"technician"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 1000.0, resp.Technician.Balance)

	assert.Equal(t, http.StatusUnprocessableEntity, env.do(http.MethodPost, "/api/technicians/T1/entries", env.cashier, gin.H{"amount": 0, "type": "Credit"}).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/technicians/T9/entries", env.cashier, gin.H{"amount": 10, "type": "Debit"}).Code)

	w = env.do(http.MethodGet, "/api/technicians/T1", env.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"history"`)

	w = env.do(http.MethodPost, "/api/technicians", env.cashier, gin.H{"name": "Vijay AC Works", "limit": 3000, "openingBalance": 500})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"balance":500`)
}

func TestReports(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/reports?range=all", env.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "All Time History")

	w = env.do(http.MethodGet, "/api/reports?range=today&format=pdf", env.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "report_2025-06-01.pdf")

	w = env.do(http.MethodGet, "/api/reports?range=all&format=xlsx", env.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []byte("PK"), w.Body.Bytes()[:2])

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/reports?range=custom&from=yesterday&to=2025-06-01", env.admin, nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/reports?format=doc", env.admin, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/reports/valuation", env.admin, nil).Code)
}

func TestBackupExportImport(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/backup/export", env.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), backup.FileName("khata_backup", testNow))
	exported := w.Body.Bytes()

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/backup/import", env.admin, []byte("not json")).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, env.do(http.MethodPost, "/api/backup/import", env.admin, []byte(`{"foo": 1}`)).Code)

	w = env.do(http.MethodPost, "/api/backup/import", env.admin, exported)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/backup/inventory", env.admin, []byte(`{"inventory": []}`)).Code)
	w = env.do(http.MethodPost, "/api/backup/inventory", env.admin, []byte(`[{"id":"9","partName":"Gas Valve","stockQuantity":2}]`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, env.store.Inventory(), 1)
}

func TestSafeModeRecovery(t *testing.T) {
	env := newTestEnv(t)
	exported, err := env.store.Export()
	require.NoError(t, err)

	env.store.EnterSafeMode("critical data corrupt")

	assert.Equal(t, http.StatusServiceUnavailable, env.do(http.MethodGet, "/api/cart", env.cashier, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/settings", env.admin, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/logs/security", env.admin, nil).Code)

	w := env.do(http.MethodGet, "/api/system/status", "", nil)
	assert.Contains(t, w.Body.String(), `"safe_mode":true`)

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/backup/import", env.admin, exported).Code)
	assert.False(t, env.store.SafeMode())
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/cart", env.cashier, nil).Code)
}

func TestArchiveNotConfigured(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusServiceUnavailable, env.do(http.MethodGet, "/api/backup/archive", env.admin, nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, env.do(http.MethodPost, "/api/backup/archive", env.admin, gin.H{}).Code)
}

func TestArchiveSaveAndRestore(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	env := newTestEnv(t, func(d *Deps) { d.Archive = database.NewArchive(db) })

	w := env.do(http.MethodPost, "/api/backup/archive", env.admin, gin.H{"note": "before audit"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var rec struct {
		ID   uint   `json:"id"`
		Kind string `json:"kind"`
	}
	decode(t, w, &rec)
	assert.Equal(t, KindFull, rec.Kind)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/backup/archive", env.admin, gin.H{"kind": "weekly"}).Code)

	w = env.do(http.MethodGet, "/api/backup/archive", env.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "before audit")

	require.NoError(t, env.store.DeleteProduct("2"))
	w = env.do(http.MethodPost, fmt.Sprintf("/api/backup/archive/%d/restore", rec.ID), env.admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, env.store.Inventory(), 2)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/backup/archive/999/restore", env.admin, nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/backup/archive/abc/restore", env.admin, nil).Code)
}

func TestAIWithoutKey(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusServiceUnavailable, env.do(http.MethodPost, "/api/ask", env.admin, gin.H{"message": "stock?"}).Code)

	w := env.do(http.MethodPost, "/api/vision/analyze", env.cashier, gin.H{"image": "abcd"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"detection":null`)

	w = env.do(http.MethodPost, "/api/vision/voice", env.cashier, gin.H{"query": "samsung"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Matches []map[string]any `json:"matches"`
	}
	decode(t, w, &resp)
	assert.Len(t, resp.Matches, 1)
}

func TestSuggestNarrowsByBrand(t *testing.T) {
	env := newTestEnv(t)

	assert.Len(t, env.handler.suggest("Compressor", "samsung", "Fridge"), 1)
	assert.Len(t, env.handler.suggest("Compressor", "Whirlpool", ""), 1)
	assert.Len(t, env.handler.suggest("Relay", "LG", "Toaster"), 1)
}

func TestPushCodeWithoutSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/scanner/codes", env.cashier, gin.H{"code": "LG-PCB-001"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, env.store.Cart().Lines, 1)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/scanner/codes", env.cashier, gin.H{"code": "NOPE"}).Code)
	assert.Equal(t, http.StatusServiceUnavailable, env.do(http.MethodPost, "/api/scanner/start", env.cashier, nil).Code)
}

func TestScannerSessionQueuesCodes(t *testing.T) {
	push := barcode.NewPushSource(4)
	env := newTestEnv(t, func(d *Deps) {
		d.Push = push
		d.Scanner = barcode.NewScanner(push, func(code string) { _, _ = d.Store.ScanCode(code) }, nil)
	})

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/scanner/start", env.cashier, nil).Code)

	w := env.do(http.MethodPost, "/api/scanner/codes", env.cashier, gin.H{"code": "SAM-CMP-002"})
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Eventually(t, func() bool { return len(env.store.Cart().Lines) == 1 }, time.Second, 10*time.Millisecond)

	w = env.do(http.MethodPost, "/api/scanner/stop", env.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stopped":true`)
}

func TestEventsStream(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+env.cashier)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		env.router.ServeHTTP(w, req)
	}()

	require.Eventually(t, func() bool { return env.handler.Hub.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	env.handler.Hub.Play(feedback.AddToCart)
	cancel()
	<-done

	body := w.Body.String()
	assert.Contains(t, body, "event:ready")
	assert.Contains(t, body, "data:add-to-cart")
	assert.Equal(t, 0, env.handler.Hub.Subscribers())
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		store.ErrNotFound:                      http.StatusNotFound,
		database.ErrBackupNotFound:             http.StatusNotFound,
		store.ErrSafeMode:                      http.StatusServiceUnavailable,
		store.ErrAuthFailed:                    http.StatusForbidden,
		billing.ErrInvalidCode:                 http.StatusBadRequest,
		billing.ErrSplitMismatch:               http.StatusUnprocessableEntity,
		stock.ErrInvalidReason:                 http.StatusUnprocessableEntity,
		fmt.Errorf("x: %w", store.ErrNotFound): http.StatusNotFound,
		errors.New("disk full"):                http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusFor(err), err.Error())
	}
}
