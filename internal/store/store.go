// Package store owns all live shop state. Every change goes through a named
// method that holds the write lock for its whole duration.
package store

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"khata-pos/internal/auth"
	"khata-pos/internal/billing"
	"khata-pos/internal/feedback"
	"khata-pos/internal/models"
	"khata-pos/internal/stock"
	"khata-pos/internal/utils"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrSafeMode is returned for operational changes while data is untrusted.
	ErrSafeMode = errors.New("system is in safe mode: restore a backup first")
	// ErrAuthFailed is returned when a PIN does not authorize the action.
	ErrAuthFailed      = errors.New("incorrect PIN")
	ErrInvalidProduct  = errors.New("part name is required")
	ErrInvalidTech     = errors.New("technician name is required")
	ErrManualInactive  = errors.New("manual adjustment code is not active")
	ErrInvalidTechCode = errors.New("technician code cannot be empty")
	ErrInvalidBillType = errors.New("bill type must be Estimate or Final")
)

// PINKeeper checks and stores the admin PIN.
type PINKeeper interface {
	auth.Authorizer
	SetAdminPIN(pin string) error
	AdminHash() string
}

type Options struct {
	TechCode            string
	ManualCode          string
	VoidAlertThreshold  float64
	EstimateSideEffects bool
	DeadStockDays       int

	Player feedback.Player
	Logger *zap.Logger
	Now    func() time.Time
	NewID  func(prefix string) string
}

// session is the sale being rung up at the counter.
type session struct {
	cart         billing.Cart
	discount     *billing.Discount
	manualTotal  string
	manualDesc   string
	taxEnabled   bool
	returnReason string
}

type Store struct {
	mu sync.RWMutex

	pins     PINKeeper
	resolver *billing.Resolver
	pending  *stock.Pending
	player   feedback.Player
	log      *zap.Logger
	now      func() time.Time
	newID    func(prefix string) string
	opts     Options

	// collections are kept newest first, as in the backup file
	inventory    []models.Product
	bills        []models.Bill
	technicians  []models.Technician
	ledger       []models.LedgerEntry
	securityLogs []models.SecurityLog
	stockLogs    []models.StockLog
	priceLogs    []models.PriceLog

	safeMode     bool
	noBillNoExit bool
	session      session
}

func New(pins PINKeeper, opts Options) *Store {
	if opts.VoidAlertThreshold <= 0 {
		opts.VoidAlertThreshold = 2000
	}
	if opts.DeadStockDays <= 0 {
		opts.DeadStockDays = 90
	}
	if opts.Player == nil {
		opts.Player = feedback.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = utils.NewID
	}
	return &Store{
		pins:     pins,
		resolver: billing.NewResolver(opts.TechCode, opts.ManualCode),
		pending:  stock.NewPending(),
		player:   opts.Player,
		log:      opts.Logger,
		now:      opts.Now,
		newID:    opts.NewID,
		opts:     opts,
		session:  session{taxEnabled: true},
	}
}

// DeadStockDays is the idle period after which stock counts as dead.
func (s *Store) DeadStockDays() int { return s.opts.DeadStockDays }

func (s *Store) SafeMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.safeMode
}

// EnterSafeMode blocks operational changes until a backup is restored.
func (s *Store) EnterSafeMode(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enterSafeMode(reason)
}

func (s *Store) enterSafeMode(reason string) {
	s.safeMode = true
	s.logSecurity(models.EventSafeMode, "System booted in Safe Mode due to data error: "+reason, models.SeverityHigh)
	s.log.Error("🛑 safe mode", zap.String("reason", reason))
}

// LogSecurityEvent records a flagged operation.
func (s *Store) LogSecurityEvent(kind models.SecurityEventType, details string, severity models.Severity) models.SecurityLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logSecurity(kind, details, severity)
}

func (s *Store) logSecurity(kind models.SecurityEventType, details string, severity models.Severity) models.SecurityLog {
	entry := models.SecurityLog{
		ID:        s.newID("SEC"),
		Type:      kind,
		Details:   details,
		Timestamp: s.now(),
		Severity:  severity,
	}
	s.securityLogs = append([]models.SecurityLog{entry}, s.securityLogs...)
	utils.SecurityEventsTotal.WithLabelValues(string(kind)).Inc()
	s.log.Warn("security event", zap.String("type", string(kind)), zap.String("details", details))
	return entry
}

func (s *Store) addStockLogs(logs ...models.StockLog) {
	if len(logs) == 0 {
		return
	}
	for _, l := range logs {
		utils.StockAdjustmentsTotal.WithLabelValues(string(l.Reason)).Inc()
	}
	s.stockLogs = append(append([]models.StockLog(nil), logs...), s.stockLogs...)
}

func (s *Store) addPriceLogs(logs ...models.PriceLog) {
	if len(logs) == 0 {
		return
	}
	s.priceLogs = append(append([]models.PriceLog(nil), logs...), s.priceLogs...)
}

func (s *Store) SecurityLogs() []models.SecurityLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SecurityLog(nil), s.securityLogs...)
}

func (s *Store) StockLogs() []models.StockLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.StockLog(nil), s.stockLogs...)
}

func (s *Store) PriceLogs() []models.PriceLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PriceLog(nil), s.priceLogs...)
}

// NotificationCount is the number of security events awaiting review.
func (s *Store) NotificationCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, l := range s.securityLogs {
		if l.Severity != models.SeverityLow {
			n++
		}
	}
	return n
}

func (s *Store) productIndex(id string) int {
	for i := range s.inventory {
		if s.inventory[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) techIndex(id string) int {
	for i := range s.technicians {
		if s.technicians[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) lookup(id string) (models.Product, bool) {
	i := s.productIndex(id)
	if i < 0 {
		return models.Product{}, false
	}
	return s.inventory[i], true
}

func cloneProducts(in []models.Product) []models.Product {
	out := make([]models.Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

func cloneBills(in []models.Bill) []models.Bill {
	out := make([]models.Bill, len(in))
	for i, b := range in {
		out[i] = b.Clone()
	}
	return out
}
