package store

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"khata-pos/internal/auth"
	"khata-pos/internal/backup"
	"khata-pos/internal/feedback"
	"khata-pos/internal/ledger"
	"khata-pos/internal/models"
)

// Snapshot captures every collection for a full backup. The admin PIN is
// exported as its hash.
func (s *Store) Snapshot() *backup.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inventory := cloneProducts(s.inventory)
	bills := cloneBills(s.bills)
	techs := append([]models.Technician{}, s.technicians...)
	entries := append([]models.LedgerEntry{}, s.ledger...)
	security := append([]models.SecurityLog{}, s.securityLogs...)
	stockLogs := append([]models.StockLog{}, s.stockLogs...)
	priceLogs := append([]models.PriceLog{}, s.priceLogs...)
	pin := s.pins.AdminHash()
	techCode := s.resolver.TechCode

	return &backup.Snapshot{
		Inventory:    &inventory,
		Bills:        &bills,
		Technicians:  &techs,
		Ledger:       &entries,
		AdminPIN:     &pin,
		TechCode:     &techCode,
		SecurityLogs: &security,
		StockLogs:    &stockLogs,
		PriceLogs:    &priceLogs,
	}
}

// Restore replaces every collection present in snap and leaves safe mode.
// Absent collections are kept. Balances from the file are authoritative: each
// technician's opening balance is reconciled against the ledger afterwards.
func (s *Store) Restore(snap *backup.Snapshot) error {
	if snap == nil {
		return backup.ErrNoKnownKeys
	}
	var pinHash string
	if snap.AdminPIN != nil && strings.TrimSpace(*snap.AdminPIN) != "" {
		h, err := auth.HashPIN(*snap.AdminPIN)
		if err != nil {
			return err
		}
		pinHash = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if pinHash != "" {
		if err := s.pins.SetAdminPIN(pinHash); err != nil {
			return err
		}
	}
	if snap.Inventory != nil {
		s.inventory = cloneProducts(*snap.Inventory)
	}
	if snap.Bills != nil {
		s.bills = cloneBills(*snap.Bills)
	}
	if snap.Technicians != nil {
		s.technicians = append([]models.Technician{}, *snap.Technicians...)
	}
	if snap.Ledger != nil {
		s.ledger = append([]models.LedgerEntry{}, *snap.Ledger...)
	}
	if snap.TechCode != nil && strings.TrimSpace(*snap.TechCode) != "" {
		s.resolver.TechCode = strings.ToUpper(strings.TrimSpace(*snap.TechCode))
	}
	if snap.SecurityLogs != nil {
		s.securityLogs = append([]models.SecurityLog{}, *snap.SecurityLogs...)
	}
	if snap.StockLogs != nil {
		s.stockLogs = append([]models.StockLog{}, *snap.StockLogs...)
	}
	if snap.PriceLogs != nil {
		s.priceLogs = append([]models.PriceLog{}, *snap.PriceLogs...)
	}

	ledger.Reconcile(s.technicians, s.ledger)
	for _, e := range s.pending.List() {
		s.pending.Drop(e.Product.ID)
	}
	s.resetSession()
	s.safeMode = false
	s.player.Play(feedback.Sync)
	s.log.Info("✅ backup restored",
		zap.Int("products", len(s.inventory)),
		zap.Int("bills", len(s.bills)),
		zap.Int("technicians", len(s.technicians)))
	return nil
}

// Import decodes and restores a full backup file. Nothing changes on error.
func (s *Store) Import(data []byte) error {
	snap, err := backup.Decode(data)
	if err != nil {
		return err
	}
	return s.Restore(snap)
}

// Export encodes a full backup file.
func (s *Store) Export() ([]byte, error) {
	return backup.Encode(s.Snapshot(), s.now())
}

func (s *Store) ExportInventory() ([]byte, error) {
	return backup.EncodeInventory(s.Inventory())
}

// ImportInventory replaces the catalog with a product list file.
func (s *Store) ImportInventory(data []byte) (int, error) {
	products, err := backup.DecodeInventory(data)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory = cloneProducts(products)
	for _, e := range s.pending.List() {
		s.pending.Drop(e.Product.ID)
	}
	s.session.cart.Reset()
	s.player.Play(feedback.Sync)
	return len(products), nil
}

// ErrBootData is returned by Boot when the boot backup cannot seed the shop.
var ErrBootData = errors.New("critical data corrupt")

// Boot loads the startup backup. Data that is unreadable or lacks inventory
// or technicians puts the store into safe mode instead.
func (s *Store) Boot(data []byte) error {
	snap, err := backup.Decode(data)
	if err == nil {
		inv, techs := snap.Has()
		if !inv || !techs {
			err = ErrBootData
		}
	}
	if err != nil {
		s.EnterSafeMode(err.Error())
		return err
	}
	return s.Restore(snap)
}
