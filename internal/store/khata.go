package store

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"khata-pos/internal/ledger"
	"khata-pos/internal/models"
	"khata-pos/internal/utils"
)

// appendLedger adds entries and re-derives every balance and trust score.
func (s *Store) appendLedger(entries ...models.LedgerEntry) {
	if len(entries) == 0 {
		return
	}
	for _, e := range entries {
		utils.LedgerPostingsTotal.WithLabelValues(string(e.Type)).Inc()
	}
	s.ledger = append(append([]models.LedgerEntry(nil), entries...), s.ledger...)
	ledger.Refresh(s.technicians, s.ledger)
}

func (s *Store) Technicians() []models.Technician {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Technician{}, s.technicians...)
}

// Technician returns one account with its statement, newest first.
func (s *Store) Technician(id string) (models.Technician, []models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.techIndex(id)
	if i < 0 {
		return models.Technician{}, nil, fmt.Errorf("technician %s: %w", id, ErrNotFound)
	}
	history := ledger.History(s.ledger, id)
	if history == nil {
		history = []models.LedgerEntry{}
	}
	return s.technicians[i], history, nil
}

// NewTechnician is the Khata account opening form.
type NewTechnician struct {
	Name           string  `json:"name"`
	Company        string  `json:"company"`
	Address        string  `json:"address"`
	Mobile         string  `json:"mobile"`
	Limit          float64 `json:"limit"`
	OpeningBalance float64 `json:"openingBalance"`
}

// AddTechnician opens an account. A non-zero opening balance is posted as the
// first ledger entry so the statement explains it.
func (s *Store) AddTechnician(in NewTechnician) (models.Technician, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.safeMode {
		return models.Technician{}, ErrSafeMode
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Technician{}, ErrInvalidTech
	}
	if in.Limit < 0 {
		return models.Technician{}, fmt.Errorf("%w: negative credit limit", ErrInvalidTech)
	}
	t := models.Technician{
		ID:      s.newID("T"),
		Name:    name,
		Company: strings.TrimSpace(in.Company),
		Address: strings.TrimSpace(in.Address),
		Mobile:  strings.TrimSpace(in.Mobile),
		Limit:   in.Limit,
	}
	s.technicians = append([]models.Technician{t}, s.technicians...)

	if in.OpeningBalance != 0 {
		kind := models.Debit
		amount := in.OpeningBalance
		if amount < 0 {
			kind, amount = models.Credit, -amount
		}
		e, err := ledger.NewEntry(s.newID("LG"), t.ID, amount, kind, ledger.OpeningBalanceLabel, s.now())
		if err != nil {
			s.technicians = s.technicians[1:]
			return models.Technician{}, err
		}
		s.appendLedger(e)
	} else {
		ledger.Refresh(s.technicians, s.ledger)
	}
	s.log.Info("new khata account", zap.String("id", t.ID), zap.String("name", t.Name))
	return s.technicians[0], nil
}

// PostLedger records a manual charge (Debit) or a payment received (Credit).
func (s *Store) PostLedger(technicianID string, amount float64, kind models.LedgerKind, description string) (models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.safeMode {
		return models.LedgerEntry{}, ErrSafeMode
	}
	if s.techIndex(technicianID) < 0 {
		return models.LedgerEntry{}, fmt.Errorf("technician %s: %w", technicianID, ErrNotFound)
	}
	e, err := ledger.NewEntry(s.newID("LG"), technicianID, amount, kind, description, s.now())
	if err != nil {
		return models.LedgerEntry{}, err
	}
	s.appendLedger(e)
	return e, nil
}

// Ledger returns every entry, newest first.
func (s *Store) Ledger() []models.LedgerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.LedgerEntry{}, s.ledger...)
}

// Bills returns saved bills, newest first.
func (s *Store) Bills() []models.Bill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneBills(s.bills)
}

func (s *Store) Bill(id string) (models.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bills {
		if b.ID == id {
			return b.Clone(), nil
		}
	}
	return models.Bill{}, fmt.Errorf("bill %s: %w", id, ErrNotFound)
}

// Inventory returns a deep copy of the full catalog.
func (s *Store) Inventory() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.inventory)
}
