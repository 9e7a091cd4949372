// Package ledger implements the Khata: an append-only log of debits and
// credits per technician, with balances and trust derived from it.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"khata-pos/internal/models"
)

var (
	// ErrInvalidAmount is returned for zero, negative or non-finite amounts.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInvalidKind is returned for an entry type other than Debit or Credit.
	ErrInvalidKind = errors.New("entry type must be Debit or Credit")
)

const (
	DefaultDebitDescription  = "Manual Charge"
	DefaultCreditDescription = "Payment Received"
	OpeningBalanceLabel      = "Opening Balance"
)

// NewEntry validates and builds one entry. The id is supplied by the caller.
func NewEntry(id, technicianID string, amount float64, kind models.LedgerKind, description string, at time.Time) (models.LedgerEntry, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return models.LedgerEntry{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	if kind != models.Debit && kind != models.Credit {
		return models.LedgerEntry{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = DefaultDebitDescription
		if kind == models.Credit {
			description = DefaultCreditDescription
		}
	}
	return models.LedgerEntry{
		ID:           id,
		TechnicianID: technicianID,
		Date:         at,
		Description:  description,
		Amount:       amount,
		Type:         kind,
	}, nil
}

// Delta is the signed effect of e on a balance.
func Delta(e models.LedgerEntry) float64 {
	if e.Type == models.Credit {
		return -e.Amount
	}
	return e.Amount
}

func rupees(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// Fold sums the signed entries belonging to technicianID.
func Fold(entries []models.LedgerEntry, technicianID string) float64 {
	sum := decimal.Zero
	for _, e := range entries {
		if e.TechnicianID == technicianID {
			sum = sum.Add(decimal.NewFromFloat(Delta(e)))
		}
	}
	return rupees(sum)
}

// Balance is the opening balance plus the fold of the technician's entries.
func Balance(t models.Technician, entries []models.LedgerEntry) float64 {
	return rupees(decimal.NewFromFloat(t.OpeningBalance).Add(decimal.NewFromFloat(Fold(entries, t.ID))))
}

// Trust scores a balance against a credit limit. Only negative balances
// (credit extended past the shop's comfort) cost points.
func Trust(balance, limit float64) (int, models.TrustLevel) {
	score := 100
	switch {
	case balance < -limit:
		score -= 30
	case balance < -(limit * 0.8):
		score -= 20
	case balance < -(limit * 0.5):
		score -= 10
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	switch {
	case score >= 80:
		return score, models.TrustReliable
	case score >= 50:
		return score, models.TrustAverage
	default:
		return score, models.TrustRisky
	}
}

// Refresh recomputes balance and trust of every technician in place.
func Refresh(techs []models.Technician, entries []models.LedgerEntry) {
	for i := range techs {
		techs[i].Balance = Balance(techs[i], entries)
		techs[i].TrustScore, techs[i].TrustLevel = Trust(techs[i].Balance, techs[i].Limit)
	}
}

// Reconcile sets each technician's opening balance so that its recorded
// balance equals the fold of its entries. Used after importing data whose
// balances were maintained incrementally.
func Reconcile(techs []models.Technician, entries []models.LedgerEntry) {
	for i := range techs {
		techs[i].OpeningBalance = rupees(decimal.NewFromFloat(techs[i].Balance).Sub(decimal.NewFromFloat(Fold(entries, techs[i].ID))))
	}
	Refresh(techs, entries)
}

// History returns the technician's entries, newest first.
func History(entries []models.LedgerEntry, technicianID string) []models.LedgerEntry {
	var out []models.LedgerEntry
	for _, e := range entries {
		if e.TechnicianID == technicianID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// Outstanding is the total the shop expects to collect across all technicians.
func Outstanding(techs []models.Technician) float64 {
	sum := decimal.Zero
	for _, t := range techs {
		sum = sum.Add(decimal.NewFromFloat(t.Balance))
	}
	return rupees(sum)
}
