package billing

import (
	"errors"
	"fmt"
	"math"

	"khata-pos/internal/models"
)

var (
	// ErrSplitMismatch is returned when split allocations do not add up to the bill total.
	ErrSplitMismatch = errors.New("split total does not match bill total")
	// ErrCounterpartyRequired is returned when Khata is used without a technician.
	ErrCounterpartyRequired = errors.New("select a technician for khata payment")
	// ErrUnknownMethod is returned for an instrument outside Cash, Online, Khata.
	ErrUnknownMethod = errors.New("unknown payment method")
)

// SplitTolerance is the rounding slack allowed between split allocations and the total.
const SplitTolerance = 1.0

type PaymentMode string

const (
	ModeSingle PaymentMode = "Single"
	ModeSplit  PaymentMode = "Split"
)

// PaymentRequest is what the cashier chose in the payment dialog.
type PaymentRequest struct {
	Mode         PaymentMode          `json:"mode"`
	Method       models.PaymentMethod `json:"method"`
	Splits       []models.Payment     `json:"splits"`
	TechnicianID string               `json:"technicianId"`
}

// Label is the payment method recorded on the bill.
func (r PaymentRequest) Label() models.PaymentMethod {
	if r.Mode == ModeSplit {
		return models.PaymentSplit
	}
	if r.Method == "" {
		return models.PaymentCash
	}
	return r.Method
}

// BuildPayments allocates total across instruments.
func BuildPayments(req PaymentRequest, total float64) ([]models.Payment, error) {
	var payments []models.Payment
	switch req.Mode {
	case ModeSplit:
		amounts := make([]float64, 0, len(req.Splits))
		for _, p := range req.Splits {
			if !p.Method.Valid() {
				return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, p.Method)
			}
			amounts = append(amounts, p.Amount)
		}
		sum := Sum(amounts...)
		if math.Abs(sum-total) > SplitTolerance {
			return nil, fmt.Errorf("%w: split %.2f, bill %.2f", ErrSplitMismatch, sum, total)
		}
		payments = append(payments, req.Splits...)
	case ModeSingle, "":
		method := req.Label()
		if !method.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
		}
		payments = []models.Payment{{Method: method, Amount: total}}
	default:
		return nil, fmt.Errorf("%w: mode %q", ErrUnknownMethod, req.Mode)
	}

	for _, p := range payments {
		if p.Method == models.PaymentKhata && p.Amount != 0 && req.TechnicianID == "" {
			return nil, ErrCounterpartyRequired
		}
	}
	return payments, nil
}

// Posting is a ledger movement implied by a Khata allocation.
type Posting struct {
	TechnicianID string
	Amount       float64
	Kind         models.LedgerKind
}

// KhataPostings turns each non-zero Khata allocation into a ledger posting.
// A negative allocation (net return) becomes a Credit of its magnitude.
func KhataPostings(payments []models.Payment, technicianID string) []Posting {
	var out []Posting
	for _, p := range payments {
		if p.Method != models.PaymentKhata || p.Amount == 0 {
			continue
		}
		kind := models.Debit
		if p.Amount < 0 {
			kind = models.Credit
		}
		out = append(out, Posting{
			TechnicianID: technicianID,
			Amount:       math.Abs(p.Amount),
			Kind:         kind,
		})
	}
	return out
}

// IsPaid is false only when every allocation went on Khata.
func IsPaid(payments []models.Payment) bool {
	for _, p := range payments {
		if p.Method != models.PaymentKhata {
			return true
		}
	}
	return false
}
