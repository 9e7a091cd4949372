// Package stock applies quantity changes to the catalog and keeps the
// stock and price audit trails.
package stock

import (
	"errors"
	"fmt"
	"time"

	"khata-pos/internal/models"
)

var (
	// ErrReasonRequired is returned when a quantity edit arrives without a reason.
	ErrReasonRequired = errors.New("a reason is required to change stock quantity")
	// ErrInvalidReason is returned for a reason outside the fixed set.
	ErrInvalidReason = errors.New("unknown stock adjustment reason")
)

// IDFunc mints log ids; prefix is "ST" for stock logs and "PR" for price logs.
type IDFunc func(prefix string) string

// ApplyBillEffects moves stock for every line of bill: returns go back on the
// shelf, sales come off it and stamp the product's last sold date. It returns
// a Return Restock log for every returned line.
func ApplyBillEffects(inventory []models.Product, bill models.Bill, at time.Time, newID IDFunc) []models.StockLog {
	index := make(map[string]int, len(inventory))
	for i, p := range inventory {
		index[p.ID] = i
	}

	var logs []models.StockLog
	for _, line := range bill.Items {
		i, ok := index[line.ProductID]
		if !ok {
			continue
		}
		p := &inventory[i]
		if line.IsReturn() {
			p.StockQuantity += line.Quantity
			logs = append(logs, models.StockLog{
				ID:          newID("ST"),
				Date:        at,
				ProductID:   p.ID,
				ProductName: line.PartName,
				Change:      line.Quantity,
				Reason:      models.ReasonReturnRestock,
				NewStock:    p.StockQuantity,
			})
			continue
		}
		p.StockQuantity -= line.Quantity
		sold := at
		p.LastSoldDate = &sold
	}
	return logs
}

// NetChange is the signed stock movement a bill causes.
func NetChange(bill models.Bill) int {
	var n int
	for _, l := range bill.Items {
		if l.IsReturn() {
			n += l.Quantity
		} else {
			n -= l.Quantity
		}
	}
	return n
}

// NeedsReason reports whether replacing old with updated changes on-hand quantity.
func NeedsReason(old, updated models.Product) bool {
	return old.StockQuantity != updated.StockQuantity
}

// CommitLog validates reason and builds the single log for a quantity edit.
func CommitLog(old, updated models.Product, reason models.StockReason, at time.Time, newID IDFunc) (models.StockLog, error) {
	if reason == "" {
		return models.StockLog{}, ErrReasonRequired
	}
	if !reason.Valid() {
		return models.StockLog{}, fmt.Errorf("%w: %q", ErrInvalidReason, reason)
	}
	return models.StockLog{
		ID:          newID("ST"),
		Date:        at,
		ProductID:   updated.ID,
		ProductName: updated.PartName,
		Change:      updated.StockQuantity - old.StockQuantity,
		Reason:      reason,
		NewStock:    updated.StockQuantity,
	}, nil
}

// NewProductLog is the opening New Stock entry for a freshly created product.
func NewProductLog(p models.Product, at time.Time, newID IDFunc) models.StockLog {
	return models.StockLog{
		ID:          newID("ST"),
		Date:        at,
		ProductID:   p.ID,
		ProductName: p.PartName,
		Change:      p.StockQuantity,
		Reason:      models.ReasonNewStock,
		NewStock:    p.StockQuantity,
	}
}

// PriceChanges returns one log per price tier that differs between old and updated.
func PriceChanges(old, updated models.Product, user string, at time.Time, newID IDFunc) []models.PriceLog {
	var logs []models.PriceLog
	add := func(field models.PriceField, before, after float64) {
		if before == after {
			return
		}
		logs = append(logs, models.PriceLog{
			ID:          newID("PR"),
			Date:        at,
			ProductID:   old.ID,
			ProductName: old.PartName,
			Field:       field,
			OldVal:      before,
			NewVal:      after,
			User:        user,
		})
	}
	add(models.PriceCustomer, old.CustomerPrice, updated.CustomerPrice)
	add(models.PriceTechnician, old.TechnicianPrice, updated.TechnicianPrice)
	add(models.PricePurchase, old.PurchasePrice, updated.PurchasePrice)
	return logs
}
