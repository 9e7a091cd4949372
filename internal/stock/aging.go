package stock

import (
	"time"

	"khata-pos/internal/models"
)

// Aging is how long a product has sat unsold.
type Aging string

const (
	AgingNormal   Aging = "normal"
	AgingWarning  Aging = "warning"  // unsold > 90 days
	AgingCritical Aging = "critical" // unsold > 180 days
)

const day = 24 * time.Hour

// DeadStockStatus classifies a product by its last sale. Never-sold products are normal.
func DeadStockStatus(lastSold *time.Time, now time.Time) Aging {
	if lastSold == nil {
		return AgingNormal
	}
	idle := now.Sub(*lastSold)
	switch {
	case idle > 180*day:
		return AgingCritical
	case idle > 90*day:
		return AgingWarning
	}
	return AgingNormal
}

// IsDead reports whether p still has stock and has not sold within days.
func IsDead(p models.Product, now time.Time, days int) bool {
	if p.LastSoldDate == nil || p.StockQuantity <= 0 {
		return false
	}
	return p.LastSoldDate.Before(now.Add(-time.Duration(days) * day))
}

// IsLow reports whether p is at or below its reorder threshold.
func IsLow(p models.Product) bool {
	return p.StockQuantity <= p.LowStockThreshold
}
