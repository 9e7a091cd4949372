package stock

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khata-pos/internal/models"
)

var now = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func seqIDs() IDFunc {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func inventory() []models.Product {
	return []models.Product{
		{ID: "1", PartName: "PCB", StockQuantity: 15},
		{ID: "2", PartName: "Compressor", StockQuantity: 4},
		{ID: "3", PartName: "Relay", StockQuantity: 0},
	}
}

func TestApplyBillEffects(t *testing.T) {
	inv := inventory()
	bill := models.Bill{Items: []models.CartLine{
		{ProductID: "1", PartName: "PCB", Quantity: 2, Price: 100, Total: 200},
		{ProductID: "3", PartName: "Relay", Quantity: 3, Price: -50, Total: -150},
		{ProductID: "gone", PartName: "Deleted", Quantity: 1, Price: 10, Total: 10},
	}}

	before := 0
	for _, p := range inventory() {
		before += p.StockQuantity
	}

	logs := ApplyBillEffects(inv, bill, now, seqIDs())

	assert.Equal(t, 13, inv[0].StockQuantity)
	require.NotNil(t, inv[0].LastSoldDate)
	assert.True(t, inv[0].LastSoldDate.Equal(now))
	assert.Equal(t, 4, inv[1].StockQuantity)
	assert.Equal(t, 3, inv[2].StockQuantity)
	assert.Nil(t, inv[2].LastSoldDate, "returns do not count as a sale")

	require.Len(t, logs, 1)
	assert.Equal(t, models.ReasonReturnRestock, logs[0].Reason)
	assert.Equal(t, 3, logs[0].Change)
	assert.Equal(t, 3, logs[0].NewStock)

	after := 0
	for _, p := range inv {
		after += p.StockQuantity
	}
	known := models.Bill{Items: bill.Items[:2]}
	assert.Equal(t, NetChange(known), after-before)
}

func TestCommitLog(t *testing.T) {
	old := models.Product{ID: "1", PartName: "PCB", StockQuantity: 15}
	updated := old
	updated.StockQuantity = 12
	require.True(t, NeedsReason(old, updated))

	_, err := CommitLog(old, updated, "", now, seqIDs())
	assert.ErrorIs(t, err, ErrReasonRequired)
	_, err = CommitLog(old, updated, "Stolen", now, seqIDs())
	assert.ErrorIs(t, err, ErrInvalidReason)

	log, err := CommitLog(old, updated, models.ReasonBreakage, now, seqIDs())
	require.NoError(t, err)
	assert.Equal(t, -3, log.Change)
	assert.Equal(t, 12, log.NewStock)
	assert.Equal(t, models.ReasonBreakage, log.Reason)
}

func TestNewProductLog(t *testing.T) {
	log := NewProductLog(models.Product{ID: "9", PartName: "Fan Motor", StockQuantity: 7}, now, seqIDs())
	assert.Equal(t, models.ReasonNewStock, log.Reason)
	assert.Equal(t, 7, log.Change)
	assert.Equal(t, 7, log.NewStock)
}

func TestPriceChanges(t *testing.T) {
	old := models.Product{ID: "1", PartName: "PCB", PurchasePrice: 2200, TechnicianPrice: 2800, CustomerPrice: 3500}
	updated := old
	updated.CustomerPrice = 3600
	updated.PurchasePrice = 2100

	logs := PriceChanges(old, updated, "Admin", now, seqIDs())
	require.Len(t, logs, 2)
	assert.Equal(t, models.PriceCustomer, logs[0].Field)
	assert.Equal(t, 3500.0, logs[0].OldVal)
	assert.Equal(t, 3600.0, logs[0].NewVal)
	assert.Equal(t, models.PricePurchase, logs[1].Field)

	assert.Empty(t, PriceChanges(old, old, "Admin", now, seqIDs()))
}

func TestPendingReplacesEditForSameProduct(t *testing.T) {
	p := NewPending()
	p.Hold(PendingEdit{ID: "E1", Product: models.Product{ID: "1"}})
	p.Hold(PendingEdit{ID: "E2", Product: models.Product{ID: "1"}})
	p.Hold(PendingEdit{ID: "E3", Product: models.Product{ID: "2"}})

	assert.Len(t, p.List(), 2)
	_, err := p.Take("E1")
	assert.ErrorIs(t, err, ErrNoPendingEdit)

	e, err := p.Take("E2")
	require.NoError(t, err)
	assert.Equal(t, "1", e.Product.ID)

	p.Drop("2")
	assert.Empty(t, p.List())
}

func TestDeadStock(t *testing.T) {
	recent := now.Add(-10 * day)
	stale := now.Add(-100 * day)
	ancient := now.Add(-200 * day)

	assert.Equal(t, AgingNormal, DeadStockStatus(nil, now))
	assert.Equal(t, AgingNormal, DeadStockStatus(&recent, now))
	assert.Equal(t, AgingWarning, DeadStockStatus(&stale, now))
	assert.Equal(t, AgingCritical, DeadStockStatus(&ancient, now))

	assert.True(t, IsDead(models.Product{StockQuantity: 2, LastSoldDate: &stale}, now, 90))
	assert.False(t, IsDead(models.Product{StockQuantity: 0, LastSoldDate: &stale}, now, 90))
	assert.False(t, IsDead(models.Product{StockQuantity: 2, LastSoldDate: &recent}, now, 90))
	assert.False(t, IsDead(models.Product{StockQuantity: 2}, now, 90))

	assert.True(t, IsLow(models.Product{StockQuantity: 4, LowStockThreshold: 5}))
	assert.False(t, IsLow(models.Product{StockQuantity: 15, LowStockThreshold: 5}))
}
