package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khata-pos/internal/models"
)

func pcb() models.Product {
	return models.Product{
		ID:              "1",
		PartName:        "LG Dual Inverter Universal PCB",
		StockQuantity:   15,
		PurchasePrice:   60,
		TechnicianPrice: 80,
		CustomerPrice:   100,
	}
}

func lookupOf(products ...models.Product) func(string) (models.Product, bool) {
	return func(id string) (models.Product, bool) {
		for _, p := range products {
			if p.ID == id {
				return p, true
			}
		}
		return models.Product{}, false
	}
}

func TestCartAddMergesLines(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add(pcb(), 1, TierCustomer))
	require.NoError(t, c.Add(pcb(), 1, TierCustomer))

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, 200.0, c.Lines[0].Total)
}

func TestCartRejectsOutOfStockUnlessReturning(t *testing.T) {
	p := pcb()
	p.StockQuantity = 0

	var c Cart
	assert.ErrorIs(t, c.Add(p, 1, TierCustomer), ErrOutOfStock)
	assert.True(t, c.IsEmpty())

	c.ReturnMode = true
	require.NoError(t, c.Add(p, 1, TierCustomer))
	assert.Equal(t, -100.0, c.Lines[0].Price)
	assert.Equal(t, -100.0, c.Lines[0].Total)
}

func TestCartNegativeDeltaRemovesLine(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add(pcb(), 1, TierCustomer))
	require.NoError(t, c.Add(pcb(), -1, TierCustomer))
	assert.True(t, c.IsEmpty())

	assert.ErrorIs(t, c.Add(pcb(), -1, TierCustomer), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add(pcb(), 0, TierCustomer), ErrInvalidQuantity)
}

func TestCartDecrementKeepsLinePrice(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add(pcb(), 2, TierCustomer))

	// taking one unit off a sale while return mode is on leaves it a sale
	c.ReturnMode = true
	require.NoError(t, c.Add(pcb(), -1, TierCustomer))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, c.Lines[0].Quantity)
	assert.Equal(t, 100.0, c.Lines[0].Price)
	assert.Equal(t, 100.0, c.Lines[0].Total)
}

func TestCartDecrementReturnLineOutOfStock(t *testing.T) {
	p := pcb()
	p.StockQuantity = 0

	c := Cart{ReturnMode: true}
	require.NoError(t, c.Add(p, 2, TierCustomer))

	c.ReturnMode = false
	require.NoError(t, c.Add(p, -1, TierCustomer))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, c.Lines[0].Quantity)
	assert.Equal(t, -100.0, c.Lines[0].Price)
	assert.Equal(t, -100.0, c.Lines[0].Total)

	assert.ErrorIs(t, c.Add(p, 1, TierCustomer), ErrOutOfStock)
}

func TestCartRepriceKeepsSign(t *testing.T) {
	other := models.Product{ID: "2", PartName: "Relay", StockQuantity: 3, TechnicianPrice: 40, CustomerPrice: 50}

	var c Cart
	require.NoError(t, c.Add(pcb(), 2, TierCustomer))
	c.ReturnMode = true
	require.NoError(t, c.Add(other, 1, TierCustomer))

	c.Reprice(lookupOf(pcb(), other), TierTechnician)
	assert.Equal(t, 80.0, c.Lines[0].Price)
	assert.Equal(t, 160.0, c.Lines[0].Total)
	assert.Equal(t, -40.0, c.Lines[1].Price)
	assert.Equal(t, -40.0, c.Lines[1].Total)
}

func TestSubtotalMatchesLineTotals(t *testing.T) {
	other := models.Product{ID: "2", PartName: "Relay", StockQuantity: 3, TechnicianPrice: 40.5, CustomerPrice: 55.25}

	var c Cart
	require.NoError(t, c.Add(pcb(), 3, TierCustomer))
	require.NoError(t, c.Add(other, 2, TierCustomer))
	c.ReturnMode = true
	require.NoError(t, c.Add(other, 1, TierCustomer))

	var want float64
	for _, l := range c.Lines {
		want += l.Total
	}
	totals, err := Compile(c.Lines, nil, false, "")
	require.NoError(t, err)
	assert.InDelta(t, want, totals.Subtotal, 0.001)
	assert.Equal(t, totals.Subtotal, Subtotal(c.Lines))
}

func TestResolverPrecedence(t *testing.T) {
	r := NewResolver("tech", "")

	d, err := r.Resolve("  TeCh ")
	require.NoError(t, err)
	assert.Equal(t, KindTech, d.Kind)

	d, err = r.Resolve("a")
	require.NoError(t, err)
	assert.Equal(t, KindManual, d.Kind)

	d, err = r.Resolve("sangli10")
	require.NoError(t, err)
	assert.Equal(t, KindPercent, d.Kind)
	assert.Equal(t, 10.0, d.Value)

	d, err = r.Resolve("discount50")
	require.NoError(t, err)
	assert.Equal(t, KindFixed, d.Kind)

	_, err = r.Resolve("FREESTUFF")
	assert.ErrorIs(t, err, ErrInvalidCode)
	_, err = r.Resolve("   ")
	assert.ErrorIs(t, err, ErrEmptyCode)
}

func TestResolverTechCodeWinsOverCatalog(t *testing.T) {
	r := NewResolver("SANGLI10", "")
	d, err := r.Resolve("sangli10")
	require.NoError(t, err)
	assert.Equal(t, KindTech, d.Kind)
}

func TestCompileScenario(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add(pcb(), 2, TierCustomer))

	totals, err := Compile(c.Lines, nil, false, "")
	require.NoError(t, err)
	assert.Equal(t, 200.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.Discount)
	assert.Equal(t, 200.0, totals.Total)

	tech := &Discount{Kind: KindTech}
	c.Reprice(lookupOf(pcb()), tech.Tier())
	assert.Equal(t, 160.0, c.Lines[0].Total)
	totals, err = Compile(c.Lines, tech, false, "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, totals.Discount)
	assert.Equal(t, 160.0, totals.Total)

	c.Reprice(lookupOf(pcb()), TierCustomer)
	percent := &Discount{Kind: KindPercent, Value: 10}
	totals, err = Compile(c.Lines, percent, false, "")
	require.NoError(t, err)
	assert.Equal(t, 20.0, totals.Discount)
	assert.Equal(t, 180.0, totals.Total)

	flat := &Discount{Kind: KindFixed, Value: 50}
	totals, err = Compile(c.Lines, flat, false, "")
	require.NoError(t, err)
	assert.Equal(t, 50.0, totals.Discount)
	assert.Equal(t, 150.0, totals.Total)

	totals, err = Compile(c.Lines, flat, true, "")
	require.NoError(t, err)
	assert.Equal(t, 150.0, totals.Taxable)
	assert.Equal(t, 27.0, totals.Tax)
	assert.Equal(t, 177.0, totals.Total)
}

func TestCompileDiscountNeverExceedsSubtotal(t *testing.T) {
	lines := []models.CartLine{{ProductID: "1", Quantity: 1, Price: 30, Total: 30}}

	totals, err := Compile(lines, &Discount{Kind: KindFixed, Value: 50}, false, "")
	require.NoError(t, err)
	assert.Equal(t, 30.0, totals.Discount)
	assert.Equal(t, 0.0, totals.Total)

	totals, err = Compile(lines, &Discount{Kind: KindPercent, Value: 150}, false, "")
	require.NoError(t, err)
	assert.Equal(t, 30.0, totals.Discount)

	returns := []models.CartLine{{ProductID: "1", Quantity: 1, Price: -30, Total: -30}}
	totals, err = Compile(returns, &Discount{Kind: KindFixed, Value: 50}, false, "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, totals.Discount)
	assert.Equal(t, -30.0, totals.Total)
}

func TestCompileManualOverride(t *testing.T) {
	lines := []models.CartLine{{ProductID: "1", Quantity: 2, Price: 100, Total: 200}}
	manual := &Discount{Kind: KindManual}

	totals, err := Compile(lines, manual, false, "185")
	require.NoError(t, err)
	assert.True(t, totals.Manual)
	assert.Equal(t, 185.0, totals.Total)
	assert.Equal(t, 200.0, totals.Computed)

	totals, err = Compile(lines, manual, false, "one eighty")
	assert.ErrorIs(t, err, ErrInvalidManualTotal)
	assert.False(t, totals.Manual)
	assert.Equal(t, 200.0, totals.Total)

	for _, input := range []string{"NaN", "Inf", "+Inf", "-infinity"} {
		totals, err = Compile(lines, manual, false, input)
		assert.ErrorIs(t, err, ErrInvalidManualTotal, input)
		assert.Equal(t, 200.0, totals.Total, input)
	}

	totals, err = Compile(lines, manual, false, "")
	require.NoError(t, err)
	assert.Equal(t, 200.0, totals.Total)

	// override text is ignored unless the manual code is active
	totals, err = Compile(lines, nil, false, "5")
	require.NoError(t, err)
	assert.Equal(t, 200.0, totals.Total)
}

func TestBuildPaymentsSingle(t *testing.T) {
	payments, err := BuildPayments(PaymentRequest{}, 250)
	require.NoError(t, err)
	assert.Equal(t, []models.Payment{{Method: models.PaymentCash, Amount: 250}}, payments)
	assert.True(t, IsPaid(payments))

	_, err = BuildPayments(PaymentRequest{Method: models.PaymentKhata}, 250)
	assert.ErrorIs(t, err, ErrCounterpartyRequired)

	payments, err = BuildPayments(PaymentRequest{Method: models.PaymentKhata, TechnicianID: "T1"}, 250)
	require.NoError(t, err)
	assert.False(t, IsPaid(payments))

	_, err = BuildPayments(PaymentRequest{Method: "Cheque"}, 250)
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestBuildPaymentsSplitTolerance(t *testing.T) {
	req := PaymentRequest{
		Mode: ModeSplit,
		Splits: []models.Payment{
			{Method: models.PaymentCash, Amount: 100},
			{Method: models.PaymentOnline, Amount: 76.5},
		},
	}

	_, err := BuildPayments(req, 177)
	assert.NoError(t, err)

	_, err = BuildPayments(req, 177.5)
	assert.NoError(t, err, "difference of exactly 1 is accepted")

	_, err = BuildPayments(req, 178)
	assert.ErrorIs(t, err, ErrSplitMismatch)

	assert.Equal(t, models.PaymentSplit, req.Label())
}

func TestBuildPaymentsSplitKhataNeedsTechnician(t *testing.T) {
	req := PaymentRequest{
		Mode: ModeSplit,
		Splits: []models.Payment{
			{Method: models.PaymentCash, Amount: 100},
			{Method: models.PaymentKhata, Amount: 0},
		},
	}
	_, err := BuildPayments(req, 100)
	require.NoError(t, err, "a zero khata allocation needs no technician")

	req.Splits[0].Amount = 60
	req.Splits[1].Amount = 40
	_, err = BuildPayments(req, 100)
	assert.ErrorIs(t, err, ErrCounterpartyRequired)
}

func TestKhataPostingsSignRule(t *testing.T) {
	payments := []models.Payment{
		{Method: models.PaymentCash, Amount: 50},
		{Method: models.PaymentKhata, Amount: 150},
		{Method: models.PaymentKhata, Amount: 0},
	}
	postings := KhataPostings(payments, "T1")
	require.Len(t, postings, 1)
	assert.Equal(t, Posting{TechnicianID: "T1", Amount: 150, Kind: models.Debit}, postings[0])

	refund := KhataPostings([]models.Payment{{Method: models.PaymentKhata, Amount: -120}}, "T1")
	require.Len(t, refund, 1)
	assert.Equal(t, models.Credit, refund[0].Kind)
	assert.Equal(t, 120.0, refund[0].Amount)
}
