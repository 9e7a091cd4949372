package billing

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"khata-pos/internal/models"
)

// ErrInvalidManualTotal is returned when a manual override does not parse as a number.
var ErrInvalidManualTotal = errors.New("manual total must be a number")

// TaxRate is the fixed GST rate.
var TaxRate = decimal.RequireFromString("0.18")

// Totals is everything the bill footer shows.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Taxable  float64 `json:"taxable"`
	Tax      float64 `json:"tax"`
	Computed float64 `json:"computed"` // taxable + tax, before any manual override
	Total    float64 `json:"total"`
	Manual   bool    `json:"manual"`
}

// ParseManualTotal parses the free-text override typed by the cashier.
func ParseManualTotal(input string) (float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, ErrInvalidManualTotal
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidManualTotal
	}
	return v, nil
}

// Compile derives the bill totals. It has no side effects. When d is a manual
// code and manualInput is not numeric, the computed total is returned together
// with ErrInvalidManualTotal; an empty manualInput means "not overridden yet".
func Compile(lines []models.CartLine, d *Discount, taxEnabled bool, manualInput string) (Totals, error) {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(dec(l.Total))
	}

	discount := decimal.Zero
	if d != nil {
		switch d.Kind {
		case KindPercent:
			discount = subtotal.Mul(dec(d.Value)).Div(decimal.NewFromInt(100))
		case KindFixed:
			discount = decimal.Min(dec(d.Value), subtotal)
		}
	}
	// never more than the (positive) subtotal, never negative
	ceiling := decimal.Max(subtotal, decimal.Zero)
	if discount.GreaterThan(ceiling) {
		discount = ceiling
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	discount = discount.Round(2)

	taxable := subtotal.Sub(discount)
	tax := decimal.Zero
	if taxEnabled {
		tax = taxable.Mul(TaxRate).Round(2)
	}
	computed := taxable.Add(tax)

	t := Totals{
		Subtotal: money(subtotal),
		Discount: money(discount),
		Taxable:  money(taxable),
		Tax:      money(tax),
		Computed: money(computed),
		Total:    money(computed),
	}

	if d == nil || d.Kind != KindManual || strings.TrimSpace(manualInput) == "" {
		return t, nil
	}
	override, err := ParseManualTotal(manualInput)
	if err != nil {
		return t, err
	}
	t.Total = money(dec(override))
	t.Manual = true
	return t, nil
}
