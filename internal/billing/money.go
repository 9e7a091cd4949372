package billing

import (
	"github.com/shopspring/decimal"
)

// Amounts are carried as float64 on the wire; arithmetic goes through decimal
// so that 150 * 0.18 is 27 and not 27.000000000000004.

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func money(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }

// LineTotal is quantity × unit price rounded to paise.
func LineTotal(quantity int, price float64) float64 {
	return money(dec(price).Mul(decimal.NewFromInt(int64(quantity))))
}

// Sum adds amounts exactly and rounds once.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(dec(a))
	}
	return money(total)
}
