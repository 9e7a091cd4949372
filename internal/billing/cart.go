package billing

import (
	"errors"

	"khata-pos/internal/models"
)

var (
	// ErrOutOfStock is returned when a sale line is added for a product with no stock.
	ErrOutOfStock = errors.New("item out of stock")
	// ErrInvalidQuantity is returned for a zero delta or a negative delta on a missing line.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrEmptyCart is returned when checking out with no lines.
	ErrEmptyCart = errors.New("cart is empty")
)

// Tier selects which of a product's price levels a line is billed at.
type Tier int

const (
	TierCustomer Tier = iota
	TierTechnician
)

// Price returns the unit price of p at this tier.
func (t Tier) Price(p models.Product) float64 {
	if t == TierTechnician {
		return p.TechnicianPrice
	}
	return p.CustomerPrice
}

func (t Tier) String() string {
	if t == TierTechnician {
		return "technician"
	}
	return "customer"
}

// Cart is the working set of lines for the sale in progress.
type Cart struct {
	Lines      []models.CartLine `json:"lines"`
	ReturnMode bool              `json:"returnMode"`
}

// Add puts delta units of p into the cart at the given tier. In return mode the
// unit price is negated. A negative delta only shrinks an existing line and
// keeps its price. A line that drops to zero quantity is removed.
func (c *Cart) Add(p models.Product, delta int, tier Tier) error {
	if delta == 0 {
		return ErrInvalidQuantity
	}
	if delta > 0 && p.StockQuantity <= 0 && !c.ReturnMode {
		return ErrOutOfStock
	}

	price := tier.Price(p)
	if c.ReturnMode {
		price = -price
	}

	for i := range c.Lines {
		if c.Lines[i].ProductID != p.ID {
			continue
		}
		qty := c.Lines[i].Quantity + delta
		if qty <= 0 {
			c.Remove(p.ID)
			return nil
		}
		if delta > 0 {
			c.Lines[i].Price = price
		}
		c.Lines[i].Quantity = qty
		c.Lines[i].Total = LineTotal(qty, c.Lines[i].Price)
		return nil
	}

	if delta < 0 {
		return ErrInvalidQuantity
	}
	c.Lines = append(c.Lines, models.CartLine{
		ProductID: p.ID,
		PartName:  p.PartName,
		Quantity:  delta,
		Price:     price,
		Total:     LineTotal(delta, price),
	})
	return nil
}

// Remove deletes the line for productID, if any.
func (c *Cart) Remove(productID string) {
	out := c.Lines[:0]
	for _, l := range c.Lines {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	c.Lines = out
}

// Reprice moves every line to tier, keeping each line's sign. Lines whose
// product can no longer be found keep their price.
func (c *Cart) Reprice(lookup func(id string) (models.Product, bool), tier Tier) {
	for i, l := range c.Lines {
		p, ok := lookup(l.ProductID)
		if !ok {
			continue
		}
		price := tier.Price(p)
		if l.IsReturn() {
			price = -price
		}
		c.Lines[i].Price = price
		c.Lines[i].Total = LineTotal(l.Quantity, price)
	}
}

// Reset empties the cart and leaves return mode.
func (c *Cart) Reset() {
	c.Lines = nil
	c.ReturnMode = false
}

func (c Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// Snapshot returns a copy of the lines that shares nothing with the cart.
func (c Cart) Snapshot() []models.CartLine {
	return append([]models.CartLine(nil), c.Lines...)
}

// Subtotal is the signed sum of line totals.
func Subtotal(lines []models.CartLine) float64 {
	amounts := make([]float64, len(lines))
	for i, l := range lines {
		amounts[i] = l.Total
	}
	return Sum(amounts...)
}
