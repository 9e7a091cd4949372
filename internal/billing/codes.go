package billing

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCode is returned when a code matches no known class.
	ErrInvalidCode = errors.New("invalid code")
	// ErrEmptyCode is returned for blank input.
	ErrEmptyCode = errors.New("code is empty")
)

// CodeKind classifies an entered code.
type CodeKind string

const (
	KindTech    CodeKind = "tech"    // switch lines to technician price
	KindManual  CodeKind = "manual"  // free-text total override
	KindPercent CodeKind = "percent" // percentage off subtotal
	KindFixed   CodeKind = "fixed"   // flat amount off subtotal
)

// DefaultManualCode is the reserved code that unlocks a manual total.
const DefaultManualCode = "A"

// Discount is the active pricing mode of the cart.
type Discount struct {
	Code  string   `json:"code"`
	Kind  CodeKind `json:"type"`
	Value float64  `json:"value"`
	Label string   `json:"label"`
}

// Tier is the price level cart lines should be billed at while d is active.
// A nil discount bills at customer price.
func (d *Discount) Tier() Tier {
	if d != nil && d.Kind == KindTech {
		return TierTechnician
	}
	return TierCustomer
}

// RepricesTo reports whether applying d moves cart lines to a tier, and which.
// Manual overrides leave line prices alone.
func (d Discount) RepricesTo() (Tier, bool) {
	switch d.Kind {
	case KindTech:
		return TierTechnician, true
	case KindPercent, KindFixed:
		return TierCustomer, true
	}
	return TierCustomer, false
}

// DefaultCodes returns the shop's promotional codes.
func DefaultCodes() map[string]Discount {
	return map[string]Discount{
		"SANGLI10":   {Code: "SANGLI10", Kind: KindPercent, Value: 10, Label: "Promo Discount (10%)"},
		"DISCOUNT50": {Code: "DISCOUNT50", Kind: KindFixed, Value: 50, Label: "Flat ₹50 Off"},
	}
}

// Resolver turns an entered code into a Discount.
type Resolver struct {
	TechCode   string
	ManualCode string
	Codes      map[string]Discount
}

func NewResolver(techCode, manualCode string) *Resolver {
	if manualCode == "" {
		manualCode = DefaultManualCode
	}
	return &Resolver{
		TechCode:   techCode,
		ManualCode: manualCode,
		Codes:      DefaultCodes(),
	}
}

// Resolve matches code case-insensitively: technician code first, then the
// manual code, then the catalog.
func (r *Resolver) Resolve(code string) (Discount, error) {
	input := strings.ToUpper(strings.TrimSpace(code))
	if input == "" {
		return Discount{}, ErrEmptyCode
	}

	if r.TechCode != "" && input == strings.ToUpper(strings.TrimSpace(r.TechCode)) {
		return Discount{Code: input, Kind: KindTech, Label: "Technician Rates Applied"}, nil
	}
	if r.ManualCode != "" && input == strings.ToUpper(strings.TrimSpace(r.ManualCode)) {
		return Discount{Code: input, Kind: KindManual, Label: "Manual Adjustment"}, nil
	}
	for key, d := range r.Codes {
		if strings.ToUpper(key) == input {
			d.Code = input
			return d, nil
		}
	}
	return Discount{}, ErrInvalidCode
}
