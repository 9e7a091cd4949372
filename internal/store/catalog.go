package store

import (
	"fmt"
	"strings"

	"khata-pos/internal/auth"
	"khata-pos/internal/billing"
	"khata-pos/internal/feedback"
	"khata-pos/internal/models"
	"khata-pos/internal/stock"
)

// Products returns the catalog filtered by a free-text query (part name,
// brand, barcode or compatible model) and an optional machine type.
func (s *Store) Products(query string, machine models.MachineType) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.Product{}
	for _, p := range s.inventory {
		if machine != "" && p.MachineType != machine {
			continue
		}
		if q != "" && !matches(p, q) {
			continue
		}
		out = append(out, p.Clone())
	}
	return out
}

func matches(p models.Product, q string) bool {
	if strings.Contains(strings.ToLower(p.PartName), q) ||
		strings.Contains(strings.ToLower(p.Barcode), q) ||
		strings.Contains(strings.ToLower(p.Brand), q) {
		return true
	}
	for _, m := range p.CompatibleModels {
		if strings.Contains(strings.ToLower(m), q) {
			return true
		}
	}
	return false
}

func (s *Store) Product(id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.lookup(id)
	if !ok {
		return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return p.Clone(), nil
}

func (s *Store) FindByBarcode(code string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findByBarcode(code)
}

func (s *Store) findByBarcode(code string) (models.Product, error) {
	code = strings.TrimSpace(code)
	for _, p := range s.inventory {
		if code != "" && strings.EqualFold(p.Barcode, code) {
			return p.Clone(), nil
		}
	}
	return models.Product{}, fmt.Errorf("barcode %s: %w", code, ErrNotFound)
}

// Similar suggests in-stock alternatives with the same part type and machine.
func (s *Store) Similar(id string) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.lookup(id)
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	out := []models.Product{}
	for _, other := range s.inventory {
		if other.ID == p.ID || other.StockQuantity <= 0 {
			continue
		}
		if strings.EqualFold(other.PartType, p.PartType) && other.MachineType == p.MachineType {
			out = append(out, other.Clone())
		}
	}
	return out, nil
}

// AddProduct creates a product and logs its opening stock.
func (s *Store) AddProduct(p models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.safeMode {
		return models.Product{}, ErrSafeMode
	}
	p.PartName = strings.TrimSpace(p.PartName)
	if p.PartName == "" {
		return models.Product{}, ErrInvalidProduct
	}
	if p.StockQuantity < 0 {
		return models.Product{}, fmt.Errorf("%w: negative stock", ErrInvalidProduct)
	}
	if p.ID == "" || s.productIndex(p.ID) >= 0 {
		p.ID = s.newID("P")
	}
	if strings.TrimSpace(p.Barcode) == "" {
		p.Barcode = s.newID("BR")
	}
	if len(p.CompatibleModels) == 0 {
		p.CompatibleModels = []string{"Universal"}
	}
	if p.Images == nil {
		p.Images = []string{}
	}

	s.inventory = append([]models.Product{p.Clone()}, s.inventory...)
	s.addStockLogs(stock.NewProductLog(p, s.now(), s.newID))
	s.logSecurity(models.EventStockEdit, "Added new product: "+p.PartName, models.SeverityMedium)
	return p, nil
}

// EditProduct replaces a product. A quantity change without a reason is held
// as a pending edit and ErrReasonRequired is returned with it.
func (s *Store) EditProduct(id string, updated models.Product, reason models.StockReason, user string) (models.Product, *stock.PendingEdit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.safeMode {
		return models.Product{}, nil, ErrSafeMode
	}
	i := s.productIndex(id)
	if i < 0 {
		return models.Product{}, nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	updated.ID = id
	updated.PartName = strings.TrimSpace(updated.PartName)
	if updated.PartName == "" {
		return models.Product{}, nil, ErrInvalidProduct
	}
	old := s.inventory[i]
	if updated.LastSoldDate == nil {
		updated.LastSoldDate = old.LastSoldDate
	}

	if stock.NeedsReason(old, updated) && reason == "" {
		edit := stock.PendingEdit{
			ID:        s.newID("PE"),
			Product:   updated.Clone(),
			Previous:  old.StockQuantity,
			Change:    updated.StockQuantity - old.StockQuantity,
			User:      user,
			CreatedAt: s.now(),
		}
		s.pending.Hold(edit)
		return old.Clone(), &edit, stock.ErrReasonRequired
	}

	if err := s.commitEdit(i, updated, reason, user); err != nil {
		return models.Product{}, nil, err
	}
	return s.inventory[i].Clone(), nil, nil
}

func (s *Store) commitEdit(i int, updated models.Product, reason models.StockReason, user string) error {
	old := s.inventory[i]
	at := s.now()
	var logs []models.StockLog
	if stock.NeedsReason(old, updated) {
		l, err := stock.CommitLog(old, updated, reason, at, s.newID)
		if err != nil {
			return err
		}
		logs = append(logs, l)
	}
	if user == "" {
		user = "Admin"
	}
	s.addPriceLogs(stock.PriceChanges(old, updated, user, at, s.newID)...)
	s.addStockLogs(logs...)
	s.inventory[i] = updated.Clone()
	s.pending.Drop(updated.ID)
	return nil
}

// PendingEdits lists stock edits waiting for a reason.
func (s *Store) PendingEdits() []stock.PendingEdit {
	return s.pending.List()
}

// ConfirmEdit commits a held edit with the chosen reason. The change is
// measured against the product's current quantity.
func (s *Store) ConfirmEdit(pendingID string, reason models.StockReason) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.safeMode {
		return models.Product{}, ErrSafeMode
	}
	edit, ok := s.pending.Get(pendingID)
	if !ok {
		return models.Product{}, stock.ErrNoPendingEdit
	}
	if reason == "" {
		return models.Product{}, stock.ErrReasonRequired
	}
	if !reason.Valid() {
		return models.Product{}, fmt.Errorf("%w: %q", stock.ErrInvalidReason, reason)
	}
	i := s.productIndex(edit.Product.ID)
	if i < 0 {
		s.pending.Drop(edit.Product.ID)
		return models.Product{}, fmt.Errorf("product %s: %w", edit.Product.ID, ErrNotFound)
	}
	if err := s.commitEdit(i, edit.Product, reason, edit.User); err != nil {
		return models.Product{}, err
	}
	return s.inventory[i].Clone(), nil
}

// CancelEdit discards a held edit; the product stays as it was.
func (s *Store) CancelEdit(pendingID string) error {
	_, err := s.pending.Take(pendingID)
	return err
}

func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.safeMode {
		return ErrSafeMode
	}
	i := s.productIndex(id)
	if i < 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	name := s.inventory[i].PartName
	s.inventory = append(s.inventory[:i:i], s.inventory[i+1:]...)
	s.pending.Drop(id)
	s.session.cart.Remove(id)
	s.logSecurity(models.EventStockEdit, "Deleted product: "+name, models.SeverityMedium)
	s.player.Play(feedback.Delete)
	return nil
}

// UpdatePrice sets one price tier and records who changed it.
func (s *Store) UpdatePrice(id string, field models.PriceField, value float64, user string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.safeMode {
		return models.Product{}, ErrSafeMode
	}
	i := s.productIndex(id)
	if i < 0 {
		return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if value < 0 {
		return models.Product{}, fmt.Errorf("%w: negative price", ErrInvalidProduct)
	}
	updated := s.inventory[i].Clone()
	switch field {
	case models.PriceCustomer:
		updated.CustomerPrice = value
	case models.PriceTechnician:
		updated.TechnicianPrice = value
	case models.PricePurchase:
		updated.PurchasePrice = value
	default:
		return models.Product{}, fmt.Errorf("%w: unknown price field %q", ErrInvalidProduct, field)
	}
	if err := s.commitEdit(i, updated, "", user); err != nil {
		return models.Product{}, err
	}
	return updated, nil
}

// PriceReveal is what a code unlocks on the product card.
type PriceReveal struct {
	Level           string   `json:"level"` // cust, tech or admin
	CustomerPrice   *float64 `json:"customerPrice,omitempty"`
	TechnicianPrice *float64 `json:"technicianPrice,omitempty"`
	PurchasePrice   *float64 `json:"purchasePrice,omitempty"`
}

// CustomerCode (or an empty code) reveals the selling price.
const CustomerCode = "CUST"

// RevealPrices shows the price tiers a code is entitled to see.
func (s *Store) RevealPrices(id, code string) (PriceReveal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lookup(id)
	if !ok {
		return PriceReveal{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	input := strings.ToUpper(strings.TrimSpace(code))
	cust, tech, purchase := p.CustomerPrice, p.TechnicianPrice, p.PurchasePrice

	switch {
	case input != "" && strings.EqualFold(input, strings.TrimSpace(s.resolver.TechCode)):
		s.player.Play(feedback.ScanSuccess)
		return PriceReveal{Level: "tech", TechnicianPrice: &tech}, nil
	case input == CustomerCode || input == "":
		s.player.Play(feedback.ScanSuccess)
		return PriceReveal{Level: "cust", CustomerPrice: &cust}, nil
	}
	if err := auth.RequireAdmin(s.pins, code); err == nil {
		s.logSecurity(models.EventPriceCheck, "Admin viewed purchase price: "+p.PartName, models.SeverityLow)
		s.player.Play(feedback.ScanSuccess)
		return PriceReveal{Level: "admin", CustomerPrice: &cust, TechnicianPrice: &tech, PurchasePrice: &purchase}, nil
	}
	s.player.Play(feedback.ScanError)
	return PriceReveal{}, billing.ErrInvalidCode
}
