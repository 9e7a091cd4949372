package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"khata-pos/internal/auth"
	"khata-pos/internal/billing"
	"khata-pos/internal/feedback"
	"khata-pos/internal/ledger"
	"khata-pos/internal/models"
	"khata-pos/internal/stock"
	"khata-pos/internal/utils"
)

// CartView is the counter screen: lines, active code and computed totals.
type CartView struct {
	Lines             []models.CartLine `json:"lines"`
	ReturnMode        bool              `json:"returnMode"`
	ReturnReason      string            `json:"returnReason,omitempty"`
	TaxEnabled        bool              `json:"taxEnabled"`
	Discount          *billing.Discount `json:"discount,omitempty"`
	ManualTotal       string            `json:"manualTotal,omitempty"`
	ManualDescription string            `json:"manualDescription,omitempty"`
	Totals            billing.Totals    `json:"totals"`
	ManualError       string            `json:"manualError,omitempty"`
}

func (s *Store) view() CartView {
	ss := s.session
	v := CartView{
		Lines:             ss.cart.Snapshot(),
		ReturnMode:        ss.cart.ReturnMode,
		ReturnReason:      ss.returnReason,
		TaxEnabled:        ss.taxEnabled,
		ManualTotal:       ss.manualTotal,
		ManualDescription: ss.manualDesc,
	}
	if v.Lines == nil {
		v.Lines = []models.CartLine{}
	}
	if ss.discount != nil {
		d := *ss.discount
		v.Discount = &d
	}
	totals, err := billing.Compile(ss.cart.Lines, ss.discount, ss.taxEnabled, ss.manualTotal)
	if err != nil {
		v.ManualError = err.Error()
	}
	v.Totals = totals
	return v
}

// Cart returns the sale in progress.
func (s *Store) Cart() CartView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view()
}

// AddToCart adds quantity units (negative to decrease) of a product at the
// tier of the active code.
func (s *Store) AddToCart(productID string, quantity int) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.addToCart(productID, quantity); err != nil {
		return s.view(), err
	}
	s.player.Play(feedback.AddToCart)
	return s.view(), nil
}

func (s *Store) addToCart(productID string, quantity int) error {
	if s.safeMode {
		return ErrSafeMode
	}
	p, ok := s.lookup(productID)
	if !ok {
		s.player.Play(feedback.ScanError)
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	if err := s.session.cart.Add(p, quantity, s.session.discount.Tier()); err != nil {
		s.player.Play(feedback.ScanError)
		return err
	}
	return nil
}

// ScanCode adds one unit of the product carrying barcode.
func (s *Store) ScanCode(code string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.findByBarcode(code)
	if err != nil {
		utils.ScansTotal.WithLabelValues("not_found").Inc()
		s.player.Play(feedback.ScanError)
		return models.Product{}, err
	}
	if err := s.addToCart(p.ID, 1); err != nil {
		utils.ScansTotal.WithLabelValues("rejected").Inc()
		return p, err
	}
	utils.ScansTotal.WithLabelValues("added").Inc()
	s.player.Play(feedback.ScanSuccess)
	return p, nil
}

func (s *Store) RemoveLine(productID string) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.cart.Remove(productID)
	s.player.Play(feedback.Delete)
	return s.view()
}

// ClearCart voids the sale in progress. With "no bill, no exit" active, a
// non-empty cart can only be cleared with the admin PIN.
func (s *Store) ClearCart(pin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.session.cart
	if s.noBillNoExit && !cart.IsEmpty() {
		if err := auth.RequireAdmin(s.pins, pin); err != nil {
			return ErrAuthFailed
		}
	}
	if !cart.IsEmpty() {
		totals, _ := billing.Compile(cart.Lines, s.session.discount, s.session.taxEnabled, s.session.manualTotal)
		if totals.Total > s.opts.VoidAlertThreshold {
			s.logSecurity(models.EventVoidBill,
				fmt.Sprintf("Cart cleared with value ₹%s. Items: %d", formatAmount(totals.Total), len(cart.Lines)),
				models.SeverityMedium)
		}
	}
	s.resetSession()
	s.player.Play(feedback.Delete)
	return nil
}

func (s *Store) resetSession() {
	s.session.cart.Reset()
	s.session.discount = nil
	s.session.manualTotal = ""
	s.session.manualDesc = ""
	s.session.returnReason = ""
}

// SetReturnMode switches new lines between sale and refund.
func (s *Store) SetReturnMode(enabled bool, reason string) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.cart.ReturnMode = enabled
	if enabled {
		s.session.returnReason = strings.TrimSpace(reason)
	} else {
		s.session.returnReason = ""
	}
	s.player.Play(feedback.Click)
	return s.view()
}

func (s *Store) SetTax(enabled bool) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.taxEnabled = enabled
	return s.view()
}

// ApplyCode activates a pricing code, replacing any active one. An unknown
// code leaves the cart untouched.
func (s *Store) ApplyCode(code string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.resolver.Resolve(code)
	if err != nil {
		s.player.Play(feedback.ScanError)
		return s.view(), err
	}
	s.session.discount = &d
	s.session.manualTotal = ""
	s.session.manualDesc = ""
	if tier, ok := d.RepricesTo(); ok {
		s.session.cart.Reprice(s.lookup, tier)
	}
	if d.Kind == billing.KindManual {
		totals, _ := billing.Compile(s.session.cart.Lines, &d, s.session.taxEnabled, "")
		s.session.manualTotal = formatAmount(totals.Computed)
	}
	s.player.Play(feedback.ScanSuccess)
	return s.view(), nil
}

// RemoveCode drops the active code and returns every line to customer price.
func (s *Store) RemoveCode() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.discount = nil
	s.session.manualTotal = ""
	s.session.manualDesc = ""
	s.session.cart.Reprice(s.lookup, billing.TierCustomer)
	s.player.Play(feedback.Delete)
	return s.view()
}

// SetManualTotal overrides the payable amount while the manual code is active.
func (s *Store) SetManualTotal(total, description string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.discount == nil || s.session.discount.Kind != billing.KindManual {
		return s.view(), ErrManualInactive
	}
	if _, err := billing.ParseManualTotal(total); err != nil {
		return s.view(), err
	}
	s.session.manualTotal = strings.TrimSpace(total)
	s.session.manualDesc = strings.TrimSpace(description)
	return s.view(), nil
}

// CheckoutRequest is the payment dialog submission.
type CheckoutRequest struct {
	Type           models.BillKind        `json:"type"`
	Payment        billing.PaymentRequest `json:"payment"`
	CustomerName   string                 `json:"customerName"`
	CustomerMobile string                 `json:"customerMobile"`
}

// WalkInCustomer names bills raised without customer details.
const WalkInCustomer = "Walk-in Customer"

// Checkout turns the cart into a bill. Every check runs before any state is
// touched, so a rejected checkout leaves stock, ledger and cart as they were.
// Final bills (and estimates, when configured) move stock and post Khata.
func (s *Store) Checkout(req CheckoutRequest) (models.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bill, err := s.prepareBill(req)
	if err != nil {
		utils.CheckoutRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
		s.player.Play(feedback.ScanError)
		return models.Bill{}, err
	}

	at := bill.Date
	if bill.Type == models.BillFinal || s.opts.EstimateSideEffects {
		entries, err := s.khataEntries(bill)
		if err != nil {
			utils.CheckoutRejectedTotal.WithLabelValues("ledger").Inc()
			return models.Bill{}, err
		}
		s.appendLedger(entries...)
		s.addStockLogs(stock.ApplyBillEffects(s.inventory, bill, at, s.newID)...)
	}

	s.bills = append([]models.Bill{bill.Clone()}, s.bills...)
	s.resetSession()

	utils.BillsCreatedTotal.WithLabelValues(string(bill.Type), string(bill.PaymentMethod)).Inc()
	if bill.Type == models.BillFinal {
		utils.SalesAmountTotal.Add(bill.Total)
	}
	s.log.Info("💰 bill saved",
		zap.String("id", bill.ID),
		zap.String("type", string(bill.Type)),
		zap.Float64("total", bill.Total),
		zap.String("payment", string(bill.PaymentMethod)))
	s.player.Play(feedback.PaymentSuccess)
	return bill, nil
}

func (s *Store) prepareBill(req CheckoutRequest) (models.Bill, error) {
	if s.safeMode {
		return models.Bill{}, ErrSafeMode
	}
	if s.session.cart.IsEmpty() {
		return models.Bill{}, billing.ErrEmptyCart
	}
	kind := req.Type
	if kind == "" {
		kind = models.BillFinal
	}
	if kind != models.BillFinal && kind != models.BillEstimate {
		return models.Bill{}, fmt.Errorf("%w: %q", ErrInvalidBillType, kind)
	}

	totals, err := billing.Compile(s.session.cart.Lines, s.session.discount, s.session.taxEnabled, s.session.manualTotal)
	if err != nil {
		return models.Bill{}, err
	}

	var tech *models.Technician
	if id := req.Payment.TechnicianID; id != "" {
		i := s.techIndex(id)
		if i < 0 {
			return models.Bill{}, fmt.Errorf("technician %s: %w", id, ErrNotFound)
		}
		tech = &s.technicians[i]
	}

	payments, err := billing.BuildPayments(req.Payment, totals.Total)
	if err != nil {
		return models.Bill{}, err
	}

	bill := models.Bill{
		ID:             s.newID("BL"),
		Date:           s.now(),
		Items:          s.session.cart.Snapshot(),
		Subtotal:       totals.Subtotal,
		Discount:       totals.Discount,
		GST:            totals.Tax,
		Total:          totals.Total,
		Type:           kind,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerMobile: strings.TrimSpace(req.CustomerMobile),
		PaymentMethod:  req.Payment.Label(),
		Payments:       payments,
		IsPaid:         billing.IsPaid(payments),
		Notes:          s.billNotes(),
	}
	if tech != nil {
		bill.TechnicianID = tech.ID
		bill.CustomerName = tech.Name
		bill.CustomerMobile = tech.Mobile
	} else if bill.CustomerName == "" {
		bill.CustomerName = WalkInCustomer
	}
	return bill, nil
}

func (s *Store) billNotes() string {
	if s.session.cart.ReturnMode {
		return "RETURN: " + s.session.returnReason
	}
	if d := s.session.discount; d != nil && d.Kind == billing.KindManual {
		if s.session.manualDesc != "" {
			return "Manual Adj: " + s.session.manualDesc
		}
		return "Price Adjusted Manually"
	}
	return ""
}

// khataEntries builds the ledger entries for the bill's Khata allocations.
func (s *Store) khataEntries(bill models.Bill) ([]models.LedgerEntry, error) {
	postings := billing.KhataPostings(bill.Payments, bill.TechnicianID)
	if len(postings) == 0 {
		return nil, nil
	}
	desc := khataDescription(bill)
	entries := make([]models.LedgerEntry, 0, len(postings))
	for _, p := range postings {
		e, err := ledger.NewEntry(s.newID("LG"), p.TechnicianID, p.Amount, p.Kind, desc, bill.Date)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// khataDescription summarises a bill for the technician's statement,
// e.g. "Bill #A1B2 (Partial): LG PCB (1), Gas Valve (2)...".
func khataDescription(bill models.Bill) string {
	parts := make([]string, len(bill.Items))
	for i, item := range bill.Items {
		parts[i] = fmt.Sprintf("%s (%d)", item.PartName, item.Quantity)
	}
	summary := strings.Join(parts, ", ")
	if bill.Notes != "" {
		summary += " | " + bill.Notes
	}
	if r := []rune(summary); len(r) > 50 {
		summary = string(r[:50])
	}
	id := bill.ID
	if len(id) > 4 {
		id = id[len(id)-4:]
	}
	return fmt.Sprintf("Bill #%s (Partial): %s...", id, summary)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, billing.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, billing.ErrSplitMismatch):
		return "split_mismatch"
	case errors.Is(err, billing.ErrCounterpartyRequired):
		return "no_technician"
	case errors.Is(err, billing.ErrInvalidManualTotal):
		return "manual_total"
	case errors.Is(err, ErrSafeMode):
		return "safe_mode"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	}
	return "invalid"
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
