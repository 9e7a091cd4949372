package models

import (
	"time"
)

// MachineType - The appliance family a spare part belongs to
type MachineType string

const (
	MachineAC             MachineType = "AC"
	MachineFridge         MachineType = "Fridge"
	MachineWashingMachine MachineType = "Washing Machine"
)

// TrackingInfo - Box/Lot tracking for a received batch
type TrackingInfo struct {
	BatchNumber     string `json:"batchNumber,omitempty"`
	SupplierInvoice string `json:"supplierInvoice,omitempty"`
	PurchaseDate    string `json:"purchaseDate,omitempty"` // YYYY-MM-DD
}

// Product - The Inventory (one sellable spare part)
type Product struct {
	ID                string        `json:"id"`
	Barcode           string        `json:"barcode"`
	MachineType       MachineType   `json:"machineType"`
	Brand             string        `json:"brand"`
	PartType          string        `json:"partType"`
	PartName          string        `json:"partName"`
	CompatibleModels  []string      `json:"compatibleModels"`
	RackLocation      string        `json:"rackLocation"`
	StockQuantity     int           `json:"stockQuantity"`
	LowStockThreshold int           `json:"lowStockThreshold"`
	SupplierName      string        `json:"supplierName"`
	PurchasePrice     float64       `json:"purchasePrice"`
	TechnicianPrice   float64       `json:"technicianPrice"`
	CustomerPrice     float64       `json:"customerPrice"`
	Images            []string      `json:"images"`
	IsFastMoving      bool          `json:"isFastMoving"`
	Notes             string        `json:"notes,omitempty"`
	OwnerNotes        string        `json:"ownerNotes,omitempty"`
	LastSoldDate      *time.Time    `json:"lastSoldDate,omitempty"`
	TrackingInfo      *TrackingInfo `json:"trackingInfo,omitempty"`
}

// Clone returns a copy that shares no slices or pointers with p.
func (p Product) Clone() Product {
	out := p
	out.CompatibleModels = append([]string(nil), p.CompatibleModels...)
	out.Images = append([]string(nil), p.Images...)
	if p.LastSoldDate != nil {
		t := *p.LastSoldDate
		out.LastSoldDate = &t
	}
	if p.TrackingInfo != nil {
		ti := *p.TrackingInfo
		out.TrackingInfo = &ti
	}
	return out
}

// CartLine - A line in the working cart, and the snapshot stored on a Bill.
// A negative Price marks a returned item.
type CartLine struct {
	ProductID string  `json:"productId"`
	PartName  string  `json:"partName"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
}

// IsReturn reports whether the line refunds goods back into stock.
func (l CartLine) IsReturn() bool { return l.Price < 0 }

// PaymentMethod - How (part of) a bill was settled
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentOnline PaymentMethod = "Online"
	PaymentKhata  PaymentMethod = "Khata" // deferred credit on a technician's ledger
	PaymentSplit  PaymentMethod = "Split" // marker on Bill.PaymentMethod only
)

// Valid reports whether m is a real payment instrument (Split is not one).
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentOnline, PaymentKhata:
		return true
	}
	return false
}

// Payment - One allocation of the bill total to an instrument
type Payment struct {
	Method PaymentMethod `json:"method"`
	Amount float64       `json:"amount"`
}

// BillKind - Estimate quotes vs Final invoices
type BillKind string

const (
	BillEstimate BillKind = "Estimate"
	BillFinal    BillKind = "Final"
)

// Bill - The Transaction Header. Created once at checkout, never mutated afterwards.
type Bill struct {
	ID             string        `json:"id"`
	Date           time.Time     `json:"date"`
	Items          []CartLine    `json:"items"`
	Subtotal       float64       `json:"subtotal"`
	Discount       float64       `json:"discount"`
	GST            float64       `json:"gst"`
	Total          float64       `json:"total"`
	Type           BillKind      `json:"type"`
	CustomerName   string        `json:"customerName"`
	CustomerMobile string        `json:"customerMobile"`
	TechnicianID   string        `json:"technicianId,omitempty"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	Payments       []Payment     `json:"payments,omitempty"`
	IsPaid         bool          `json:"isPaid"`
	Notes          string        `json:"notes,omitempty"`
}

// Clone returns a deep copy of the bill.
func (b Bill) Clone() Bill {
	out := b
	out.Items = append([]CartLine(nil), b.Items...)
	out.Payments = append([]Payment(nil), b.Payments...)
	return out
}

// TrustLevel - Derived credit-worthiness of a technician
type TrustLevel string

const (
	TrustReliable TrustLevel = "Reliable"
	TrustAverage  TrustLevel = "Average"
	TrustRisky    TrustLevel = "Risky"
)

// Technician - A Khata counterparty (recurring trade customer).
// Balance > 0 means the shop will collect from them.
type Technician struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Company        string     `json:"company,omitempty"`
	Address        string     `json:"address,omitempty"`
	Mobile         string     `json:"mobile"`
	Balance        float64    `json:"balance"`
	Limit          float64    `json:"limit"`
	OpeningBalance float64    `json:"openingBalance,omitempty"`
	TrustScore     int        `json:"trustScore,omitempty"`
	TrustLevel     TrustLevel `json:"trustLevel,omitempty"`
}

// LedgerKind - Direction of a Khata entry
type LedgerKind string

const (
	Debit  LedgerKind = "Debit"  // shop is owed more
	Credit LedgerKind = "Credit" // payment received / refund owed
)

// LedgerEntry - Append-only Khata record
type LedgerEntry struct {
	ID           string     `json:"id"`
	TechnicianID string     `json:"technicianId"`
	Date         time.Time  `json:"date"`
	Description  string     `json:"description"`
	Amount       float64    `json:"amount"`
	Type         LedgerKind `json:"type"`
}

// StockReason - Closed set of reasons for a manual stock change
type StockReason string

const (
	ReasonBreakage        StockReason = "Breakage"
	ReasonLost            StockReason = "Lost"
	ReasonFreeReplacement StockReason = "Free Replacement"
	ReasonSampleGiven     StockReason = "Sample Given"
	ReasonAuditCorrection StockReason = "Audit Correction"
	ReasonNewStock        StockReason = "New Stock"
	ReasonReturnRestock   StockReason = "Return Restock"
)

// StockReasons lists every accepted reason in display order.
var StockReasons = []StockReason{
	ReasonBreakage,
	ReasonLost,
	ReasonFreeReplacement,
	ReasonSampleGiven,
	ReasonAuditCorrection,
	ReasonNewStock,
	ReasonReturnRestock,
}

// Valid reports whether r is one of StockReasons.
func (r StockReason) Valid() bool {
	for _, v := range StockReasons {
		if r == v {
			return true
		}
	}
	return false
}

// StockLog - Audit trail of quantity changes
type StockLog struct {
	ID          string      `json:"id"`
	Date        time.Time   `json:"date"`
	ProductID   string      `json:"productId"`
	ProductName string      `json:"productName"`
	Change      int         `json:"change"`
	Reason      StockReason `json:"reason"`
	NewStock    int         `json:"newStock"`
}

// PriceField - Which price tier a PriceLog refers to
type PriceField string

const (
	PricePurchase   PriceField = "Purchase"
	PriceTechnician PriceField = "Technician"
	PriceCustomer   PriceField = "Customer"
)

// PriceLog - Audit trail of price edits
type PriceLog struct {
	ID          string     `json:"id"`
	Date        time.Time  `json:"date"`
	ProductID   string     `json:"productId"`
	ProductName string     `json:"productName"`
	Field       PriceField `json:"field"`
	OldVal      float64    `json:"oldVal"`
	NewVal      float64    `json:"newVal"`
	User        string     `json:"user"`
}

// SecurityEventType - Flagged operations surfaced as notifications
type SecurityEventType string

const (
	EventVoidBill   SecurityEventType = "VOID_BILL"
	EventPriceCheck SecurityEventType = "PRICE_CHECK"
	EventStockEdit  SecurityEventType = "STOCK_EDIT"
	EventSafeMode   SecurityEventType = "SAFE_MODE"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SecurityLog - Append-only audit of flagged operations
type SecurityLog struct {
	ID        string            `json:"id"`
	Type      SecurityEventType `json:"type"`
	Details   string            `json:"details"`
	Timestamp time.Time         `json:"timestamp"`
	Severity  Severity          `json:"severity"`
}
