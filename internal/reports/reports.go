// Package reports derives the dashboard and period reports from bills,
// inventory and Khata accounts. Everything here is a pure function of its inputs.
package reports

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"khata-pos/internal/ledger"
	"khata-pos/internal/models"
	"khata-pos/internal/stock"
)

// ErrInvalidRange is returned for an unknown range or a custom range with bad dates.
var ErrInvalidRange = errors.New("invalid report range")

func sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(2).InexactFloat64()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// counted reports whether a bill is revenue. Estimates are quotes only.
func counted(b models.Bill) bool { return b.Type != models.BillEstimate }

// SalesReportResult is revenue and bill count over a window.
type SalesReportResult struct {
	TotalRevenue float64 `json:"totalRevenue"`
	TotalCount   int64   `json:"totalCount"`
}

// Sales totals final bills dated in [start, end).
func Sales(bills []models.Bill, start, end time.Time) SalesReportResult {
	var result SalesReportResult
	var amounts []float64
	for _, b := range bills {
		if !counted(b) || b.Date.Before(start) || !b.Date.Before(end) {
			continue
		}
		amounts = append(amounts, b.Total)
		result.TotalCount++
	}
	result.TotalRevenue = sum(amounts...)
	return result
}

// DailyTotal is today's takings.
func DailyTotal(bills []models.Bill, now time.Time) float64 {
	start := startOfDay(now)
	return Sales(bills, start, start.AddDate(0, 0, 1)).TotalRevenue
}

// StockValue is on-hand stock at purchase price.
func StockValue(inventory []models.Product) float64 {
	values := make([]float64, 0, len(inventory))
	for _, p := range inventory {
		values = append(values, float64(p.StockQuantity)*p.PurchasePrice)
	}
	return sum(values...)
}

// DeadItem is a product flagged in the dead-stock list.
type DeadItem struct {
	models.Product
	Aging stock.Aging `json:"aging"`
}

// DeadStock lists products with stock that have not sold within days.
// Products that never sold are included.
func DeadStock(inventory []models.Product, now time.Time, days int) []DeadItem {
	cutoff := now.AddDate(0, 0, -days)
	out := []DeadItem{}
	for _, p := range inventory {
		if p.StockQuantity <= 0 {
			continue
		}
		if p.LastSoldDate != nil && !p.LastSoldDate.Before(cutoff) {
			continue
		}
		out = append(out, DeadItem{Product: p.Clone(), Aging: stock.DeadStockStatus(p.LastSoldDate, now)})
	}
	return out
}

func LowStock(inventory []models.Product) []models.Product {
	out := []models.Product{}
	for _, p := range inventory {
		if stock.IsLow(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// DayPoint is one bar of the weekly chart.
type DayPoint struct {
	Date  string  `json:"date"`
	Name  string  `json:"name"`
	Sales float64 `json:"sales"`
}

// WeeklySales returns takings for the seven days ending today, oldest first.
func WeeklySales(bills []models.Bill, now time.Time) []DayPoint {
	today := startOfDay(now)
	points := make([]DayPoint, 7)
	for i := range points {
		day := today.AddDate(0, 0, i-6)
		points[i] = DayPoint{
			Date:  day.Format("2006-01-02"),
			Name:  day.Weekday().String()[:3],
			Sales: Sales(bills, day, day.AddDate(0, 0, 1)).TotalRevenue,
		}
	}
	return points
}

// ItemCount is units sold of one part.
type ItemCount struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// TopSelling ranks parts by units sold; returns are not counted.
func TopSelling(bills []models.Bill, n int) []ItemCount {
	counts := map[string]int{}
	for _, b := range bills {
		if !counted(b) {
			continue
		}
		for _, item := range b.Items {
			if !item.IsReturn() {
				counts[item.PartName] += item.Quantity
			}
		}
	}
	out := make([]ItemCount, 0, len(counts))
	for name, qty := range counts {
		out = append(out, ItemCount{Name: name, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Dashboard is the admin home screen.
type Dashboard struct {
	TodaySales     float64     `json:"todaySales"`
	TotalBills     int         `json:"totalBills"`
	TodayBills     int         `json:"todayBills"`
	StockValue     float64     `json:"stockValue"`
	LowStockCount  int         `json:"lowStockCount"`
	DeadStockCount int         `json:"deadStockCount"`
	Weekly         []DayPoint  `json:"weekly"`
	TopSelling     []ItemCount `json:"topSelling"`
}

func BuildDashboard(bills []models.Bill, inventory []models.Product, now time.Time, deadDays int) Dashboard {
	today := startOfDay(now)
	d := Dashboard{
		TodaySales: DailyTotal(bills, now),
		TotalBills: len(bills),
		StockValue: StockValue(inventory),
		Weekly:     WeeklySales(bills, now),
		TopSelling: TopSelling(bills, 4),
	}
	for _, b := range bills {
		if !b.Date.Before(today) && b.Date.Before(today.AddDate(0, 0, 1)) {
			d.TodayBills++
		}
	}
	for _, p := range inventory {
		if stock.IsLow(p) {
			d.LowStockCount++
		}
		if stock.IsDead(p, now, deadDays) {
			d.DeadStockCount++
		}
	}
	return d
}

// Range selects the bills a period report covers.
type Range string

const (
	RangeToday  Range = "today"
	RangeCustom Range = "custom"
	RangeAll    Range = "all"
)

// Period is a report window. From and To are calendar days (YYYY-MM-DD), To inclusive.
type Period struct {
	Range Range  `json:"range" form:"range"`
	From  string `json:"from,omitempty" form:"from"`
	To    string `json:"to,omitempty" form:"to"`
}

// Label is the heading printed on the report.
func (p Period) Label(now time.Time) string {
	switch p.Range {
	case RangeAll:
		return "All Time History"
	case RangeCustom:
		return "From " + p.From + " To " + p.To
	}
	return "Date: " + now.Format("02/01/2006")
}

// Bounds resolves the period to [start, end). The zero times mean unbounded.
func (p Period) Bounds(now time.Time) (time.Time, time.Time, error) {
	switch p.Range {
	case RangeToday, "":
		start := startOfDay(now)
		return start, start.AddDate(0, 0, 1), nil
	case RangeAll:
		return time.Time{}, time.Time{}, nil
	case RangeCustom:
		from, err := time.ParseInLocation("2006-01-02", p.From, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidRange
		}
		to, err := time.ParseInLocation("2006-01-02", p.To, now.Location())
		if err != nil || to.Before(from) {
			return time.Time{}, time.Time{}, ErrInvalidRange
		}
		return from, to.AddDate(0, 0, 1), nil
	}
	return time.Time{}, time.Time{}, ErrInvalidRange
}

// Filter returns the bills inside the period, in input order.
func (p Period) Filter(bills []models.Bill, now time.Time) ([]models.Bill, error) {
	start, end, err := p.Bounds(now)
	if err != nil {
		return nil, err
	}
	out := []models.Bill{}
	for _, b := range bills {
		if !start.IsZero() && (b.Date.Before(start) || !b.Date.Before(end)) {
			continue
		}
		out = append(out, b.Clone())
	}
	return out, nil
}

// TechBalance is one row of the Khata section.
type TechBalance struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Mobile     string            `json:"mobile"`
	Balance    float64           `json:"balance"`
	Limit      float64           `json:"limit"`
	TrustLevel models.TrustLevel `json:"trustLevel"`
}

// Summary is the period report.
type Summary struct {
	Period          Period        `json:"period"`
	Label           string        `json:"label"`
	GeneratedAt     time.Time     `json:"generatedAt"`
	Bills           []models.Bill `json:"bills"`
	BillCount       int           `json:"billCount"`
	TotalSales      float64       `json:"totalSales"`
	TotalItems      int           `json:"totalItems"`
	KhataTotal      float64       `json:"khataTotal"`
	StockAssetValue float64       `json:"stockAssetValue"`
	TotalStockUnits int           `json:"totalStockUnits"`
	DeadStock       []DeadItem    `json:"deadStock"`
	Technicians     []TechBalance `json:"technicians"`
}

func Summarize(p Period, bills []models.Bill, inventory []models.Product, techs []models.Technician, now time.Time, deadDays int) (Summary, error) {
	filtered, err := p.Filter(bills, now)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{
		Period:          p,
		Label:           p.Label(now),
		GeneratedAt:     now,
		Bills:           filtered,
		BillCount:       len(filtered),
		KhataTotal:      ledger.Outstanding(techs),
		StockAssetValue: StockValue(inventory),
		DeadStock:       DeadStock(inventory, now, deadDays),
		Technicians:     []TechBalance{},
	}
	var totals []float64
	for _, b := range filtered {
		if counted(b) {
			totals = append(totals, b.Total)
		}
		for _, item := range b.Items {
			s.TotalItems += item.Quantity
		}
	}
	s.TotalSales = sum(totals...)
	for _, pr := range inventory {
		s.TotalStockUnits += pr.StockQuantity
	}
	for _, t := range techs {
		s.Technicians = append(s.Technicians, TechBalance{
			ID: t.ID, Name: t.Name, Mobile: t.Mobile, Balance: t.Balance, Limit: t.Limit, TrustLevel: t.TrustLevel,
		})
	}
	return s, nil
}
