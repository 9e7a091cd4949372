// Package render lays out bills and reports as PDF and XLSX documents.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"khata-pos/internal/models"
	"khata-pos/internal/reports"
)

// ShopInfo is printed in every document header.
type ShopInfo struct {
	Name    string
	Tagline string
	GSTIN   string
	Phone   string
}

// core PDF fonts are cp1252, so the rupee sign is spelled out
func rs(v float64) string {
	return fmt.Sprintf("Rs. %.2f", v)
}

func header(pdf *fpdf.Fpdf, shop ShopInfo, title, subtitle string) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFillColor(79, 70, 229)
	pdf.Rect(0, 0, 210, 40, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(10, 10)
	pdf.CellFormat(120, 10, tr(shop.Name), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(70, 10, tr(title), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetX(10)
	pdf.CellFormat(120, 5, tr(shop.Tagline), "", 0, "L", false, 0, "")
	pdf.CellFormat(70, 5, tr(subtitle), "", 1, "R", false, 0, "")
	var contact []string
	if shop.Phone != "" {
		contact = append(contact, "Ph: "+shop.Phone)
	}
	if shop.GSTIN != "" {
		contact = append(contact, "GSTIN: "+shop.GSTIN)
	}
	pdf.SetX(10)
	pdf.CellFormat(190, 5, tr(strings.Join(contact, "  |  ")), "", 1, "L", false, 0, "")

	pdf.SetTextColor(30, 41, 59)
	pdf.SetY(48)
}

func tableHeader(pdf *fpdf.Fpdf, widths []float64, cols ...string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(241, 245, 249)
	for i, c := range cols {
		pdf.CellFormat(widths[i], 7, c, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BillPDF renders a tax invoice or estimate.
func BillPDF(shop ShopInfo, bill models.Bill) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	title := "TAX INVOICE"
	if bill.Type == models.BillEstimate {
		title = "ESTIMATE"
	}
	header(pdf, shop, title, "Bill #"+bill.ID)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(95, 6, "Billed To", "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, "Date: "+bill.Date.Format("02 Jan 2006 15:04"), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 6, tr(bill.CustomerName), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, "Payment: "+string(bill.PaymentMethod), "", 1, "R", false, 0, "")
	if bill.CustomerMobile != "" {
		pdf.CellFormat(95, 6, bill.CustomerMobile, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	widths := []float64{10, 100, 20, 30, 30}
	tableHeader(pdf, widths, "#", "Item", "Qty", "Rate", "Amount")
	for i, item := range bill.Items {
		name := item.PartName
		if item.IsReturn() {
			name += " (Return)"
		}
		pdf.CellFormat(widths[0], 7, fmt.Sprint(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, tr(name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprint(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 7, rs(item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, rs(item.Total), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	row := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.SetX(115)
		pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, value, "", 1, "R", false, 0, "")
	}
	row("Subtotal", rs(bill.Subtotal), false)
	if bill.Discount != 0 {
		row("Discount", "- "+rs(bill.Discount), false)
	}
	if bill.GST != 0 {
		row("GST (18%)", rs(bill.GST), false)
	}
	row("Grand Total", rs(bill.Total), true)

	if len(bill.Payments) > 1 {
		for _, p := range bill.Payments {
			if p.Amount != 0 {
				row("  "+string(p.Method), rs(p.Amount), false)
			}
		}
	}
	if bill.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(190, 5, tr("Note: "+bill.Notes), "", "L", false)
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 14)
	if bill.IsPaid {
		pdf.SetTextColor(16, 185, 129)
		pdf.CellFormat(190, 10, "PAID", "", 1, "R", false, 0, "")
	} else {
		pdf.SetTextColor(239, 68, 68)
		pdf.CellFormat(190, 10, "DUE (KHATA)", "", 1, "R", false, 0, "")
	}
	pdf.SetTextColor(100, 116, 139)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(190, 5, "Thank you for your business!", "", 1, "C", false, 0, "")
	return output(pdf)
}

// ReportPDF renders the period report.
func ReportPDF(shop ShopInfo, s reports.Summary) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	header(pdf, shop, "BUSINESS REPORT", s.Label)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(190, 7, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	stats := [][2]string{
		{"Total Sales", rs(s.TotalSales)},
		{"Bills", fmt.Sprint(s.BillCount)},
		{"Items Sold", fmt.Sprint(s.TotalItems)},
		{"Khata Outstanding", rs(s.KhataTotal)},
		{"Stock Asset Value", rs(s.StockAssetValue)},
		{"Units In Stock", fmt.Sprint(s.TotalStockUnits)},
	}
	for _, st := range stats {
		pdf.CellFormat(60, 6, st[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, st[1], "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(190, 7, "Sales", "", 1, "L", false, 0, "")
	widths := []float64{28, 24, 40, 58, 20, 20}
	tableHeader(pdf, widths, "Bill #", "Date", "Customer", "Items", "Payment", "Total")
	for _, b := range s.Bills {
		var items []string
		for _, it := range b.Items {
			items = append(items, fmt.Sprintf("%s x%d", it.PartName, it.Quantity))
		}
		summary := strings.Join(items, ", ")
		if len(summary) > 38 {
			summary = summary[:35] + "..."
		}
		pdf.CellFormat(widths[0], 6, b.ID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, b.Date.Format("02/01/06"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(b.CustomerName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, tr(summary), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 6, string(b.PaymentMethod), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 6, fmt.Sprintf("%.0f", b.Total), "1", 1, "R", false, 0, "")
	}
	if len(s.Bills) == 0 {
		pdf.CellFormat(190, 6, "No bills in this period.", "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(190, 7, "Khata Balances", "", 1, "L", false, 0, "")
	tw := []float64{70, 40, 40, 40}
	tableHeader(pdf, tw, "Technician", "Mobile", "Balance", "Trust")
	for _, t := range s.Technicians {
		pdf.CellFormat(tw[0], 6, tr(t.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(tw[1], 6, t.Mobile, "1", 0, "C", false, 0, "")
		pdf.CellFormat(tw[2], 6, rs(t.Balance), "1", 0, "R", false, 0, "")
		pdf.CellFormat(tw[3], 6, string(t.TrustLevel), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(190, 7, "Dead Stock", "", 1, "L", false, 0, "")
	dw := []float64{90, 30, 30, 40}
	tableHeader(pdf, dw, "Part", "Rack", "Qty", "Last Sold")
	for _, d := range s.DeadStock {
		last := "Never"
		if d.LastSoldDate != nil {
			last = d.LastSoldDate.Format("02/01/2006")
		}
		pdf.CellFormat(dw[0], 6, tr(d.PartName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(dw[1], 6, d.RackLocation, "1", 0, "C", false, 0, "")
		pdf.CellFormat(dw[2], 6, fmt.Sprint(d.StockQuantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(dw[3], 6, last, "1", 1, "C", false, 0, "")
	}
	return output(pdf)
}
