package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"khata-pos/internal/reports"
)

// ReportXLSX writes the period report as a workbook with one sheet per section.
func ReportXLSX(shop ShopInfo, s reports.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, err
	}
	rows := [][]interface{}{
		{shop.Name},
		{s.Label},
		{},
		{"Total Sales", s.TotalSales},
		{"Bills", s.BillCount},
		{"Items Sold", s.TotalItems},
		{"Khata Outstanding", s.KhataTotal},
		{"Stock Asset Value", s.StockAssetValue},
		{"Units In Stock", s.TotalStockUnits},
	}
	if err := writeRows(f, summary, rows); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(summary, "A1", "A1", bold)

	sales := [][]interface{}{{"Bill #", "Date", "Type", "Customer", "Mobile", "Payment", "Subtotal", "Discount", "GST", "Total", "Notes"}}
	for _, b := range s.Bills {
		sales = append(sales, []interface{}{
			b.ID, b.Date.Format("2006-01-02 15:04"), string(b.Type), b.CustomerName, b.CustomerMobile,
			string(b.PaymentMethod), b.Subtotal, b.Discount, b.GST, b.Total, b.Notes,
		})
	}
	if err := newSheet(f, "Sales", sales, bold); err != nil {
		return nil, err
	}

	khata := [][]interface{}{{"ID", "Technician", "Mobile", "Balance", "Limit", "Trust"}}
	for _, t := range s.Technicians {
		khata = append(khata, []interface{}{t.ID, t.Name, t.Mobile, t.Balance, t.Limit, string(t.TrustLevel)})
	}
	if err := newSheet(f, "Khata", khata, bold); err != nil {
		return nil, err
	}

	dead := [][]interface{}{{"Part", "Brand", "Rack", "Qty", "Last Sold", "Aging"}}
	for _, d := range s.DeadStock {
		last := "Never"
		if d.LastSoldDate != nil {
			last = d.LastSoldDate.Format("2006-01-02")
		}
		dead = append(dead, []interface{}{d.PartName, d.Brand, d.RackLocation, d.StockQuantity, last, string(d.Aging)})
	}
	if err := newSheet(f, "Dead Stock", dead, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newSheet(f *excelize.File, name string, rows [][]interface{}, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	if err := writeRows(f, name, rows); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(name, "A1", last, headerStyle)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell := fmt.Sprintf("A%d", i+1)
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return err
		}
	}
	return nil
}
