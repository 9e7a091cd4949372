package reports

import (
	"sort"

	"khata-pos/internal/models"
)

// ValuationItem is one product row of the valuation report.
type ValuationItem struct {
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Quantity      int     `json:"quantity"`
	PurchasePrice float64 `json:"purchasePrice"`
	TotalCost     float64 `json:"totalCost"`
}

// MachineGroup is one table of the report (e.g. "Fridge").
type MachineGroup struct {
	MachineType models.MachineType `json:"machineType"`
	Items       []ValuationItem    `json:"items"`
	Units       int                `json:"units"`
	Subtotal    float64            `json:"subtotal"`
}

type Valuation struct {
	Groups     []MachineGroup `json:"groups"`
	GrandTotal float64        `json:"grandTotal"`
}

// Unassigned groups products saved without a machine type.
const Unassigned models.MachineType = "Unassigned"

// StockValuation values on-hand stock at purchase price, grouped by machine type.
func StockValuation(inventory []models.Product) Valuation {
	grouped := make(map[models.MachineType]*MachineGroup)
	var all []float64

	for _, p := range inventory {
		machine := p.MachineType
		if machine == "" {
			machine = Unassigned
		}
		g, ok := grouped[machine]
		if !ok {
			g = &MachineGroup{MachineType: machine, Items: []ValuationItem{}}
			grouped[machine] = g
		}

		total := sum(float64(p.StockQuantity) * p.PurchasePrice)
		g.Items = append(g.Items, ValuationItem{
			Name:          p.PartName,
			Brand:         p.Brand,
			Quantity:      p.StockQuantity,
			PurchasePrice: p.PurchasePrice,
			TotalCost:     total,
		})
		g.Units += p.StockQuantity
		g.Subtotal = sum(g.Subtotal, total)
		all = append(all, total)
	}

	v := Valuation{Groups: []MachineGroup{}, GrandTotal: sum(all...)}
	for _, g := range grouped {
		v.Groups = append(v.Groups, *g)
	}
	sort.Slice(v.Groups, func(i, j int) bool { return v.Groups[i].MachineType < v.Groups[j].MachineType })
	return v
}
