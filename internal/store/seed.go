package store

import (
	"khata-pos/internal/ledger"
	"khata-pos/internal/models"
)

// Seed loads the demo catalog and Khata accounts into an empty store.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.inventory) > 0 || len(s.technicians) > 0 {
		return
	}
	at := s.now()

	s.inventory = []models.Product{
		{
			ID:                "1",
			Barcode:           "LG-PCB-001",
			MachineType:       models.MachineAC,
			Brand:             "LG",
			PartType:          "PCB",
			PartName:          "LG Dual Inverter Universal PCB",
			CompatibleModels:  []string{"LG 1.5 Ton", "LG 2 Ton Inverter"},
			RackLocation:      "A-12",
			StockQuantity:     15,
			LowStockThreshold: 5,
			SupplierName:      "Reliable Spares",
			PurchasePrice:     2200,
			TechnicianPrice:   2800,
			CustomerPrice:     3500,
			Images:            []string{"https://picsum.photos/seed/pcb/400/300"},
			IsFastMoving:      true,
		},
		{
			ID:                "2",
			Barcode:           "SAM-CMP-002",
			MachineType:       models.MachineFridge,
			Brand:             "Samsung",
			PartType:          "Compressor",
			PartName:          "Samsung 190L Inverter Compressor",
			CompatibleModels:  []string{"Samsung Single Door", "Whirlpool Pro"},
			RackLocation:      "B-04",
			StockQuantity:     4,
			LowStockThreshold: 5,
			SupplierName:      "Metro Refrigeration",
			PurchasePrice:     4500,
			TechnicianPrice:   5200,
			CustomerPrice:     6500,
			Images:            []string{"https://picsum.photos/seed/comp/400/300"},
		},
	}
	s.technicians = []models.Technician{
		{ID: "T1", Name: "Ramesh Kumar", Mobile: "9876543210", Limit: 5000},
		{ID: "T2", Name: "Sunil Refrigeration", Mobile: "9123456780", Limit: 10000, OpeningBalance: -400},
	}
	s.ledger = []models.LedgerEntry{
		{ID: "L1", TechnicianID: "T1", Date: at, Description: ledger.OpeningBalanceLabel, Amount: 1250, Type: models.Debit},
	}
	ledger.Refresh(s.technicians, s.ledger)
}
