// Package backup reads and writes the shop's JSON backup file.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"khata-pos/internal/models"
)

// Version is written into every full backup.
const Version = "1.0"

var (
	// ErrMalformed is returned when the payload is not a JSON object.
	ErrMalformed = errors.New("backup is not a valid JSON object")
	// ErrNoKnownKeys is returned when the object carries none of the backup keys.
	ErrNoKnownKeys = errors.New("backup contains no recognised data")
	// ErrNotArray is returned when an inventory file is not a JSON array.
	ErrNotArray = errors.New("inventory file must be a JSON array of products")
)

// Snapshot is the full backup. A nil field was absent from the file and
// leaves the corresponding state untouched on import.
type Snapshot struct {
	Inventory    *[]models.Product     `json:"inventory,omitempty"`
	Bills        *[]models.Bill        `json:"bills,omitempty"`
	Technicians  *[]models.Technician  `json:"technicians,omitempty"`
	Ledger       *[]models.LedgerEntry `json:"ledger,omitempty"`
	AdminPIN     *string               `json:"adminPin,omitempty"`
	TechCode     *string               `json:"techCode,omitempty"`
	SecurityLogs *[]models.SecurityLog `json:"securityLogs,omitempty"`
	StockLogs    *[]models.StockLog    `json:"stockLogs,omitempty"`
	PriceLogs    *[]models.PriceLog    `json:"priceLogs,omitempty"`
	Timestamp    string                `json:"timestamp,omitempty"`
	Version      string                `json:"version,omitempty"`
}

var knownKeys = []string{
	"inventory", "bills", "technicians", "ledger", "adminPin", "techCode",
	"securityLogs", "stockLogs", "priceLogs",
}

// Decode parses a full backup. Nothing is returned unless the whole payload is valid.
func Decode(data []byte) (*Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, ErrMalformed
	}

	found := false
	for _, k := range knownKeys {
		if v, ok := raw[k]; ok && !isNull(v) {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNoKnownKeys
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &s, nil
}

// Encode writes s as indented JSON, stamping version and timestamp.
func Encode(s *Snapshot, at time.Time) ([]byte, error) {
	out := *s
	out.Version = Version
	out.Timestamp = at.UTC().Format(time.RFC3339)
	return json.MarshalIndent(out, "", "  ")
}

// DecodeInventory parses an inventory-only file.
func DecodeInventory(data []byte) ([]models.Product, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}
	var products []models.Product
	if err := json.Unmarshal(trimmed, &products); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotArray, err)
	}
	return products, nil
}

func EncodeInventory(products []models.Product) ([]byte, error) {
	if products == nil {
		products = []models.Product{}
	}
	return json.MarshalIndent(products, "", "  ")
}

// FileName is the download name for a backup taken at at.
func FileName(prefix string, at time.Time) string {
	return fmt.Sprintf("%s_%s.json", prefix, at.Format("2006-01-02"))
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}

// Has reports whether the snapshot can seed a running shop on its own.
func (s *Snapshot) Has() (inventory, technicians bool) {
	return s.Inventory != nil, s.Technicians != nil
}
