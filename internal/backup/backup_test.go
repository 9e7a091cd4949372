package backup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khata-pos/internal/models"
)

func TestDecodeRejectsBadPayloads(t *testing.T) {
	cases := map[string]struct {
		body string
		err  error
	}{
		"not json":      {`{inventory:`, ErrMalformed},
		"array":         {`[1,2,3]`, ErrMalformed},
		"string":        {`"hello"`, ErrMalformed},
		"null":          {`null`, ErrMalformed},
		"unknown keys":  {`{"foo": 1}`, ErrNoKnownKeys},
		"only metadata": {`{"version": "1.0", "timestamp": "x"}`, ErrNoKnownKeys},
		"null values":   {`{"inventory": null}`, ErrNoKnownKeys},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(tc.body))
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestDecodePartialBackup(t *testing.T) {
	s, err := Decode([]byte(`{"techCode": "TECH99", "technicians": []}`))
	require.NoError(t, err)

	assert.Nil(t, s.Inventory)
	assert.Nil(t, s.Bills)
	require.NotNil(t, s.TechCode)
	assert.Equal(t, "TECH99", *s.TechCode)
	require.NotNil(t, s.Technicians)
	assert.Empty(t, *s.Technicians)

	inv, techs := s.Has()
	assert.False(t, inv)
	assert.True(t, techs)
}

func TestEncodeThenDecodeKeepsData(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	inventory := []models.Product{{ID: "P1", PartName: "PCB", StockQuantity: 4, CustomerPrice: 2500, LastSoldDate: &at}}
	ledger := []models.LedgerEntry{{ID: "L1", TechnicianID: "T1", Date: at, Amount: 50, Type: models.Debit}}
	pin := "$2a$10$abcdefghijklmnopqrstuv"

	data, err := Encode(&Snapshot{Inventory: &inventory, Ledger: &ledger, AdminPIN: &pin}, at)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "1.0"`)
	assert.NotContains(t, string(data), `"bills"`)

	s, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, inventory, *s.Inventory)
	assert.Equal(t, ledger, *s.Ledger)
	assert.Equal(t, Version, s.Version)
	assert.Equal(t, "2025-03-01T10:00:00Z", s.Timestamp)
}

func TestInventoryFile(t *testing.T) {
	_, err := DecodeInventory([]byte(`{"inventory": []}`))
	assert.ErrorIs(t, err, ErrNotArray)
	_, err = DecodeInventory([]byte(`  `))
	assert.ErrorIs(t, err, ErrNotArray)
	_, err = DecodeInventory([]byte(`[{"id": 5}]`))
	assert.ErrorIs(t, err, ErrNotArray)

	products, err := DecodeInventory([]byte(` [{"id": "P1", "partName": "Compressor", "machineType": "Fridge"}]`))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, models.MachineFridge, products[0].MachineType)

	data, err := EncodeInventory(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestFileName(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "nine_pos_backup_2025-03-01.json", FileName("nine_pos_backup", at))
}
