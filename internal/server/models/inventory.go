package models

import "time"

// InventoryItem is a stock record owned by one account. Quantity and
// MinLevel may be zero; non-negativity is the caller's responsibility.
type InventoryItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	MinLevel  float64   `json:"minLevel"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// StarterCatalog returns the built-in inventory seeded for fresh accounts.
// IDs are fixed so repeated seeding upserts in place instead of duplicating.
func StarterCatalog() []InventoryItem {
	return []InventoryItem{
		{ID: "5f0b2c4e-0001-4a8e-9c1d-0a6f3b2e1d01", Name: "Open Cell Foam Set", Category: "Foam", Quantity: 10, Unit: "sets", MinLevel: 2},
		{ID: "5f0b2c4e-0002-4a8e-9c1d-0a6f3b2e1d02", Name: "Closed Cell Foam Set", Category: "Foam", Quantity: 8, Unit: "sets", MinLevel: 2},
		{ID: "5f0b2c4e-0003-4a8e-9c1d-0a6f3b2e1d03", Name: "Poly Sheeting Roll", Category: "Supplies", Quantity: 20, Unit: "rolls", MinLevel: 5},
		{ID: "5f0b2c4e-0004-4a8e-9c1d-0a6f3b2e1d04", Name: "Masking Tape", Category: "Supplies", Quantity: 48, Unit: "rolls", MinLevel: 12},
		{ID: "5f0b2c4e-0005-4a8e-9c1d-0a6f3b2e1d05", Name: "Gun Cleaner", Category: "Equipment", Quantity: 12, Unit: "cans", MinLevel: 4},
		{ID: "5f0b2c4e-0006-4a8e-9c1d-0a6f3b2e1d06", Name: "Protective Suit", Category: "Safety", Quantity: 30, Unit: "each", MinLevel: 10},
		{ID: "5f0b2c4e-0007-4a8e-9c1d-0a6f3b2e1d07", Name: "Respirator Cartridge", Category: "Safety", Quantity: 24, Unit: "pairs", MinLevel: 8},
	}
}
