package domain

import "time"

// InventoryEntry is a per-player count of owned, unplanted seeds.
// Quantity is always positive; a zero-quantity entry is deleted rather than
// stored, so absence and zero are the same state.
type InventoryEntry struct {
	PlayerID string `json:"player_id"`
	SeedID   string `json:"seed_id"`
	Quantity int    `json:"quantity"`
}

// InventoryView joins an inventory entry with its seed definition for display.
type InventoryView struct {
	InventoryEntry
	SeedName string `json:"seed_name"`
	Rarity   Rarity `json:"rarity"`
}

// StockEntry tracks the purchasable quantity of one seed in the shop.
// CurrentStock stays within [0, max_stock] for the seed.
type StockEntry struct {
	SeedID        string    `json:"seed_id"`
	CurrentStock  int       `json:"current_stock"`
	LastRestockAt time.Time `json:"last_restock_at"`
	NextRestockAt time.Time `json:"next_restock_at"`
}

// StockView joins a stock entry with its seed definition for the shop UI.
type StockView struct {
	StockEntry
	Seed Seed `json:"seed"`
}
