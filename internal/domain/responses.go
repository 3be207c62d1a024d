package domain

import "time"

// PurchaseResult summarizes a settled shop purchase.
type PurchaseResult struct {
	SeedID    string `json:"seed_id"`
	SeedName  string `json:"seed_name"`
	Cost      int    `json:"cost"`
	Quantity  int    `json:"quantity"`
	StockLeft int    `json:"stock_left"`
}

// HarvestResult summarizes a settled harvest. Regrowing is true when the crop
// was multi-harvest and stayed planted for another cycle.
type HarvestResult struct {
	CropID      string    `json:"crop_id"`
	SeedName    string    `json:"seed_name"`
	MoneyGained int       `json:"money_gained"`
	Mutations   []string  `json:"mutations,omitempty"`
	Regrowing   bool      `json:"regrowing"`
	ReadyAt     time.Time `json:"ready_at,omitempty"`
}
