package domain

import "time"

// DefaultMaxGrowthStage is the number of visual growth stages a crop passes
// through before it can be harvested.
const DefaultMaxGrowthStage = 5

// RegrownStage is the growth stage a multi-harvest crop resets to after a
// harvest. One above empty: the plant keeps its rootstock between cycles.
const RegrownStage = 1

// Crop is a planted seed occupying one grid cell of a player's farm.
type Crop struct {
	ID               string    `json:"id"`
	PlayerID         string    `json:"player_id"`
	SeedID           string    `json:"seed_id"`
	X                int       `json:"x"`
	Y                int       `json:"y"`
	PlantedAt        time.Time `json:"planted_at"`
	GrowthStage      int       `json:"growth_stage"`
	MaxGrowthStage   int       `json:"max_growth_stage"`
	Mutations        []string  `json:"mutations"`
	HarvestRemaining int       `json:"harvest_remaining"`
}

// HasMutation reports whether the crop carries the named mutation.
func (c *Crop) HasMutation(name string) bool {
	for _, m := range c.Mutations {
		if m == name {
			return true
		}
	}
	return false
}

// CropGrowth is the slice of a crop the growth tick needs, joined with its
// seed's growth time.
type CropGrowth struct {
	ID                string
	PlantedAt         time.Time
	GrowthStage       int
	MaxGrowthStage    int
	GrowthTimeSeconds int
}

// CropView is a crop joined with its seed definition and derived readiness,
// shaped for display. Readiness is computed at read time from the clock, never
// loaded from storage.
type CropView struct {
	Crop
	SeedName  string    `json:"seed_name"`
	Rarity    Rarity    `json:"rarity"`
	Ready     bool      `json:"ready"`
	ReadyAt   time.Time `json:"ready_at"`
	SellPrice int       `json:"sell_price"`
}
