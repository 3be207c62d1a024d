package domain

// Rarity classifies seeds and drives shop stock ceilings.
type Rarity string

// Seed rarities, from most to least common.
const (
	RarityCommon    Rarity = "Common"
	RarityUncommon  Rarity = "Uncommon"
	RarityRare      Rarity = "Rare"
	RarityLegendary Rarity = "Legendary"
	RarityMythical  Rarity = "Mythical"
	RarityDivine    Rarity = "Divine"
	RarityPrismatic Rarity = "Prismatic"
)

// Rarities lists all seed rarities in ascending order of scarcity.
var Rarities = []Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityLegendary,
	RarityMythical,
	RarityDivine,
	RarityPrismatic,
}

// Valid reports whether r is a known rarity.
func (r Rarity) Valid() bool {
	for _, known := range Rarities {
		if r == known {
			return true
		}
	}
	return false
}

// Seed is an immutable catalog definition of a plantable seed.
// Rows are created by migration and never mutated at runtime.
type Seed struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Rarity            Rarity `json:"rarity"`
	Cost              int    `json:"cost"`
	SellPrice         int    `json:"sell_price"`
	GrowthTimeSeconds int    `json:"growth_time_seconds"`
	MultiHarvest      bool   `json:"multi_harvest"`
	HarvestLimit      int    `json:"harvest_limit"`
	Obtainable        bool   `json:"obtainable"`
	MinStock          int    `json:"min_stock"`
	MaxStock          int    `json:"max_stock"`
}
