package domain

// Event type names shared between the event bus and the SSE bridge.
const (
	EventTypeSeedPurchased  = "seed.purchased"
	EventTypeCropPlanted    = "crop.planted"
	EventTypeCropHarvested  = "crop.harvested"
	EventTypeWeatherChanged = "weather.changed"
	EventTypeStockRestocked = "stock.restocked"
)

// SeedPurchasedPayload reports a completed shop purchase.
type SeedPurchasedPayload struct {
	PlayerID  string `json:"player_id"`
	SeedID    string `json:"seed_id"`
	SeedName  string `json:"seed_name"`
	Cost      int    `json:"cost"`
	StockLeft int    `json:"stock_left"`
	Timestamp int64  `json:"timestamp"`
}

// CropPlantedPayload reports a newly planted crop.
type CropPlantedPayload struct {
	PlayerID  string   `json:"player_id"`
	CropID    string   `json:"crop_id"`
	SeedID    string   `json:"seed_id"`
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Mutations []string `json:"mutations,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

// CropHarvestedPayload reports a settled harvest.
type CropHarvestedPayload struct {
	PlayerID    string   `json:"player_id"`
	CropID      string   `json:"crop_id"`
	SeedName    string   `json:"seed_name"`
	MoneyGained int      `json:"money_gained"`
	Mutations   []string `json:"mutations,omitempty"`
	Regrowing   bool     `json:"regrowing"`
	Timestamp   int64    `json:"timestamp"`
}

// WeatherChangedPayload reports a weather transition, including to Clear.
type WeatherChangedPayload struct {
	WeatherType string `json:"weather_type"`
	Scope       string `json:"scope,omitempty"`
	RoomID      string `json:"room_id,omitempty"`
	EndsAt      int64  `json:"ends_at,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}

// StockRestockedPayload reports a restock pass over the shop.
type StockRestockedPayload struct {
	SeedsRestocked int   `json:"seeds_restocked"`
	NextRestockAt  int64 `json:"next_restock_at"`
	Timestamp      int64 `json:"timestamp"`
}
