package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/growallgarden/server/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Garden event types, mirrored by the SSE bridge.
const (
	SeedPurchased  = Type(domain.EventTypeSeedPurchased)
	CropPlanted    = Type(domain.EventTypeCropPlanted)
	CropHarvested  = Type(domain.EventTypeCropHarvested)
	WeatherChanged = Type(domain.EventTypeWeatherChanged)
	StockRestocked = Type(domain.EventTypeStockRestocked)
)

// Type-safe event constructors

// NewSeedPurchasedEvent creates a purchase event for a settled shop order
func NewSeedPurchasedEvent(playerID, seedID, seedName string, cost, stockLeft int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SeedPurchased,
		Payload: domain.SeedPurchasedPayload{
			PlayerID:  playerID,
			SeedID:    seedID,
			SeedName:  seedName,
			Cost:      cost,
			StockLeft: stockLeft,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewCropPlantedEvent creates a planting event
func NewCropPlantedEvent(crop *domain.Crop) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    CropPlanted,
		Payload: domain.CropPlantedPayload{
			PlayerID:  crop.PlayerID,
			CropID:    crop.ID,
			SeedID:    crop.SeedID,
			X:         crop.X,
			Y:         crop.Y,
			Mutations: crop.Mutations,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewCropHarvestedEvent creates a harvest event
func NewCropHarvestedEvent(playerID, cropID, seedName string, moneyGained int, mutations []string, regrowing bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    CropHarvested,
		Payload: domain.CropHarvestedPayload{
			PlayerID:    playerID,
			CropID:      cropID,
			SeedName:    seedName,
			MoneyGained: moneyGained,
			Mutations:   mutations,
			Regrowing:   regrowing,
			Timestamp:   time.Now().Unix(),
		},
	}
}

// NewWeatherChangedEvent creates a weather transition event. endsAt is zero
// for the Clear transition, which has no expiry.
func NewWeatherChangedEvent(weatherType, scope, roomID string, endsAt time.Time) Event {
	payload := domain.WeatherChangedPayload{
		WeatherType: weatherType,
		Scope:       scope,
		RoomID:      roomID,
		Timestamp:   time.Now().Unix(),
	}
	if !endsAt.IsZero() {
		payload.EndsAt = endsAt.Unix()
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    WeatherChanged,
		Payload: payload,
	}
}

// NewStockRestockedEvent creates a restock event
func NewStockRestockedEvent(seedsRestocked int, nextRestockAt time.Time) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    StockRestocked,
		Payload: domain.StockRestockedPayload{
			SeedsRestocked: seedsRestocked,
			NextRestockAt:  nextRestockAt.Unix(),
			Timestamp:      time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously;
// a failing handler does not stop the others.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
