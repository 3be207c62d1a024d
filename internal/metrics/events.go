package metrics

import (
	"context"

	"github.com/growallgarden/server/internal/domain"
	"github.com/growallgarden/server/internal/event"
	"github.com/growallgarden/server/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all garden event types
func (e *EventMetricsCollector) Register(bus event.Bus) {
	eventTypes := []event.Type{
		event.SeedPurchased,
		event.CropPlanted,
		event.CropHarvested,
		event.WeatherChanged,
		event.StockRestocked,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch payload := evt.Payload.(type) {
	case domain.SeedPurchasedPayload:
		SeedsPurchased.WithLabelValues(payload.SeedName).Inc()
		MoneySpent.Add(float64(payload.Cost))

	case domain.CropPlantedPayload:
		CropsPlanted.Inc()

	case domain.CropHarvestedPayload:
		CropsHarvested.WithLabelValues(payload.SeedName).Inc()
		MoneyEarned.Add(float64(payload.MoneyGained))

	case domain.WeatherChangedPayload:
		WeatherTriggers.WithLabelValues(payload.WeatherType).Inc()

	case domain.StockRestockedPayload:
		ShopRestocks.Inc()

	default:
		log.Debug(LogMsgUnexpectedPayload, "type", evt.Type)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
