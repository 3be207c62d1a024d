package sse

import (
	"context"
	"log/slog"

	"github.com/growallgarden/server/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub. Bus payloads are
// typed structs that marshal cleanly, so they stream to clients as-is.
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe registers handlers for all garden event types
func (s *Subscriber) Subscribe() {
	types := []event.Type{
		event.SeedPurchased,
		event.CropPlanted,
		event.CropHarvested,
		event.WeatherChanged,
		event.StockRestocked,
	}
	for _, t := range types {
		s.bus.Subscribe(t, s.forward)
	}

	slog.Info("SSE subscriber registered for event types", "types", types)
}

func (s *Subscriber) forward(_ context.Context, evt event.Event) error {
	s.hub.Broadcast(string(evt.Type), evt.Payload)
	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type)
	return nil
}
