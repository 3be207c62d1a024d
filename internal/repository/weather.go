package repository

import (
	"context"

	"github.com/growallgarden/server/internal/domain"
)

// Weather defines the interface for weather event persistence
type Weather interface {
	// GetActive returns the most recent active event, or nil when idle.
	GetActive(ctx context.Context) (*domain.WeatherEvent, error)

	Create(ctx context.Context, event *domain.WeatherEvent) error

	// DeactivateAll clears every active flag; returns how many rows changed.
	DeactivateAll(ctx context.Context) (int, error)
}
