package repository

import (
	"context"

	"github.com/growallgarden/server/internal/domain"
)

// Seed defines the read-only interface over the seed catalog table
type Seed interface {
	GetByID(ctx context.Context, seedID string) (*domain.Seed, error)
	GetByName(ctx context.Context, name string) (*domain.Seed, error)
	List(ctx context.Context) ([]domain.Seed, error)
}
