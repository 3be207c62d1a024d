package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/growallgarden/server/internal/domain"
	"github.com/growallgarden/server/internal/logger"
	"github.com/growallgarden/server/internal/repository"
)

const (
	// seedCacheSize bounds the LRU; the catalog is small so this is
	// effectively "everything".
	seedCacheSize = 256
	// seedCacheTTL guards against stale reads after an admin edits the
	// catalog directly in the database.
	seedCacheTTL = 5 * time.Minute
)

// Service exposes the seed catalog with a read-through cache. Seed rows are
// immutable at runtime, so caching is safe; the TTL exists only to pick up
// out-of-band catalog changes.
type Service interface {
	GetSeed(ctx context.Context, seedID string) (*domain.Seed, error)
	GetSeedByName(ctx context.Context, name string) (*domain.Seed, error)
	ListSeeds(ctx context.Context) ([]domain.Seed, error)
	ListMutations() []domain.Mutation
}

type service struct {
	repo    repository.Seed
	byID    *expirable.LRU[string, *domain.Seed]
	byName  *expirable.LRU[string, *domain.Seed]
}

// NewService creates a catalog service backed by the seed repository.
func NewService(repo repository.Seed) Service {
	return &service{
		repo:   repo,
		byID:   expirable.NewLRU[string, *domain.Seed](seedCacheSize, nil, seedCacheTTL),
		byName: expirable.NewLRU[string, *domain.Seed](seedCacheSize, nil, seedCacheTTL),
	}
}

func (s *service) GetSeed(ctx context.Context, seedID string) (*domain.Seed, error) {
	if seed, ok := s.byID.Get(seedID); ok {
		return seed, nil
	}

	seed, err := s.repo.GetByID(ctx, seedID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seed: %w", err)
	}
	s.cache(seed)
	return seed, nil
}

func (s *service) GetSeedByName(ctx context.Context, name string) (*domain.Seed, error) {
	if seed, ok := s.byName.Get(name); ok {
		return seed, nil
	}

	seed, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get seed by name: %w", err)
	}
	s.cache(seed)
	return seed, nil
}

func (s *service) ListSeeds(ctx context.Context) ([]domain.Seed, error) {
	seeds, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list seeds: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Debug("Seed catalog listed", "count", len(seeds))
	return seeds, nil
}

func (s *service) ListMutations() []domain.Mutation {
	out := make([]domain.Mutation, len(Mutations))
	copy(out, Mutations)
	return out
}

func (s *service) cache(seed *domain.Seed) {
	s.byID.Add(seed.ID, seed)
	s.byName.Add(seed.Name, seed)
}
