package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growallgarden/server/internal/domain"
)

// SeedRepository implements repository.Seed for PostgreSQL
type SeedRepository struct {
	db *pgxpool.Pool
}

// NewSeedRepository creates a new SeedRepository
func NewSeedRepository(db *pgxpool.Pool) *SeedRepository {
	return &SeedRepository{db: db}
}

const seedColumns = `seed_id, name, rarity, cost, sell_price, growth_time_seconds,
	multi_harvest, harvest_limit, obtainable, min_stock, max_stock`

func scanSeed(row pgx.Row) (*domain.Seed, error) {
	var s domain.Seed
	err := row.Scan(&s.ID, &s.Name, &s.Rarity, &s.Cost, &s.SellPrice, &s.GrowthTimeSeconds,
		&s.MultiHarvest, &s.HarvestLimit, &s.Obtainable, &s.MinStock, &s.MaxStock)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID retrieves a seed definition by ID
func (r *SeedRepository) GetByID(ctx context.Context, seedID string) (*domain.Seed, error) {
	seed, err := scanSeed(r.db.QueryRow(ctx,
		`SELECT `+seedColumns+` FROM seeds WHERE seed_id = $1`, seedID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSeedNotFound
		}
		return nil, fmt.Errorf("failed to get seed: %w", err)
	}
	return seed, nil
}

// GetByName retrieves a seed definition by display name
func (r *SeedRepository) GetByName(ctx context.Context, name string) (*domain.Seed, error) {
	seed, err := scanSeed(r.db.QueryRow(ctx,
		`SELECT `+seedColumns+` FROM seeds WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSeedNotFound
		}
		return nil, fmt.Errorf("failed to get seed by name: %w", err)
	}
	return seed, nil
}

// List retrieves the full seed catalog, cheapest first
func (r *SeedRepository) List(ctx context.Context) ([]domain.Seed, error) {
	rows, err := r.db.Query(ctx, `SELECT `+seedColumns+` FROM seeds ORDER BY cost`)
	if err != nil {
		return nil, fmt.Errorf("failed to list seeds: %w", err)
	}
	defer rows.Close()

	var seeds []domain.Seed
	for rows.Next() {
		s, err := scanSeed(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan seed: %w", err)
		}
		seeds = append(seeds, *s)
	}
	return seeds, rows.Err()
}
