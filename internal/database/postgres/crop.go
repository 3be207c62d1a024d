package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growallgarden/server/internal/domain"
	"github.com/growallgarden/server/internal/repository"
)

// CropRepository implements repository.Crop for PostgreSQL
type CropRepository struct {
	db *pgxpool.Pool
}

// NewCropRepository creates a new CropRepository
func NewCropRepository(db *pgxpool.Pool) *CropRepository {
	return &CropRepository{db: db}
}

const cropColumns = `crop_id, player_id, seed_id, x, y, planted_at,
	growth_stage, max_growth_stage, mutations, harvest_remaining`

func scanCrop(row pgx.Row) (*domain.Crop, error) {
	var c domain.Crop
	err := row.Scan(&c.ID, &c.PlayerID, &c.SeedID, &c.X, &c.Y, &c.PlantedAt,
		&c.GrowthStage, &c.MaxGrowthStage, &c.Mutations, &c.HarvestRemaining)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID retrieves a crop by ID
func (r *CropRepository) GetByID(ctx context.Context, cropID string) (*domain.Crop, error) {
	crop, err := scanCrop(r.db.QueryRow(ctx,
		`SELECT `+cropColumns+` FROM crops WHERE crop_id = $1`, cropID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCropNotFound
		}
		return nil, fmt.Errorf("failed to get crop: %w", err)
	}
	return crop, nil
}

// ListByPlayer lists a player's crops in grid order
func (r *CropRepository) ListByPlayer(ctx context.Context, playerID string) ([]domain.Crop, error) {
	return r.list(ctx,
		`SELECT `+cropColumns+` FROM crops WHERE player_id = $1 ORDER BY y, x`, playerID)
}

// ListAll lists every planted crop
func (r *CropRepository) ListAll(ctx context.Context) ([]domain.Crop, error) {
	return r.list(ctx, `SELECT `+cropColumns+` FROM crops`)
}

// ListByRoom lists the crops of every player in a room
func (r *CropRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.Crop, error) {
	return r.list(ctx,
		`SELECT c.crop_id, c.player_id, c.seed_id, c.x, c.y, c.planted_at,
		        c.growth_stage, c.max_growth_stage, c.mutations, c.harvest_remaining
		 FROM crops c
		 JOIN players p ON p.player_id = c.player_id
		 WHERE p.room_id = $1`, roomID)
}

func (r *CropRepository) list(ctx context.Context, query string, args ...any) ([]domain.Crop, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list crops: %w", err)
	}
	defer rows.Close()

	var crops []domain.Crop
	for rows.Next() {
		c, err := scanCrop(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crop: %w", err)
		}
		crops = append(crops, *c)
	}
	return crops, rows.Err()
}

// ListGrowing lists crops below their final stage, with their seed's growth time
func (r *CropRepository) ListGrowing(ctx context.Context) ([]domain.CropGrowth, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.crop_id, c.planted_at, c.growth_stage, c.max_growth_stage, s.growth_time_seconds
		 FROM crops c
		 JOIN seeds s ON s.seed_id = c.seed_id
		 WHERE c.growth_stage < c.max_growth_stage`)
	if err != nil {
		return nil, fmt.Errorf("failed to list growing crops: %w", err)
	}
	defer rows.Close()

	var crops []domain.CropGrowth
	for rows.Next() {
		var g domain.CropGrowth
		if err := rows.Scan(&g.ID, &g.PlantedAt, &g.GrowthStage, &g.MaxGrowthStage, &g.GrowthTimeSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan growing crop: %w", err)
		}
		crops = append(crops, g)
	}
	return crops, rows.Err()
}

// SetGrowthStage updates a crop's growth stage
func (r *CropRepository) SetGrowthStage(ctx context.Context, cropID string, stage int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE crops SET growth_stage = $2 WHERE crop_id = $1`, cropID, stage)
	if err != nil {
		return fmt.Errorf("failed to set growth stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCropNotFound
	}
	return nil
}

// SetMutations replaces a crop's mutation set
func (r *CropRepository) SetMutations(ctx context.Context, cropID string, mutations []string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE crops SET mutations = $2 WHERE crop_id = $1`, cropID, mutations)
	if err != nil {
		return fmt.Errorf("failed to set mutations: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCropNotFound
	}
	return nil
}

// DeleteByPlayer removes all of a player's crops, returning the count
func (r *CropRepository) DeleteByPlayer(ctx context.Context, playerID string) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM crops WHERE player_id = $1`, playerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete crops: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// CountAll counts every planted crop
func (r *CropRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM crops`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count crops: %w", err)
	}
	return count, nil
}

// CropTx implements repository.CropTx
type CropTx struct {
	tx pgx.Tx
}

// BeginTx starts a plant or harvest transaction
func (r *CropRepository) BeginTx(ctx context.Context) (repository.CropTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &CropTx{tx: tx}, nil
}

// Commit commits the transaction
func (t *CropTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *CropTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// DebitInventory consumes seeds from the player's inventory
func (t *CropTx) DebitInventory(ctx context.Context, playerID, seedID string, qty int) error {
	return debitInventory(ctx, t.tx, playerID, seedID, qty)
}

// CreateCrop inserts a crop; the unique (player_id, x, y) constraint rejects
// double-planting a cell
func (t *CropTx) CreateCrop(ctx context.Context, crop *domain.Crop) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO crops (crop_id, player_id, seed_id, x, y, planted_at,
		                    growth_stage, max_growth_stage, mutations, harvest_remaining)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		crop.ID, crop.PlayerID, crop.SeedID, crop.X, crop.Y, crop.PlantedAt,
		crop.GrowthStage, crop.MaxGrowthStage, crop.Mutations, crop.HarvestRemaining)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrPositionOccupied
		}
		return fmt.Errorf("failed to insert crop: %w", err)
	}
	return nil
}

// GetCropForUpdate locks the crop row for the rest of the transaction
func (t *CropTx) GetCropForUpdate(ctx context.Context, cropID string) (*domain.Crop, error) {
	crop, err := scanCrop(t.tx.QueryRow(ctx,
		`SELECT `+cropColumns+` FROM crops WHERE crop_id = $1 FOR UPDATE`, cropID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCropNotFound
		}
		return nil, fmt.Errorf("failed to lock crop: %w", err)
	}
	return crop, nil
}

// CreditBalance pays out a harvest
func (t *CropTx) CreditBalance(ctx context.Context, playerID string, amount int) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE players SET money = money + $2, updated_at = NOW() WHERE player_id = $1`,
		playerID, amount)
	if err != nil {
		return fmt.Errorf("failed to credit balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}

// DeleteCrop removes a harvested crop
func (t *CropTx) DeleteCrop(ctx context.Context, cropID string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM crops WHERE crop_id = $1`, cropID)
	if err != nil {
		return fmt.Errorf("failed to delete crop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCropNotFound
	}
	return nil
}

// ResetCrop rewinds a multi-harvest crop for its next cycle
func (t *CropTx) ResetCrop(ctx context.Context, cropID string, plantedAt time.Time, growthStage, harvestRemaining int) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE crops SET planted_at = $2, growth_stage = $3, harvest_remaining = $4
		 WHERE crop_id = $1`,
		cropID, plantedAt, growthStage, harvestRemaining)
	if err != nil {
		return fmt.Errorf("failed to reset crop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCropNotFound
	}
	return nil
}
