package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growallgarden/server/internal/domain"
)

// InventoryRepository implements repository.Inventory for PostgreSQL
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// GetQuantity returns how many of one seed the player holds. A missing row
// reads as zero.
func (r *InventoryRepository) GetQuantity(ctx context.Context, playerID, seedID string) (int, error) {
	var qty int
	err := r.db.QueryRow(ctx,
		`SELECT quantity FROM inventory WHERE player_id = $1 AND seed_id = $2`,
		playerID, seedID).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get quantity: %w", err)
	}
	return qty, nil
}

// ListByPlayer lists the player's held seeds joined with catalog data
func (r *InventoryRepository) ListByPlayer(ctx context.Context, playerID string) ([]domain.InventoryView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT i.player_id, i.seed_id, i.quantity, s.name, s.rarity
		 FROM inventory i
		 JOIN seeds s ON s.seed_id = i.seed_id
		 WHERE i.player_id = $1
		 ORDER BY s.cost`, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	var views []domain.InventoryView
	for rows.Next() {
		var v domain.InventoryView
		if err := rows.Scan(&v.PlayerID, &v.SeedID, &v.Quantity, &v.SeedName, &v.Rarity); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// Credit adds seeds to the player's inventory
func (r *InventoryRepository) Credit(ctx context.Context, playerID, seedID string, qty int) error {
	return creditInventory(ctx, r.db, playerID, seedID, qty)
}

// Debit removes seeds, refusing to take a row below zero
func (r *InventoryRepository) Debit(ctx context.Context, playerID, seedID string, qty int) error {
	return debitInventory(ctx, r.db, playerID, seedID, qty)
}

// DeleteByPlayer removes all of a player's inventory rows
func (r *InventoryRepository) DeleteByPlayer(ctx context.Context, playerID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM inventory WHERE player_id = $1`, playerID); err != nil {
		return fmt.Errorf("failed to delete inventory: %w", err)
	}
	return nil
}

// Shared by the pooled repository and the purchase/plant transactions.

func creditInventory(ctx context.Context, q dbtx, playerID, seedID string, qty int) error {
	_, err := q.Exec(ctx,
		`INSERT INTO inventory (player_id, seed_id, quantity) VALUES ($1, $2, $3)
		 ON CONFLICT (player_id, seed_id) DO UPDATE SET quantity = inventory.quantity + EXCLUDED.quantity`,
		playerID, seedID, qty)
	if err != nil {
		return fmt.Errorf("failed to credit inventory: %w", err)
	}
	return nil
}

func debitInventory(ctx context.Context, q dbtx, playerID, seedID string, qty int) error {
	tag, err := q.Exec(ctx,
		`UPDATE inventory SET quantity = quantity - $3
		 WHERE player_id = $1 AND seed_id = $2 AND quantity >= $3`,
		playerID, seedID, qty)
	if err != nil {
		return fmt.Errorf("failed to debit inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientQuantity
	}

	// Zero-quantity rows are deleted so absence and zero stay the same state
	_, err = q.Exec(ctx,
		`DELETE FROM inventory WHERE player_id = $1 AND seed_id = $2 AND quantity = 0`,
		playerID, seedID)
	if err != nil {
		return fmt.Errorf("failed to prune empty inventory row: %w", err)
	}
	return nil
}
