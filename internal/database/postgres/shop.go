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

// ShopRepository implements repository.Shop for PostgreSQL
type ShopRepository struct {
	db *pgxpool.Pool
}

// NewShopRepository creates a new ShopRepository
func NewShopRepository(db *pgxpool.Pool) *ShopRepository {
	return &ShopRepository{db: db}
}

// ListStock lists the shop with seed definitions, cheapest first
func (r *ShopRepository) ListStock(ctx context.Context) ([]domain.StockView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT st.seed_id, st.current_stock, st.last_restock_at, st.next_restock_at, `+seedColumns+`
		 FROM shop_stock st
		 JOIN seeds s ON s.seed_id = st.seed_id
		 WHERE s.obtainable
		 ORDER BY s.cost`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock: %w", err)
	}
	defer rows.Close()

	var views []domain.StockView
	for rows.Next() {
		var v domain.StockView
		err := rows.Scan(&v.SeedID, &v.CurrentStock, &v.LastRestockAt, &v.NextRestockAt,
			&v.Seed.ID, &v.Seed.Name, &v.Seed.Rarity, &v.Seed.Cost, &v.Seed.SellPrice,
			&v.Seed.GrowthTimeSeconds, &v.Seed.MultiHarvest, &v.Seed.HarvestLimit,
			&v.Seed.Obtainable, &v.Seed.MinStock, &v.Seed.MaxStock)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock row: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// GetStock retrieves one stock row
func (r *ShopRepository) GetStock(ctx context.Context, seedID string) (*domain.StockEntry, error) {
	var e domain.StockEntry
	err := r.db.QueryRow(ctx,
		`SELECT seed_id, current_stock, last_restock_at, next_restock_at
		 FROM shop_stock WHERE seed_id = $1`, seedID).
		Scan(&e.SeedID, &e.CurrentStock, &e.LastRestockAt, &e.NextRestockAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSeedNotFound
		}
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}
	return &e, nil
}

// EnsureStockRows creates a full-stock row for every obtainable seed without one
func (r *ShopRepository) EnsureStockRows(ctx context.Context, now, nextRestockAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO shop_stock (seed_id, current_stock, last_restock_at, next_restock_at)
		 SELECT seed_id, max_stock, $1, $2 FROM seeds WHERE obtainable
		 ON CONFLICT (seed_id) DO NOTHING`,
		now, nextRestockAt)
	if err != nil {
		return fmt.Errorf("failed to ensure stock rows: %w", err)
	}
	return nil
}

// RestockDue refills overdue rows back to their seed's max stock
func (r *ShopRepository) RestockDue(ctx context.Context, now, nextRestockAt time.Time) (int, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE shop_stock st
		 SET current_stock = s.max_stock, last_restock_at = $1, next_restock_at = $2
		 FROM seeds s
		 WHERE s.seed_id = st.seed_id AND st.next_restock_at <= $1`,
		now, nextRestockAt)
	if err != nil {
		return 0, fmt.Errorf("failed to restock due rows: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// RestockAll refills every row regardless of schedule
func (r *ShopRepository) RestockAll(ctx context.Context, now, nextRestockAt time.Time) (int, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE shop_stock st
		 SET current_stock = s.max_stock, last_restock_at = $1, next_restock_at = $2
		 FROM seeds s
		 WHERE s.seed_id = st.seed_id`,
		now, nextRestockAt)
	if err != nil {
		return 0, fmt.Errorf("failed to restock all rows: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ShopTx implements repository.ShopTx
type ShopTx struct {
	tx pgx.Tx
}

// BeginTx starts a purchase transaction
func (r *ShopRepository) BeginTx(ctx context.Context) (repository.ShopTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &ShopTx{tx: tx}, nil
}

// Commit commits the transaction
func (t *ShopTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *ShopTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// DecrementStock takes one unit off the shelf. The WHERE clause makes the
// decrement conditional, so two buyers racing for the last unit cannot both
// succeed.
func (t *ShopTx) DecrementStock(ctx context.Context, seedID string) (int, error) {
	var remaining int
	err := t.tx.QueryRow(ctx,
		`UPDATE shop_stock SET current_stock = current_stock - 1
		 WHERE seed_id = $1 AND current_stock > 0
		 RETURNING current_stock`, seedID).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrOutOfStock
		}
		return 0, fmt.Errorf("failed to decrement stock: %w", err)
	}
	return remaining, nil
}

// DebitBalance charges the purchase price, refusing overdrafts
func (t *ShopTx) DebitBalance(ctx context.Context, playerID string, amount int) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE players SET money = money - $2, updated_at = NOW()
		 WHERE player_id = $1 AND money >= $2`,
		playerID, amount)
	if err != nil {
		return fmt.Errorf("failed to debit balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientFunds
	}
	return nil
}

// CreditInventory adds the purchased seeds to the player's inventory
func (t *ShopTx) CreditInventory(ctx context.Context, playerID, seedID string, qty int) error {
	return creditInventory(ctx, t.tx, playerID, seedID, qty)
}
