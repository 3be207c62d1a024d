package repository

import (
	"context"
	"time"

	"github.com/growallgarden/server/internal/domain"
)

// Shop defines the interface for shop stock persistence
type Shop interface {
	ListStock(ctx context.Context) ([]domain.StockView, error)
	GetStock(ctx context.Context, seedID string) (*domain.StockEntry, error)

	// EnsureStockRows creates a stock row at the seed's max_stock for every
	// obtainable seed that has none yet. Safe to call on every shop load.
	EnsureStockRows(ctx context.Context, now, nextRestockAt time.Time) error

	// RestockDue refills every row whose next_restock_at is at or before now
	// back to the seed's max_stock and reschedules it. Returns the number of
	// rows refilled.
	RestockDue(ctx context.Context, now, nextRestockAt time.Time) (int, error)

	// RestockAll refills every row regardless of schedule (admin override).
	RestockAll(ctx context.Context, now, nextRestockAt time.Time) (int, error)

	BeginTx(ctx context.Context) (ShopTx, error)
}

// ShopTx is the transaction scope of a purchase: all three effects commit
// together or not at all.
type ShopTx interface {
	Tx

	// DecrementStock performs a conditional decrement, failing with
	// domain.ErrOutOfStock when current_stock is already zero. Returns the
	// remaining stock after the decrement.
	DecrementStock(ctx context.Context, seedID string) (int, error)

	// DebitBalance fails with domain.ErrInsufficientFunds when the player
	// cannot cover amount.
	DebitBalance(ctx context.Context, playerID string, amount int) error

	CreditInventory(ctx context.Context, playerID, seedID string, qty int) error
}
