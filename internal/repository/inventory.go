package repository

import (
	"context"

	"github.com/growallgarden/server/internal/domain"
)

// Inventory defines the interface for the seed inventory ledger.
// Quantity-zero rows are deleted; a missing row reads as quantity 0.
type Inventory interface {
	GetQuantity(ctx context.Context, playerID, seedID string) (int, error)
	ListByPlayer(ctx context.Context, playerID string) ([]domain.InventoryView, error)
	Credit(ctx context.Context, playerID, seedID string, qty int) error

	// Debit fails with domain.ErrInsufficientQuantity when the row holds
	// fewer than qty, leaving it unchanged.
	Debit(ctx context.Context, playerID, seedID string, qty int) error

	DeleteByPlayer(ctx context.Context, playerID string) error
}
