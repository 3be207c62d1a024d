package repository

import (
	"context"

	"github.com/growallgarden/server/internal/domain"
)

// Player defines the interface for player and room persistence
type Player interface {
	Create(ctx context.Context, player *domain.Player) error
	GetByID(ctx context.Context, playerID string) (*domain.Player, error)
	GetByUsername(ctx context.Context, username string) (*domain.Player, error)
	List(ctx context.Context) ([]domain.Player, error)
	ListByRoom(ctx context.Context, roomID string) ([]domain.Player, error)

	// SetBalance overwrites the balance unconditionally (admin paths only).
	SetBalance(ctx context.Context, playerID string, amount int) error

	// AdjustBalance applies a delta. A negative delta that would take the
	// balance below zero fails with domain.ErrInsufficientFunds and leaves
	// the row unchanged.
	AdjustBalance(ctx context.Context, playerID string, delta int) error

	SetRoom(ctx context.Context, playerID, roomID string) error

	CreateRoom(ctx context.Context, room *domain.Room) error
	GetRoomByCode(ctx context.Context, code string) (*domain.Room, error)
}
