package inventory

import (
	"context"
	"fmt"

	"github.com/growallgarden/server/internal/domain"
	"github.com/growallgarden/server/internal/logger"
	"github.com/growallgarden/server/internal/repository"
)

// Service defines the seed inventory business logic
type Service interface {
	// GetInventory lists a player's held seeds, joined with their catalog
	// definitions. Zero-quantity entries never appear.
	GetInventory(ctx context.Context, playerID string) ([]domain.InventoryView, error)

	// GetQuantity returns how many of one seed the player holds.
	GetQuantity(ctx context.Context, playerID, seedID string) (int, error)

	// Grant credits seeds outside the shop flow (admin gifts).
	Grant(ctx context.Context, playerID, seedID string, qty int) error
}

type service struct {
	inventoryRepo repository.Inventory
	playerRepo    repository.Player
}

// NewService creates a new inventory service
func NewService(inventoryRepo repository.Inventory, playerRepo repository.Player) Service {
	return &service{
		inventoryRepo: inventoryRepo,
		playerRepo:    playerRepo,
	}
}

func (s *service) GetInventory(ctx context.Context, playerID string) ([]domain.InventoryView, error) {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	entries, err := s.inventoryRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return entries, nil
}

func (s *service) GetQuantity(ctx context.Context, playerID, seedID string) (int, error) {
	qty, err := s.inventoryRepo.GetQuantity(ctx, playerID, seedID)
	if err != nil {
		return 0, fmt.Errorf("failed to get inventory quantity: %w", err)
	}
	return qty, nil
}

func (s *service) Grant(ctx context.Context, playerID, seedID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: grant quantity must be positive", domain.ErrInsufficientQuantity)
	}

	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		return fmt.Errorf("failed to get player: %w", err)
	}

	if err := s.inventoryRepo.Credit(ctx, playerID, seedID, qty); err != nil {
		return fmt.Errorf("failed to credit inventory: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Info("Inventory granted", "playerID", playerID, "seedID", seedID, "quantity", qty)
	return nil
}
