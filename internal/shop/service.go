package shop

import (
	"context"
	"fmt"
	"time"

	"github.com/growallgarden/server/internal/catalog"
	"github.com/growallgarden/server/internal/domain"
	"github.com/growallgarden/server/internal/event"
	"github.com/growallgarden/server/internal/logger"
	"github.com/growallgarden/server/internal/repository"
)

// Service defines the shop business logic
type Service interface {
	// ListStock returns the current shop listing. Missing stock rows are
	// created and overdue rows refilled before listing, so the view a player
	// sees is always current.
	ListStock(ctx context.Context) ([]domain.StockView, error)

	// Purchase buys one unit of a seed. Stock decrement, balance debit and
	// inventory credit settle in one transaction: either all three apply or
	// none do.
	Purchase(ctx context.Context, playerID, seedID string) (*domain.PurchaseResult, error)

	// Restock refills every overdue stock row to its seed's max and returns
	// how many rows were refilled.
	Restock(ctx context.Context) (int, error)
}

type service struct {
	shopRepo        repository.Shop
	catalogSvc      catalog.Service
	bus             event.Bus
	restockInterval time.Duration
	now             func() time.Time
}

// NewService creates a new shop service
func NewService(shopRepo repository.Shop, catalogSvc catalog.Service, bus event.Bus, restockInterval time.Duration) Service {
	return &service{
		shopRepo:        shopRepo,
		catalogSvc:      catalogSvc,
		bus:             bus,
		restockInterval: restockInterval,
		now:             time.Now,
	}
}

func (s *service) ListStock(ctx context.Context) ([]domain.StockView, error) {
	// Refill lazily so the listing never shows an overdue empty shop.
	if _, err := s.restock(ctx); err != nil {
		return nil, err
	}

	stock, err := s.shopRepo.ListStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock: %w", err)
	}
	return stock, nil
}

func (s *service) Purchase(ctx context.Context, playerID, seedID string) (*domain.PurchaseResult, error) {
	log := logger.FromContext(ctx)
	log.Info("Purchase called", "playerID", playerID, "seedID", seedID)

	seed, err := s.catalogSvc.GetSeed(ctx, seedID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seed: %w", err)
	}
	if !seed.Obtainable {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotObtainable, seed.Name)
	}

	tx, err := s.shopRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	// Conditional decrement resolves concurrent buyers of the last unit:
	// exactly one succeeds, the rest see ErrOutOfStock.
	stockLeft, err := tx.DecrementStock(ctx, seedID)
	if err != nil {
		return nil, fmt.Errorf("failed to decrement stock: %w", err)
	}

	if err := tx.DebitBalance(ctx, playerID, seed.Cost); err != nil {
		return nil, fmt.Errorf("failed to debit balance: %w", err)
	}

	if err := tx.CreditInventory(ctx, playerID, seedID, 1); err != nil {
		return nil, fmt.Errorf("failed to credit inventory: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if err := s.bus.Publish(ctx, event.NewSeedPurchasedEvent(playerID, seedID, seed.Name, seed.Cost, stockLeft)); err != nil {
		log.Warn("Failed to publish purchase event", "error", err)
	}

	log.Info("Purchase completed", "playerID", playerID, "seed", seed.Name, "cost", seed.Cost, "stockLeft", stockLeft)

	return &domain.PurchaseResult{
		SeedID:    seedID,
		SeedName:  seed.Name,
		Cost:      seed.Cost,
		Quantity:  1,
		StockLeft: stockLeft,
	}, nil
}

func (s *service) Restock(ctx context.Context) (int, error) {
	return s.restock(ctx)
}

func (s *service) restock(ctx context.Context) (int, error) {
	now := s.now()
	next := now.Add(s.restockInterval)

	if err := s.shopRepo.EnsureStockRows(ctx, now, next); err != nil {
		return 0, fmt.Errorf("failed to ensure stock rows: %w", err)
	}

	refilled, err := s.shopRepo.RestockDue(ctx, now, next)
	if err != nil {
		return 0, fmt.Errorf("failed to restock: %w", err)
	}

	if refilled > 0 {
		log := logger.FromContext(ctx)
		log.Info("Shop restocked", "seeds", refilled, "nextRestockAt", next)
		if err := s.bus.Publish(ctx, event.NewStockRestockedEvent(refilled, next)); err != nil {
			log.Warn("Failed to publish restock event", "error", err)
		}
	}
	return refilled, nil
}
