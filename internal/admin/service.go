package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/growallgarden/server/internal/catalog"
	"github.com/growallgarden/server/internal/domain"
	"github.com/growallgarden/server/internal/event"
	"github.com/growallgarden/server/internal/logger"
	"github.com/growallgarden/server/internal/repository"
	"github.com/growallgarden/server/internal/weather"
)

// Service defines the admin command surface. Every operation verifies the
// caller's admin flag before acting.
type Service interface {
	// GiveSeeds credits seeds to a player by username and seed name.
	GiveSeeds(ctx context.Context, adminID, username, seedName string, qty int) error

	// GiveSheckles adjusts a player's balance by delta, which may be negative.
	GiveSheckles(ctx context.Context, adminID, username string, delta int) error

	// ResetBalance puts a player back on the starting balance.
	ResetBalance(ctx context.Context, adminID, username string) error

	// SetWeather force-triggers a weather event, or clears with "Clear".
	SetWeather(ctx context.Context, adminID, weatherType string) (*domain.WeatherEvent, error)

	// ClearPlants removes every crop a player has planted. Returns the count.
	ClearPlants(ctx context.Context, adminID, username string) (int, error)

	// RestockShop refills every shop row to max regardless of schedule.
	RestockShop(ctx context.Context, adminID string) (int, error)

	// MutatePlant stamps a mutation onto a crop, honoring combination rules.
	MutatePlant(ctx context.Context, adminID, cropID, mutationName string) (*domain.Crop, error)

	// TallyPlants counts all planted crops across every farm.
	TallyPlants(ctx context.Context, adminID string) (int, error)
}

type service struct {
	playerRepo      repository.Player
	inventoryRepo   repository.Inventory
	cropRepo        repository.Crop
	shopRepo        repository.Shop
	catalogSvc      catalog.Service
	weatherSvc      weather.Service
	bus             event.Bus
	restockInterval time.Duration
	now             func() time.Time
}

// NewService creates a new admin service
func NewService(
	playerRepo repository.Player,
	inventoryRepo repository.Inventory,
	cropRepo repository.Crop,
	shopRepo repository.Shop,
	catalogSvc catalog.Service,
	weatherSvc weather.Service,
	bus event.Bus,
	restockInterval time.Duration,
) Service {
	return &service{
		playerRepo:      playerRepo,
		inventoryRepo:   inventoryRepo,
		cropRepo:        cropRepo,
		shopRepo:        shopRepo,
		catalogSvc:      catalogSvc,
		weatherSvc:      weatherSvc,
		bus:             bus,
		restockInterval: restockInterval,
		now:             time.Now,
	}
}

// requireAdmin resolves the caller and rejects non-admins.
func (s *service) requireAdmin(ctx context.Context, adminID string) (*domain.Player, error) {
	caller, err := s.playerRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to get caller: %w", err)
	}
	if !caller.IsAdmin {
		return nil, fmt.Errorf("%w: player %s", domain.ErrUnauthorized, caller.Username)
	}
	return caller, nil
}

func (s *service) GiveSeeds(ctx context.Context, adminID, username, seedName string, qty int) error {
	admin, err := s.requireAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if qty <= 0 {
		return fmt.Errorf("%w: must be positive, got %d", domain.ErrInsufficientQuantity, qty)
	}

	target, err := s.playerRepo.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to get target player: %w", err)
	}
	seed, err := s.catalogSvc.GetSeedByName(ctx, seedName)
	if err != nil {
		return fmt.Errorf("failed to get seed: %w", err)
	}

	if err := s.inventoryRepo.Credit(ctx, target.ID, seed.ID, qty); err != nil {
		return fmt.Errorf("failed to credit inventory: %w", err)
	}

	logger.FromContext(ctx).Info("Admin gave seeds",
		"admin", admin.Username, "target", username, "seed", seed.Name, "quantity", qty)
	return nil
}

func (s *service) GiveSheckles(ctx context.Context, adminID, username string, delta int) error {
	admin, err := s.requireAdmin(ctx, adminID)
	if err != nil {
		return err
	}

	target, err := s.playerRepo.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to get target player: %w", err)
	}
	if err := s.playerRepo.AdjustBalance(ctx, target.ID, delta); err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}

	logger.FromContext(ctx).Info("Admin adjusted balance",
		"admin", admin.Username, "target", username, "delta", delta)
	return nil
}

func (s *service) ResetBalance(ctx context.Context, adminID, username string) error {
	admin, err := s.requireAdmin(ctx, adminID)
	if err != nil {
		return err
	}

	target, err := s.playerRepo.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to get target player: %w", err)
	}
	if err := s.playerRepo.SetBalance(ctx, target.ID, domain.StartingBalance); err != nil {
		return fmt.Errorf("failed to set balance: %w", err)
	}

	logger.FromContext(ctx).Info("Admin reset balance", "admin", admin.Username, "target", username)
	return nil
}

func (s *service) SetWeather(ctx context.Context, adminID, weatherType string) (*domain.WeatherEvent, error) {
	if _, err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.weatherSvc.Trigger(ctx, weatherType, domain.ScopeGlobal, "", true)
}

func (s *service) ClearPlants(ctx context.Context, adminID, username string) (int, error) {
	admin, err := s.requireAdmin(ctx, adminID)
	if err != nil {
		return 0, err
	}

	target, err := s.playerRepo.GetByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to get target player: %w", err)
	}
	removed, err := s.cropRepo.DeleteByPlayer(ctx, target.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete crops: %w", err)
	}

	logger.FromContext(ctx).Info("Admin cleared plants",
		"admin", admin.Username, "target", username, "removed", removed)
	return removed, nil
}

func (s *service) RestockShop(ctx context.Context, adminID string) (int, error) {
	admin, err := s.requireAdmin(ctx, adminID)
	if err != nil {
		return 0, err
	}

	now := s.now()
	next := now.Add(s.restockInterval)
	refilled, err := s.shopRepo.RestockAll(ctx, now, next)
	if err != nil {
		return 0, fmt.Errorf("failed to restock shop: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Info("Admin restocked shop", "admin", admin.Username, "seeds", refilled)
	if refilled > 0 {
		if err := s.bus.Publish(ctx, event.NewStockRestockedEvent(refilled, next)); err != nil {
			log.Warn("Failed to publish restock event", "error", err)
		}
	}
	return refilled, nil
}

func (s *service) MutatePlant(ctx context.Context, adminID, cropID, mutationName string) (*domain.Crop, error) {
	admin, err := s.requireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	name, ok := catalog.NormalizeMutation(mutationName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMutationNotFound, mutationName)
	}

	crop, err := s.cropRepo.GetByID(ctx, cropID)
	if err != nil {
		return nil, fmt.Errorf("failed to get crop: %w", err)
	}

	updated := catalog.ApplyMutation(crop.Mutations, name)
	if err := s.cropRepo.SetMutations(ctx, cropID, updated); err != nil {
		return nil, fmt.Errorf("failed to set mutations: %w", err)
	}
	crop.Mutations = updated

	logger.FromContext(ctx).Info("Admin mutated plant",
		"admin", admin.Username, "cropID", cropID, "mutation", name, "mutations", updated)
	return crop, nil
}

func (s *service) TallyPlants(ctx context.Context, adminID string) (int, error) {
	if _, err := s.requireAdmin(ctx, adminID); err != nil {
		return 0, err
	}

	count, err := s.cropRepo.CountAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count crops: %w", err)
	}
	return count, nil
}
