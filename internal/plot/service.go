package plot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/growallgarden/server/internal/catalog"
	"github.com/growallgarden/server/internal/domain"
	"github.com/growallgarden/server/internal/economy"
	"github.com/growallgarden/server/internal/event"
	"github.com/growallgarden/server/internal/logger"
	"github.com/growallgarden/server/internal/repository"
	"github.com/growallgarden/server/internal/utils"
	"github.com/growallgarden/server/internal/weather"
)

// Service defines the plot engine business logic: planting, growth and
// harvest of crops on each player's farm grid.
type Service interface {
	// Plant sows one seed from the player's inventory at grid cell (x, y).
	Plant(ctx context.Context, playerID, seedID string, x, y int) (*domain.Crop, error)

	// ListCrops returns the player's planted crops with derived readiness
	// and current sell value.
	ListCrops(ctx context.Context, playerID string) ([]domain.CropView, error)

	// Harvest settles a ready crop: credits its value and either removes it
	// or, for multi-harvest seeds, resets it for the next cycle.
	Harvest(ctx context.Context, playerID, cropID string) (*domain.HarvestResult, error)

	// ApplyWeatherMutations applies a weather event's mutations to every crop
	// in scope. Returns the number of crops that changed.
	ApplyWeatherMutations(ctx context.Context, weatherType string, scope domain.WeatherScope, roomID string) (int, error)

	// AdvanceGrowth moves growing crops to the stage their elapsed time
	// implies. Called from the growth tick worker.
	AdvanceGrowth(ctx context.Context) (int, error)
}

// Config carries the tunables of the plot engine.
type Config struct {
	GridSize      int
	GoldenChance  float64
	RainbowChance float64
}

type service struct {
	cropRepo   repository.Crop
	playerRepo repository.Player
	catalogSvc catalog.Service
	weatherSvc weather.Service
	bus        event.Bus
	cfg        Config
	now        func() time.Time
	rnd        func() float64
}

// NewService creates a new plot service. rnd is injectable for deterministic
// tests; pass nil to use the default source.
func NewService(
	cropRepo repository.Crop,
	playerRepo repository.Player,
	catalogSvc catalog.Service,
	weatherSvc weather.Service,
	bus event.Bus,
	cfg Config,
	rnd func() float64,
) Service {
	if rnd == nil {
		rnd = utils.RandomFloat
	}
	return &service{
		cropRepo:   cropRepo,
		playerRepo: playerRepo,
		catalogSvc: catalogSvc,
		weatherSvc: weatherSvc,
		bus:        bus,
		cfg:        cfg,
		now:        time.Now,
		rnd:        rnd,
	}
}

func (s *service) Plant(ctx context.Context, playerID, seedID string, x, y int) (*domain.Crop, error) {
	log := logger.FromContext(ctx)
	log.Info("Plant called", "playerID", playerID, "seedID", seedID, "x", x, "y", y)

	if x < 0 || y < 0 || x >= s.cfg.GridSize || y >= s.cfg.GridSize {
		return nil, fmt.Errorf("%w: cell (%d,%d) outside %dx%d grid",
			domain.ErrInvalidPosition, x, y, s.cfg.GridSize, s.cfg.GridSize)
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	seed, err := s.catalogSvc.GetSeed(ctx, seedID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seed: %w", err)
	}

	mutations, err := s.plantTimeMutations(ctx, player)
	if err != nil {
		return nil, err
	}

	harvests := 1
	if seed.MultiHarvest {
		harvests = seed.HarvestLimit
	}

	crop := &domain.Crop{
		ID:               uuid.New().String(),
		PlayerID:         playerID,
		SeedID:           seedID,
		X:                x,
		Y:                y,
		PlantedAt:        s.now(),
		GrowthStage:      0,
		MaxGrowthStage:   domain.DefaultMaxGrowthStage,
		Mutations:        mutations,
		HarvestRemaining: harvests,
	}

	tx, err := s.cropRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.DebitInventory(ctx, playerID, seedID, 1); err != nil {
		if errors.Is(err, domain.ErrInsufficientQuantity) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoSeedInInventory, seed.Name)
		}
		return nil, fmt.Errorf("failed to debit inventory: %w", err)
	}

	if err := tx.CreateCrop(ctx, crop); err != nil {
		return nil, fmt.Errorf("failed to create crop: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if err := s.bus.Publish(ctx, event.NewCropPlantedEvent(crop)); err != nil {
		log.Warn("Failed to publish plant event", "error", err)
	}

	log.Info("Crop planted", "cropID", crop.ID, "seed", seed.Name, "mutations", crop.Mutations)
	return crop, nil
}

// plantTimeMutations rolls the rare plant-time mutations and folds in the
// active weather, if its scope covers the player.
func (s *service) plantTimeMutations(ctx context.Context, player *domain.Player) ([]string, error) {
	var mutations []string

	if s.rnd() < s.cfg.RainbowChance {
		mutations = catalog.ApplyMutation(mutations, catalog.MutationRainbow)
	} else if s.rnd() < s.cfg.GoldenChance {
		mutations = catalog.ApplyMutation(mutations, catalog.MutationGolden)
	}

	active, err := s.weatherSvc.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active weather: %w", err)
	}
	if active != nil && weatherCoversPlayer(active, player) {
		for _, m := range catalog.WeatherMutations(active.WeatherType) {
			mutations = catalog.ApplyMutation(mutations, m)
		}
	}
	return mutations, nil
}

func weatherCoversPlayer(evt *domain.WeatherEvent, player *domain.Player) bool {
	if evt.Scope != domain.ScopeLocal {
		return true
	}
	return evt.RoomID != "" && evt.RoomID == player.RoomID
}

func (s *service) ListCrops(ctx context.Context, playerID string) ([]domain.CropView, error) {
	crops, err := s.cropRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list crops: %w", err)
	}

	now := s.now()
	views := make([]domain.CropView, 0, len(crops))
	for _, crop := range crops {
		seed, err := s.catalogSvc.GetSeed(ctx, crop.SeedID)
		if err != nil {
			return nil, fmt.Errorf("failed to get seed: %w", err)
		}
		views = append(views, domain.CropView{
			Crop:      crop,
			SeedName:  seed.Name,
			Rarity:    seed.Rarity,
			Ready:     Ready(&crop, seed.GrowthTimeSeconds, now),
			ReadyAt:   ReadyAt(&crop, seed.GrowthTimeSeconds),
			SellPrice: economy.Price(seed, crop.Mutations),
		})
	}
	return views, nil
}

func (s *service) Harvest(ctx context.Context, playerID, cropID string) (*domain.HarvestResult, error) {
	log := logger.FromContext(ctx)
	log.Info("Harvest called", "playerID", playerID, "cropID", cropID)

	tx, err := s.cropRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	// Row lock serializes concurrent harvests of the same crop.
	crop, err := tx.GetCropForUpdate(ctx, cropID)
	if err != nil {
		return nil, fmt.Errorf("failed to get crop: %w", err)
	}
	if crop.PlayerID != playerID {
		return nil, fmt.Errorf("%w: crop %s", domain.ErrNotOwner, cropID)
	}

	seed, err := s.catalogSvc.GetSeed(ctx, crop.SeedID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seed: %w", err)
	}

	now := s.now()
	if !Ready(crop, seed.GrowthTimeSeconds, now) {
		return nil, fmt.Errorf("%w: ready at %s", domain.ErrNotReady, ReadyAt(crop, seed.GrowthTimeSeconds).Format(time.RFC3339))
	}

	price := economy.Price(seed, crop.Mutations)
	if err := tx.CreditBalance(ctx, playerID, price); err != nil {
		return nil, fmt.Errorf("failed to credit balance: %w", err)
	}

	result := &domain.HarvestResult{
		CropID:      cropID,
		SeedName:    seed.Name,
		MoneyGained: price,
		Mutations:   crop.Mutations,
	}

	regrowing := seed.MultiHarvest && crop.HarvestRemaining > 1
	if regrowing {
		// The plant keeps its rootstock: growth restarts one stage up from
		// bare soil with a fresh planting time.
		if err := tx.ResetCrop(ctx, cropID, now, domain.RegrownStage, crop.HarvestRemaining-1); err != nil {
			return nil, fmt.Errorf("failed to reset crop: %w", err)
		}
		result.Regrowing = true
		result.ReadyAt = now.Add(time.Duration(seed.GrowthTimeSeconds) * time.Second)
	} else {
		if err := tx.DeleteCrop(ctx, cropID); err != nil {
			return nil, fmt.Errorf("failed to delete crop: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if err := s.bus.Publish(ctx, event.NewCropHarvestedEvent(playerID, cropID, seed.Name, price, crop.Mutations, regrowing)); err != nil {
		log.Warn("Failed to publish harvest event", "error", err)
	}

	log.Info("Harvest settled", "cropID", cropID, "seed", seed.Name, "moneyGained", price, "regrowing", regrowing)
	return result, nil
}

func (s *service) ApplyWeatherMutations(ctx context.Context, weatherType string, scope domain.WeatherScope, roomID string) (int, error) {
	names := catalog.WeatherMutations(weatherType)
	if len(names) == 0 {
		return 0, nil
	}

	var (
		crops []domain.Crop
		err   error
	)
	if scope == domain.ScopeLocal && roomID != "" {
		crops, err = s.cropRepo.ListByRoom(ctx, roomID)
	} else {
		crops, err = s.cropRepo.ListAll(ctx)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to list crops: %w", err)
	}

	changed := 0
	for _, crop := range crops {
		updated := crop.Mutations
		for _, name := range names {
			updated = catalog.ApplyMutation(updated, name)
		}
		// A combination can replace a pair without changing length, so
		// compare contents rather than size.
		if slices.Equal(updated, crop.Mutations) {
			continue
		}
		if err := s.cropRepo.SetMutations(ctx, crop.ID, updated); err != nil {
			return changed, fmt.Errorf("failed to set mutations: %w", err)
		}
		changed++
	}

	if changed > 0 {
		logger.FromContext(ctx).Info("Weather mutations applied", "weatherType", weatherType, "crops", changed)
	}
	return changed, nil
}

func (s *service) AdvanceGrowth(ctx context.Context) (int, error) {
	crops, err := s.cropRepo.ListGrowing(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list growing crops: %w", err)
	}

	now := s.now()
	advanced := 0
	for _, crop := range crops {
		stage := StageForElapsed(now.Sub(crop.PlantedAt), crop.GrowthTimeSeconds, crop.MaxGrowthStage)
		if stage <= crop.GrowthStage {
			continue
		}
		if err := s.cropRepo.SetGrowthStage(ctx, crop.ID, stage); err != nil {
			return advanced, fmt.Errorf("failed to set growth stage: %w", err)
		}
		advanced++
	}
	return advanced, nil
}
