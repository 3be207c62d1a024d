package plot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growallgarden/server/internal/catalog"
	"github.com/growallgarden/server/internal/domain"
	"github.com/growallgarden/server/internal/event"
	"github.com/growallgarden/server/internal/repository"
	"github.com/growallgarden/server/internal/shop"
	"github.com/growallgarden/server/internal/weather"
)

// The scenario tests run the real shop, weather and plot services together
// over one in-memory world, so the money and mutation flow is checked end to
// end rather than per service.

type memWorld struct {
	mu        sync.Mutex
	now       time.Time
	players   map[string]*domain.Player
	rooms     map[string]*domain.Room
	seeds     map[string]*domain.Seed
	inventory map[string]int
	stock     map[string]*domain.StockEntry
	crops     map[string]*domain.Crop
	weather   *domain.WeatherEvent
}

func newMemWorld() *memWorld {
	w := &memWorld{
		now:       testNow,
		players:   make(map[string]*domain.Player),
		rooms:     make(map[string]*domain.Room),
		seeds:     make(map[string]*domain.Seed),
		inventory: make(map[string]int),
		stock:     make(map[string]*domain.StockEntry),
		crops:     make(map[string]*domain.Crop),
	}
	for _, s := range []*domain.Seed{carrotSeed(), strawberrySeed()} {
		w.seeds[s.ID] = s
	}
	return w
}

func (w *memWorld) clock() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.now
}

func (w *memWorld) advance(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.now = w.now.Add(d)
}

func (w *memWorld) balance(playerID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.players[playerID].Money
}

func (w *memWorld) seedCount(playerID, seedID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inventory[invKey(playerID, seedID)]
}

func (w *memWorld) crop(cropID string) *domain.Crop {
	w.mu.Lock()
	defer w.mu.Unlock()
	if c, ok := w.crops[cropID]; ok {
		copied := *c
		return &copied
	}
	return nil
}

func (w *memWorld) cropCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.crops)
}

func invKey(playerID, seedID string) string {
	return playerID + "/" + seedID
}

// memSeedRepo implements repository.Seed.
type memSeedRepo struct{ w *memWorld }

func (r *memSeedRepo) GetByID(ctx context.Context, seedID string) (*domain.Seed, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if s, ok := r.w.seeds[seedID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, domain.ErrSeedNotFound
}

func (r *memSeedRepo) GetByName(ctx context.Context, name string) (*domain.Seed, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	for _, s := range r.w.seeds {
		if s.Name == name {
			copied := *s
			return &copied, nil
		}
	}
	return nil, domain.ErrSeedNotFound
}

func (r *memSeedRepo) List(ctx context.Context) ([]domain.Seed, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	out := make([]domain.Seed, 0, len(r.w.seeds))
	for _, s := range r.w.seeds {
		out = append(out, *s)
	}
	return out, nil
}

// memPlayerRepo implements repository.Player.
type memPlayerRepo struct{ w *memWorld }

func (r *memPlayerRepo) Create(ctx context.Context, player *domain.Player) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	copied := *player
	r.w.players[player.ID] = &copied
	return nil
}

func (r *memPlayerRepo) GetByID(ctx context.Context, playerID string) (*domain.Player, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if p, ok := r.w.players[playerID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, domain.ErrPlayerNotFound
}

func (r *memPlayerRepo) GetByUsername(ctx context.Context, username string) (*domain.Player, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	for _, p := range r.w.players {
		if p.Username == username {
			copied := *p
			return &copied, nil
		}
	}
	return nil, domain.ErrPlayerNotFound
}

func (r *memPlayerRepo) List(ctx context.Context) ([]domain.Player, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	out := make([]domain.Player, 0, len(r.w.players))
	for _, p := range r.w.players {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memPlayerRepo) ListByRoom(ctx context.Context, roomID string) ([]domain.Player, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	var out []domain.Player
	for _, p := range r.w.players {
		if p.RoomID == roomID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPlayerRepo) SetBalance(ctx context.Context, playerID string, amount int) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	p, ok := r.w.players[playerID]
	if !ok {
		return domain.ErrPlayerNotFound
	}
	p.Money = amount
	return nil
}

func (r *memPlayerRepo) AdjustBalance(ctx context.Context, playerID string, delta int) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	p, ok := r.w.players[playerID]
	if !ok {
		return domain.ErrPlayerNotFound
	}
	if p.Money+delta < 0 {
		return domain.ErrInsufficientFunds
	}
	p.Money += delta
	return nil
}

func (r *memPlayerRepo) SetRoom(ctx context.Context, playerID, roomID string) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	p, ok := r.w.players[playerID]
	if !ok {
		return domain.ErrPlayerNotFound
	}
	p.RoomID = roomID
	return nil
}

func (r *memPlayerRepo) CreateRoom(ctx context.Context, room *domain.Room) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	copied := *room
	r.w.rooms[room.ID] = &copied
	return nil
}

func (r *memPlayerRepo) GetRoomByCode(ctx context.Context, code string) (*domain.Room, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	for _, room := range r.w.rooms {
		if room.Code == code {
			copied := *room
			return &copied, nil
		}
	}
	return nil, domain.ErrRoomNotFound
}

// memShopRepo implements repository.Shop.
type memShopRepo struct{ w *memWorld }

func (r *memShopRepo) ListStock(ctx context.Context) ([]domain.StockView, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	var out []domain.StockView
	for seedID, entry := range r.w.stock {
		seed, ok := r.w.seeds[seedID]
		if !ok || !seed.Obtainable {
			continue
		}
		out = append(out, domain.StockView{StockEntry: *entry, Seed: *seed})
	}
	return out, nil
}

func (r *memShopRepo) GetStock(ctx context.Context, seedID string) (*domain.StockEntry, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if entry, ok := r.w.stock[seedID]; ok {
		copied := *entry
		return &copied, nil
	}
	return nil, domain.ErrSeedNotFound
}

func (r *memShopRepo) EnsureStockRows(ctx context.Context, now, nextRestockAt time.Time) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	for seedID, seed := range r.w.seeds {
		if !seed.Obtainable {
			continue
		}
		if _, ok := r.w.stock[seedID]; !ok {
			r.w.stock[seedID] = &domain.StockEntry{
				SeedID:        seedID,
				CurrentStock:  seed.MaxStock,
				LastRestockAt: now,
				NextRestockAt: nextRestockAt,
			}
		}
	}
	return nil
}

func (r *memShopRepo) RestockDue(ctx context.Context, now, nextRestockAt time.Time) (int, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	refilled := 0
	for seedID, entry := range r.w.stock {
		if entry.NextRestockAt.After(now) {
			continue
		}
		entry.CurrentStock = r.w.seeds[seedID].MaxStock
		entry.LastRestockAt = now
		entry.NextRestockAt = nextRestockAt
		refilled++
	}
	return refilled, nil
}

func (r *memShopRepo) RestockAll(ctx context.Context, now, nextRestockAt time.Time) (int, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	for seedID, entry := range r.w.stock {
		entry.CurrentStock = r.w.seeds[seedID].MaxStock
		entry.LastRestockAt = now
		entry.NextRestockAt = nextRestockAt
	}
	return len(r.w.stock), nil
}

func (r *memShopRepo) BeginTx(ctx context.Context) (repository.ShopTx, error) {
	return &memShopTx{w: r.w}, nil
}

// memShopTx applies each step immediately and journals the inverse, so a
// rollback restores the world the way an aborted transaction would.
type memShopTx struct {
	w    *memWorld
	undo []func()
	done bool
}

func (t *memShopTx) Commit(ctx context.Context) error {
	t.done = true
	t.undo = nil
	return nil
}

func (t *memShopTx) Rollback(ctx context.Context) error {
	if t.done {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.w.mu.Lock()
	defer t.w.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.done = true
	return nil
}

func (t *memShopTx) DecrementStock(ctx context.Context, seedID string) (int, error) {
	t.w.mu.Lock()
	defer t.w.mu.Unlock()
	entry, ok := t.w.stock[seedID]
	if !ok || entry.CurrentStock <= 0 {
		return 0, domain.ErrOutOfStock
	}
	entry.CurrentStock--
	t.undo = append(t.undo, func() { entry.CurrentStock++ })
	return entry.CurrentStock, nil
}

func (t *memShopTx) DebitBalance(ctx context.Context, playerID string, amount int) error {
	t.w.mu.Lock()
	defer t.w.mu.Unlock()
	p, ok := t.w.players[playerID]
	if !ok {
		return domain.ErrPlayerNotFound
	}
	if p.Money < amount {
		return domain.ErrInsufficientFunds
	}
	p.Money -= amount
	t.undo = append(t.undo, func() { p.Money += amount })
	return nil
}

func (t *memShopTx) CreditInventory(ctx context.Context, playerID, seedID string, qty int) error {
	t.w.mu.Lock()
	defer t.w.mu.Unlock()
	key := invKey(playerID, seedID)
	t.w.inventory[key] += qty
	t.undo = append(t.undo, func() { t.w.inventory[key] -= qty })
	return nil
}

// memCropRepo implements repository.Crop.
type memCropRepo struct{ w *memWorld }

func (r *memCropRepo) GetByID(ctx context.Context, cropID string) (*domain.Crop, error) {
	if c := r.w.crop(cropID); c != nil {
		return c, nil
	}
	return nil, domain.ErrCropNotFound
}

func (r *memCropRepo) ListByPlayer(ctx context.Context, playerID string) ([]domain.Crop, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	var out []domain.Crop
	for _, c := range r.w.crops {
		if c.PlayerID == playerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCropRepo) ListAll(ctx context.Context) ([]domain.Crop, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	out := make([]domain.Crop, 0, len(r.w.crops))
	for _, c := range r.w.crops {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCropRepo) ListByRoom(ctx context.Context, roomID string) ([]domain.Crop, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	var out []domain.Crop
	for _, c := range r.w.crops {
		if p, ok := r.w.players[c.PlayerID]; ok && p.RoomID == roomID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCropRepo) ListGrowing(ctx context.Context) ([]domain.CropGrowth, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	var out []domain.CropGrowth
	for _, c := range r.w.crops {
		if c.GrowthStage >= c.MaxGrowthStage {
			continue
		}
		out = append(out, domain.CropGrowth{
			ID:                c.ID,
			PlantedAt:         c.PlantedAt,
			GrowthStage:       c.GrowthStage,
			MaxGrowthStage:    c.MaxGrowthStage,
			GrowthTimeSeconds: r.w.seeds[c.SeedID].GrowthTimeSeconds,
		})
	}
	return out, nil
}

func (r *memCropRepo) SetGrowthStage(ctx context.Context, cropID string, stage int) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	c, ok := r.w.crops[cropID]
	if !ok {
		return domain.ErrCropNotFound
	}
	c.GrowthStage = stage
	return nil
}

func (r *memCropRepo) SetMutations(ctx context.Context, cropID string, mutations []string) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	c, ok := r.w.crops[cropID]
	if !ok {
		return domain.ErrCropNotFound
	}
	c.Mutations = mutations
	return nil
}

func (r *memCropRepo) DeleteByPlayer(ctx context.Context, playerID string) (int, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	removed := 0
	for id, c := range r.w.crops {
		if c.PlayerID == playerID {
			delete(r.w.crops, id)
			removed++
		}
	}
	return removed, nil
}

func (r *memCropRepo) CountAll(ctx context.Context) (int, error) {
	return r.w.cropCount(), nil
}

func (r *memCropRepo) BeginTx(ctx context.Context) (repository.CropTx, error) {
	return &memCropTx{w: r.w}, nil
}

type memCropTx struct {
	w    *memWorld
	undo []func()
	done bool
}

func (t *memCropTx) Commit(ctx context.Context) error {
	t.done = true
	t.undo = nil
	return nil
}

func (t *memCropTx) Rollback(ctx context.Context) error {
	if t.done {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.w.mu.Lock()
	defer t.w.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.done = true
	return nil
}

func (t *memCropTx) DebitInventory(ctx context.Context, playerID, seedID string, qty int) error {
	t.w.mu.Lock()
	defer t.w.mu.Unlock()
	key := invKey(playerID, seedID)
	if t.w.inventory[key] < qty {
		return fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientQuantity, t.w.inventory[key], qty)
	}
	t.w.inventory[key] -= qty
	t.undo = append(t.undo, func() { t.w.inventory[key] += qty })
	return nil
}

func (t *memCropTx) CreateCrop(ctx context.Context, crop *domain.Crop) error {
	t.w.mu.Lock()
	defer t.w.mu.Unlock()
	for _, c := range t.w.crops {
		if c.PlayerID == crop.PlayerID && c.X == crop.X && c.Y == crop.Y {
			return domain.ErrPositionOccupied
		}
	}
	copied := *crop
	t.w.crops[crop.ID] = &copied
	t.undo = append(t.undo, func() { delete(t.w.crops, crop.ID) })
	return nil
}

func (t *memCropTx) GetCropForUpdate(ctx context.Context, cropID string) (*domain.Crop, error) {
	t.w.mu.Lock()
	defer t.w.mu.Unlock()
	if c, ok := t.w.crops[cropID]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domain.ErrCropNotFound
}

func (t *memCropTx) CreditBalance(ctx context.Context, playerID string, amount int) error {
	t.w.mu.Lock()
	defer t.w.mu.Unlock()
	p, ok := t.w.players[playerID]
	if !ok {
		return domain.ErrPlayerNotFound
	}
	p.Money += amount
	t.undo = append(t.undo, func() { p.Money -= amount })
	return nil
}

func (t *memCropTx) DeleteCrop(ctx context.Context, cropID string) error {
	t.w.mu.Lock()
	defer t.w.mu.Unlock()
	c, ok := t.w.crops[cropID]
	if !ok {
		return domain.ErrCropNotFound
	}
	delete(t.w.crops, cropID)
	t.undo = append(t.undo, func() { t.w.crops[cropID] = c })
	return nil
}

func (t *memCropTx) ResetCrop(ctx context.Context, cropID string, plantedAt time.Time, growthStage, harvestRemaining int) error {
	t.w.mu.Lock()
	defer t.w.mu.Unlock()
	c, ok := t.w.crops[cropID]
	if !ok {
		return domain.ErrCropNotFound
	}
	prev := *c
	c.PlantedAt = plantedAt
	c.GrowthStage = growthStage
	c.HarvestRemaining = harvestRemaining
	t.undo = append(t.undo, func() { *c = prev })
	return nil
}

// memWeatherRepo implements repository.Weather.
type memWeatherRepo struct{ w *memWorld }

func (r *memWeatherRepo) GetActive(ctx context.Context) (*domain.WeatherEvent, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if r.w.weather == nil || !r.w.weather.Active {
		return nil, nil
	}
	copied := *r.w.weather
	return &copied, nil
}

func (r *memWeatherRepo) Create(ctx context.Context, evt *domain.WeatherEvent) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	copied := *evt
	r.w.weather = &copied
	return nil
}

func (r *memWeatherRepo) DeactivateAll(ctx context.Context) (int, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if r.w.weather != nil && r.w.weather.Active {
		r.w.weather.Active = false
		return 1, nil
	}
	return 0, nil
}

type gameServices struct {
	shop    shop.Service
	weather weather.Service
	plot    Service
}

// newGame wires the real services over one in-memory world, the same way
// main.go wires them over Postgres, including the weather-to-plot bridge on
// the event bus.
func newGame(w *memWorld) gameServices {
	bus := event.NewMemoryBus()
	catalogSvc := catalog.NewService(&memSeedRepo{w: w})
	shopSvc := shop.NewService(&memShopRepo{w: w}, catalogSvc, bus, 5*time.Minute)
	weatherSvc := weather.NewService(&memWeatherRepo{w: w}, bus, 5*time.Minute)

	plotSvc := &service{
		cropRepo:   &memCropRepo{w: w},
		playerRepo: &memPlayerRepo{w: w},
		catalogSvc: catalogSvc,
		weatherSvc: weatherSvc,
		bus:        bus,
		cfg:        Config{GridSize: 10},
		now:        w.clock,
		rnd:        func() float64 { return 1 }, // no golden or rainbow rolls
	}

	bus.Subscribe(event.WeatherChanged, func(ctx context.Context, evt event.Event) error {
		payload, ok := evt.Payload.(domain.WeatherChangedPayload)
		if !ok || payload.WeatherType == domain.WeatherClear {
			return nil
		}
		_, err := plotSvc.ApplyWeatherMutations(ctx, payload.WeatherType, domain.WeatherScope(payload.Scope), payload.RoomID)
		return err
	})

	return gameServices{shop: shopSvc, weather: weatherSvc, plot: plotSvc}
}

func newFarmer(w *memWorld) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.players["player-farmer"] = &domain.Player{
		ID:       "player-farmer",
		Username: "farmer",
		Money:    domain.StartingBalance,
	}
	return "player-farmer"
}

func TestGameFlow_BuyPlantGrowHarvest(t *testing.T) {
	ctx := context.Background()
	w := newMemWorld()
	game := newGame(w)
	farmer := newFarmer(w)

	// Loading the shop creates the stock rows.
	listing, err := game.shop.ListStock(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, listing)

	purchase, err := game.shop.Purchase(ctx, farmer, "seed-carrot")
	require.NoError(t, err)
	assert.Equal(t, 10, purchase.Cost)
	assert.Equal(t, 9, purchase.StockLeft)
	assert.Equal(t, 90, w.balance(farmer))
	assert.Equal(t, 1, w.seedCount(farmer, "seed-carrot"))

	crop, err := game.plot.Plant(ctx, farmer, "seed-carrot", 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, w.seedCount(farmer, "seed-carrot"))
	assert.Empty(t, crop.Mutations)
	assert.Equal(t, 0, crop.GrowthStage)

	// Before the growth time has passed the crop refuses to settle.
	_, err = game.plot.Harvest(ctx, farmer, crop.ID)
	assert.ErrorIs(t, err, domain.ErrNotReady)

	w.advance(61 * time.Second)
	advanced, err := game.plot.AdvanceGrowth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, advanced)
	assert.Equal(t, domain.DefaultMaxGrowthStage, w.crop(crop.ID).GrowthStage)

	result, err := game.plot.Harvest(ctx, farmer, crop.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, result.MoneyGained)
	assert.False(t, result.Regrowing)
	assert.Equal(t, 95, w.balance(farmer))
	assert.Equal(t, 0, w.cropCount())
}

func TestGameFlow_FrostDoublesTheHarvest(t *testing.T) {
	ctx := context.Background()
	w := newMemWorld()
	game := newGame(w)
	farmer := newFarmer(w)

	_, err := game.shop.ListStock(ctx)
	require.NoError(t, err)
	_, err = game.shop.Purchase(ctx, farmer, "seed-carrot")
	require.NoError(t, err)
	assert.Equal(t, 90, w.balance(farmer))

	crop, err := game.plot.Plant(ctx, farmer, "seed-carrot", 4, 4)
	require.NoError(t, err)
	assert.Empty(t, crop.Mutations)

	// Frost lands while the carrot grows; the event bus stamps Chilled onto
	// every planted crop.
	_, err = game.weather.Trigger(ctx, "Frost", domain.ScopeGlobal, "", true)
	require.NoError(t, err)
	assert.Equal(t, []string{catalog.MutationChilled}, w.crop(crop.ID).Mutations)

	w.advance(61 * time.Second)
	_, err = game.plot.AdvanceGrowth(ctx)
	require.NoError(t, err)

	result, err := game.plot.Harvest(ctx, farmer, crop.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, result.MoneyGained)
	assert.Equal(t, []string{catalog.MutationChilled}, result.Mutations)
	assert.Equal(t, 100, w.balance(farmer))
}

func TestGameFlow_InsufficientFundsLeavesWorldUntouched(t *testing.T) {
	ctx := context.Background()
	w := newMemWorld()
	game := newGame(w)
	farmer := newFarmer(w)

	w.mu.Lock()
	w.players[farmer].Money = 3
	w.mu.Unlock()

	_, err := game.shop.ListStock(ctx)
	require.NoError(t, err)

	_, err = game.shop.Purchase(ctx, farmer, "seed-carrot")
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// The stock decrement from the failed purchase was rolled back.
	assert.Equal(t, 3, w.balance(farmer))
	assert.Equal(t, 0, w.seedCount(farmer, "seed-carrot"))
	stock, err := (&memShopRepo{w: w}).GetStock(ctx, "seed-carrot")
	require.NoError(t, err)
	assert.Equal(t, 10, stock.CurrentStock)
}
