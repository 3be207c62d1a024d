//go:build integration

package postgres

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/growallgarden/server/internal/catalog"
	"github.com/growallgarden/server/internal/database"
	"github.com/growallgarden/server/internal/domain"
	"github.com/growallgarden/server/internal/event"
	"github.com/growallgarden/server/internal/plot"
	"github.com/growallgarden/server/internal/shop"
	"github.com/growallgarden/server/internal/weather"
)

// These tests verify the guarantees the mocked unit tests can only script:
// the conditional stock decrement, the unique (player_id, x, y) constraint
// and the FOR UPDATE harvest lock, each under real concurrent transactions.

func startTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(15*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(ctx, connStr))

	// MaxConns well above the goroutine count so the pool never serializes
	// the race for us.
	pool, err := database.NewPool(connStr, 20, 30*time.Minute, time.Hour)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func createTestPlayer(t *testing.T, pool *pgxpool.Pool, username string, money int) string {
	t.Helper()
	playerID := uuid.New().String()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO players (player_id, username, money) VALUES ($1, $2, $3)`,
		playerID, username, money)
	require.NoError(t, err)
	return playerID
}

func carrotSeedID(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	seed, err := NewSeedRepository(pool).GetByName(context.Background(), "Carrot")
	require.NoError(t, err)
	return seed.ID
}

func playerBalance(t *testing.T, pool *pgxpool.Pool, playerID string) int {
	t.Helper()
	var money int
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT money FROM players WHERE player_id = $1`, playerID).Scan(&money))
	return money
}

func TestPurchaseRace_LastUnitSellsOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	pool := startTestDatabase(t)

	playerID := createTestPlayer(t, pool, "race-buyer", 1000)
	seedID := carrotSeedID(t, pool)

	// One unit on the shelf, restock far in the future.
	_, err := pool.Exec(ctx,
		`INSERT INTO shop_stock (seed_id, current_stock, last_restock_at, next_restock_at)
		 VALUES ($1, 1, NOW(), NOW() + INTERVAL '1 hour')`, seedID)
	require.NoError(t, err)

	catalogSvc := catalog.NewService(NewSeedRepository(pool))
	shopSvc := shop.NewService(NewShopRepository(pool), catalogSvc, event.NewMemoryBus(), time.Hour)

	const buyers = 10
	var bought, outOfStock, failures int32

	var wg sync.WaitGroup
	wg.Add(buyers)
	start := make(chan struct{})

	for i := 0; i < buyers; i++ {
		go func() {
			defer wg.Done()
			<-start

			_, err := shopSvc.Purchase(ctx, playerID, seedID)
			switch {
			case err == nil:
				atomic.AddInt32(&bought, 1)
			case errors.Is(err, domain.ErrOutOfStock):
				atomic.AddInt32(&outOfStock, 1)
			default:
				atomic.AddInt32(&failures, 1)
				t.Logf("unexpected error: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), bought, "exactly one buyer should get the last unit")
	assert.Equal(t, int32(buyers-1), outOfStock, "all other buyers should see out of stock")
	assert.Equal(t, int32(0), failures)

	stock, err := NewShopRepository(pool).GetStock(ctx, seedID)
	require.NoError(t, err)
	assert.Equal(t, 0, stock.CurrentStock)

	// The one successful buyer was charged exactly once.
	assert.Equal(t, 990, playerBalance(t, pool, playerID))
}

func TestPlantRace_OneCropPerCell(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	pool := startTestDatabase(t)

	playerID := createTestPlayer(t, pool, "race-planter", 100)
	seedID := carrotSeedID(t, pool)

	_, err := pool.Exec(ctx,
		`INSERT INTO inventory (player_id, seed_id, quantity) VALUES ($1, $2, 10)`,
		playerID, seedID)
	require.NoError(t, err)

	bus := event.NewMemoryBus()
	catalogSvc := catalog.NewService(NewSeedRepository(pool))
	weatherSvc := weather.NewService(NewWeatherRepository(pool), bus, 5*time.Minute)
	plotSvc := plot.NewService(NewCropRepository(pool), NewPlayerRepository(pool), catalogSvc, weatherSvc, bus,
		plot.Config{GridSize: 10}, func() float64 { return 1 })

	const planters = 10
	var planted, occupied, failures int32

	var wg sync.WaitGroup
	wg.Add(planters)
	start := make(chan struct{})

	for i := 0; i < planters; i++ {
		go func() {
			defer wg.Done()
			<-start

			_, err := plotSvc.Plant(ctx, playerID, seedID, 3, 3)
			switch {
			case err == nil:
				atomic.AddInt32(&planted, 1)
			case errors.Is(err, domain.ErrPositionOccupied):
				atomic.AddInt32(&occupied, 1)
			default:
				atomic.AddInt32(&failures, 1)
				t.Logf("unexpected error: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), planted, "exactly one plant should land on the cell")
	assert.Equal(t, int32(planters-1), occupied)
	assert.Equal(t, int32(0), failures)

	count, err := NewCropRepository(pool).CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Only the winning plant consumed a seed; the losers rolled back.
	var quantity int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT quantity FROM inventory WHERE player_id = $1 AND seed_id = $2`,
		playerID, seedID).Scan(&quantity))
	assert.Equal(t, 9, quantity)
}

func TestHarvestRace_CropSettlesOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	pool := startTestDatabase(t)

	playerID := createTestPlayer(t, pool, "race-harvester", 100)
	seedID := carrotSeedID(t, pool)

	// A fully grown carrot, ready for a while.
	cropID := uuid.New().String()
	_, err := pool.Exec(ctx,
		`INSERT INTO crops (crop_id, player_id, seed_id, x, y, planted_at, growth_stage, max_growth_stage, harvest_remaining)
		 VALUES ($1, $2, $3, 0, 0, NOW() - INTERVAL '2 minutes', 5, 5, 1)`,
		cropID, playerID, seedID)
	require.NoError(t, err)

	bus := event.NewMemoryBus()
	catalogSvc := catalog.NewService(NewSeedRepository(pool))
	weatherSvc := weather.NewService(NewWeatherRepository(pool), bus, 5*time.Minute)
	plotSvc := plot.NewService(NewCropRepository(pool), NewPlayerRepository(pool), catalogSvc, weatherSvc, bus,
		plot.Config{GridSize: 10}, func() float64 { return 1 })

	const harvesters = 10
	var settled, gone, failures int32

	var wg sync.WaitGroup
	wg.Add(harvesters)
	start := make(chan struct{})

	for i := 0; i < harvesters; i++ {
		go func() {
			defer wg.Done()
			<-start

			result, err := plotSvc.Harvest(ctx, playerID, cropID)
			switch {
			case err == nil:
				atomic.AddInt32(&settled, 1)
				assert.Equal(t, 5, result.MoneyGained)
			case errors.Is(err, domain.ErrCropNotFound):
				// The winner deleted the row; waiters on the lock find it gone.
				atomic.AddInt32(&gone, 1)
			default:
				atomic.AddInt32(&failures, 1)
				t.Logf("unexpected error: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), settled, "exactly one harvest should settle")
	assert.Equal(t, int32(harvesters-1), gone)
	assert.Equal(t, int32(0), failures)

	// Paid out once, not ten times.
	assert.Equal(t, 105, playerBalance(t, pool, playerID))

	count, err := NewCropRepository(pool).CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
