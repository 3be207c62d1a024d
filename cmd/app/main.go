package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/growallgarden/server/internal/admin"
	"github.com/growallgarden/server/internal/catalog"
	"github.com/growallgarden/server/internal/config"
	"github.com/growallgarden/server/internal/database"
	"github.com/growallgarden/server/internal/database/postgres"
	"github.com/growallgarden/server/internal/domain"
	"github.com/growallgarden/server/internal/event"
	"github.com/growallgarden/server/internal/handler"
	"github.com/growallgarden/server/internal/inventory"
	"github.com/growallgarden/server/internal/logger"
	"github.com/growallgarden/server/internal/metrics"
	"github.com/growallgarden/server/internal/player"
	"github.com/growallgarden/server/internal/plot"
	"github.com/growallgarden/server/internal/scheduler"
	"github.com/growallgarden/server/internal/server"
	"github.com/growallgarden/server/internal/shop"
	"github.com/growallgarden/server/internal/sse"
	"github.com/growallgarden/server/internal/weather"
	"github.com/growallgarden/server/internal/worker"
)

const (
	workerCount     = 4
	workerQueueSize = 100
	shutdownTimeout = 10 * time.Second

	dbMaxConns   = 10
	dbMaxIdle    = 5 * time.Minute
	dbMaxLife    = 30 * time.Minute
	weatherSweep = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logger.Init(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName, cfg.Version, cfg.Environment, false))
	handler.InitValidator()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	if err := database.RunMigrations(ctx, cfg.GetDBConnString()); err != nil {
		slog.Error("Migrations failed", "error", err)
		os.Exit(1)
	}

	dbPool, err := database.NewPool(cfg.GetDBConnString(), dbMaxConns, dbMaxIdle, dbMaxLife)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// Repositories
	playerRepo := postgres.NewPlayerRepository(dbPool)
	seedRepo := postgres.NewSeedRepository(dbPool)
	inventoryRepo := postgres.NewInventoryRepository(dbPool)
	shopRepo := postgres.NewShopRepository(dbPool)
	cropRepo := postgres.NewCropRepository(dbPool)
	weatherRepo := postgres.NewWeatherRepository(dbPool)

	// Event bus and its subscribers
	bus := event.NewMemoryBus()
	metrics.NewEventMetricsCollector().Register(bus)

	hub := sse.NewHub()
	hub.Start()
	defer hub.Stop()
	sse.NewSubscriber(hub, bus).Subscribe()

	// Services
	catalogSvc := catalog.NewService(seedRepo)
	playerSvc := player.NewService(playerRepo)
	inventorySvc := inventory.NewService(inventoryRepo, playerRepo)
	shopSvc := shop.NewService(shopRepo, catalogSvc, bus, cfg.RestockInterval)
	weatherSvc := weather.NewService(weatherRepo, bus, cfg.WeatherDuration)
	plotSvc := plot.NewService(cropRepo, playerRepo, catalogSvc, weatherSvc, bus, plot.Config{
		GridSize:      cfg.GridSize,
		GoldenChance:  cfg.GoldenMutationChance,
		RainbowChance: cfg.RainbowChance,
	}, nil)
	adminSvc := admin.NewService(playerRepo, inventoryRepo, cropRepo, shopRepo, catalogSvc, weatherSvc, bus, cfg.RestockInterval)

	// A weather transition stamps its mutations onto every crop in scope.
	bus.Subscribe(event.WeatherChanged, func(ctx context.Context, evt event.Event) error {
		payload, ok := evt.Payload.(domain.WeatherChangedPayload)
		if !ok || payload.WeatherType == domain.WeatherClear {
			return nil
		}
		_, err := plotSvc.ApplyWeatherMutations(ctx, payload.WeatherType, domain.WeatherScope(payload.Scope), payload.RoomID)
		return err
	})

	// Background jobs
	pool := worker.NewPool(workerCount, workerQueueSize)
	pool.Start()
	defer pool.Stop()

	sched := scheduler.New(pool)
	sched.Schedule(cfg.GrowthTickInterval, worker.NewGrowthJob(plotSvc))
	sched.Schedule(cfg.RestockInterval, worker.NewRestockJob(shopSvc))
	sched.Schedule(weatherSweep, worker.NewWeatherSweepJob(weatherSvc))
	defer sched.Stop()

	// HTTP server
	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, dbPool, server.Services{
		Player:    playerSvc,
		Catalog:   catalogSvc,
		Inventory: inventorySvc,
		Shop:      shopSvc,
		Plot:      plotSvc,
		Weather:   weatherSvc,
		Admin:     adminSvc,
	}, hub)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
