package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/meradukaan/meradukaan-backend/internal/catalog"
	"github.com/meradukaan/meradukaan-backend/internal/inventory"
	"github.com/meradukaan/meradukaan-backend/pkg/config"
	"github.com/meradukaan/meradukaan-backend/pkg/db"
	"github.com/meradukaan/meradukaan-backend/pkg/logger"
	"github.com/meradukaan/meradukaan-backend/pkg/metrics"
	"github.com/meradukaan/meradukaan-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: inventory.SweepJobName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: inventory.SweepJobName,
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	repo := inventory.NewRepository(dbClient.DB())
	service, err := inventory.NewService(inventory.ServiceParams{
		Repo:          repo,
		Catalog:       catalog.NewRepository(dbClient.DB()),
		Logger:        logg,
		Metrics:       metrics.NewInventoryMetrics(prometheus.DefaultRegisterer),
		MaxBatchItems: cfg.Inventory.MaxBatchItems,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	lock, err := inventory.NewRedisLock(redisClient, redisClient.LockKey(inventory.SweepJobName), cfg.Inventory.SweepLockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create sweep lock", err)
		os.Exit(1)
	}

	sweeper, err := inventory.NewSweeper(inventory.SweeperParams{
		Vendors:   repo,
		Service:   service,
		Lock:      lock,
		Logger:    logg,
		Metrics:   metrics.NewJobMetrics(prometheus.DefaultRegisterer),
		BatchSize: cfg.Inventory.SweepBatchSize,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sweeper", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "job": inventory.SweepJobName})

	result, err := sweeper.Run(ctx)
	ctx = logg.WithFields(ctx, map[string]any{
		"skipped": result.Skipped,
		"vendors": result.Vendors,
		"pruned":  result.Pruned,
		"failed":  result.Failed,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "inventory sweep finished with errors", err)
		os.Exit(1)
	}
	logg.Info(ctx, "inventory sweep finished")
}
