package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sushka2023/sushka-shop-backend/internal/cron"
	"github.com/sushka2023/sushka-shop-backend/internal/warehouses"
	"github.com/sushka2023/sushka-shop-backend/pkg/config"
	"github.com/sushka2023/sushka-shop-backend/pkg/db"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
	"github.com/sushka2023/sushka-shop-backend/pkg/metrics"
	"github.com/sushka2023/sushka-shop-backend/pkg/migrate"
	"github.com/sushka2023/sushka-shop-backend/pkg/novaposhta"
	"github.com/sushka2023/sushka-shop-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

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

	npClient, err := novaposhta.NewClient(context.Background(), cfg.NovaPoshta, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create nova poshta client", err)
		os.Exit(1)
	}

	warehousesService, err := warehouses.NewService(warehouses.ServiceParams{
		Repo:   warehouses.NewRepository(dbClient.DB()),
		Client: npClient,
		Cities: cfg.NovaPoshta.Cities,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create warehouses service", err)
		os.Exit(1)
	}

	scheduler, err := cron.NewScheduler(cron.SchedulerParams{
		Syncer:  warehousesService,
		Locker:  redisClient,
		Logger:  logg,
		Metrics: metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Config:  cfg.Cron,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduler", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting cron worker")

	if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
