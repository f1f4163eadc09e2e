package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hospicare/hospicare-backend/api/routes"
	"github.com/hospicare/hospicare-backend/internal/allocations"
	"github.com/hospicare/hospicare-backend/internal/courses"
	"github.com/hospicare/hospicare-backend/internal/doses"
	"github.com/hospicare/hospicare-backend/internal/inventory"
	"github.com/hospicare/hospicare-backend/pkg/config"
	"github.com/hospicare/hospicare-backend/pkg/db"
	"github.com/hospicare/hospicare-backend/pkg/logger"
	"github.com/hospicare/hospicare-backend/pkg/metrics"
	"github.com/hospicare/hospicare-backend/pkg/migrate"
	"github.com/hospicare/hospicare-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	registry := prometheus.NewRegistry()
	allocationMetrics := metrics.NewAllocationMetrics(registry)

	inventoryRepo := inventory.NewRepository(dbClient.DB())
	coursesRepo := courses.NewRepository(dbClient.DB())
	dosesRepo := doses.NewRepository(dbClient.DB())
	allocationsRepo := allocations.NewRepository(dbClient.DB())

	allocationsService, err := allocations.NewService(allocationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create allocations service", err)
		os.Exit(1)
	}
	inventoryService, err := inventory.NewService(inventoryRepo, coursesRepo, allocationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}
	coursesService, err := courses.NewService(coursesRepo, inventoryRepo, allocationsRepo, dbClient, allocationMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create courses service", err)
		os.Exit(1)
	}
	dosesService, err := doses.NewService(dosesRepo, coursesRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create doses service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			inventoryService,
			coursesService,
			dosesService,
			allocationsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
