package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/pricebook-backend/api/controllers"
	"github.com/angelmondragon/pricebook-backend/api/routes"
	"github.com/angelmondragon/pricebook-backend/internal/adjustments"
	"github.com/angelmondragon/pricebook-backend/internal/baseamounts"
	"github.com/angelmondragon/pricebook-backend/internal/catalog"
	"github.com/angelmondragon/pricebook-backend/internal/pricelists"
	"github.com/angelmondragon/pricebook-backend/internal/pricing"
	"github.com/angelmondragon/pricebook-backend/pkg/auth/session"
	"github.com/angelmondragon/pricebook-backend/pkg/bigquery"
	"github.com/angelmondragon/pricebook-backend/pkg/config"
	"github.com/angelmondragon/pricebook-backend/pkg/db"
	"github.com/angelmondragon/pricebook-backend/pkg/logger"
	"github.com/angelmondragon/pricebook-backend/pkg/migrate"
	"github.com/angelmondragon/pricebook-backend/pkg/outbox"
	"github.com/angelmondragon/pricebook-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	// The api only health-checks bigquery; price history rows are written by
	// the price-history worker. Missing credentials degrade to a skipped check.
	var bigqueryPinger controllers.Pinger
	if bqClient, err := bigquery.NewClient(context.Background(), cfg.GCP, cfg.BigQuery, logg); err != nil {
		logg.Warn(context.Background(), "bigquery unavailable, readiness check will be skipped")
	} else {
		bigqueryPinger = bqClient
		defer func() {
			if err := bqClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing bigquery client", err)
			}
		}()
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	priceListRepo := pricelists.NewRepository(dbClient.DB())
	priceListService, err := pricelists.NewService(priceListRepo, dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create price list service", err)
		os.Exit(1)
	}

	baseAmountRepo := baseamounts.NewRepository(dbClient.DB())
	baseAmountService, err := baseamounts.NewService(baseAmountRepo, dbClient, priceListRepo, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create base amount service", err)
		os.Exit(1)
	}

	adjustmentRepo := adjustments.NewRepository(dbClient.DB())
	adjustmentService, err := adjustments.NewService(adjustmentRepo, dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create adjustment service", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	lookupService := pricing.NewLookupService(baseAmountRepo, adjustmentRepo)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			bigqueryPinger,
			sessionManager,
			priceListService,
			baseAmountService,
			adjustmentService,
			catalogRepo,
			lookupService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
