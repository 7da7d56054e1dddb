package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/fitai/backend/internal/adapters/cache"
	"github.com/zatekoja/fitai/backend/internal/adapters/database"
	"github.com/zatekoja/fitai/backend/internal/adapters/events"
	"github.com/zatekoja/fitai/backend/internal/adapters/providers/generation"
	"github.com/zatekoja/fitai/backend/internal/api/handlers"
	"github.com/zatekoja/fitai/backend/internal/api/routes"
	"github.com/zatekoja/fitai/backend/internal/application/services"
	"github.com/zatekoja/fitai/backend/internal/domain/providers"
	"github.com/zatekoja/fitai/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/fitai/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/fitai/backend/internal/infrastructure/observability"
	"github.com/zatekoja/fitai/backend/pkg/config"
	"github.com/zatekoja/fitai/backend/pkg/secrets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Env, cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Provider keys and store passwords may live in Vault instead of the environment.
	vaultResult, err := secrets.ApplyCredentials(ctx, secrets.LoadVaultConfigFromEnv())
	if err != nil {
		log.Fatal().Err(err).Str("path", vaultResult.Path).Msg("failed to load credentials from Vault")
	}
	if len(vaultResult.Loaded) > 0 {
		log.Info().Strs("keys", vaultResult.Loaded).Str("path", vaultResult.Path).Msg("credentials loaded from Vault")
		if cfg, err = config.Load(); err != nil {
			log.Fatal().Err(err).Msg("failed to reload configuration")
		}
	}

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Redis is optional; without it plans are read straight from PostgreSQL
	// and no plan events are published.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable; running without cache and events")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	planRepo := database.NewPlanAdapter(pgClient, metrics)
	var eventBus providers.EventBus
	var cachePinger handlers.Pinger
	if redisClient != nil {
		planRepo = database.NewCachedPlanAdapter(planRepo, cache.NewRedisAdapter(redisClient), cfg.Redis.PlanTTL, metrics)
		eventBus = events.NewRedisEventBus(redisClient)
		cachePinger = redisClient
		defer eventBus.Close()
	}
	nutritionRepo := database.NewNutritionLogAdapter(pgClient, metrics)

	provider, err := generation.NewTextGenerationProvider(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize text generation provider")
	}
	defer provider.Close()
	log.Info().
		Str("provider", provider.Name()).
		Str("model", provider.Model()).
		Bool("available", provider.Available()).
		Dur("timeout", cfg.Generation.Timeout).
		Msg("text generation configured")

	generationClient := services.NewGenerationClient(provider, cfg.Generation.Timeout)
	generationService := services.NewPlanGenerationService(generationClient, planRepo, eventBus)
	planService := services.NewPlanService(planRepo, eventBus)
	nutritionService := services.NewNutritionService(nutritionRepo)

	router := routes.NewRouter(
		handlers.NewPlanHandler(generationService, planService),
		handlers.NewNutritionHandler(nutritionService),
		handlers.NewHealthHandler(pgClient, cachePinger, provider),
		metrics,
		cfg.Server.AllowedOrigins,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     router.SetupRoutes(),
		ReadTimeout: 15 * time.Second,
		// generation requests may wait for the full provider timeout
		WriteTimeout: cfg.Generation.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
