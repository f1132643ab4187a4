package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/poolatlas/poolatlas/backend/internal/adapters/cache"
	"github.com/poolatlas/poolatlas/backend/internal/adapters/database"
	"github.com/poolatlas/poolatlas/backend/internal/adapters/localstore"
	"github.com/poolatlas/poolatlas/backend/internal/api/handlers"
	"github.com/poolatlas/poolatlas/backend/internal/api/routes"
	"github.com/poolatlas/poolatlas/backend/internal/application/services"
	"github.com/poolatlas/poolatlas/backend/internal/domain/providers"
	"github.com/poolatlas/poolatlas/backend/internal/domain/repositories"
	"github.com/poolatlas/poolatlas/backend/internal/infrastructure/clients/postgres"
	"github.com/poolatlas/poolatlas/backend/internal/infrastructure/clients/redis"
	"github.com/poolatlas/poolatlas/backend/internal/infrastructure/clients/sqlite"
	"github.com/poolatlas/poolatlas/backend/internal/infrastructure/observability"
	"github.com/poolatlas/poolatlas/backend/internal/persistence"
	"github.com/poolatlas/poolatlas/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
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
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize the local fallback store. It must always be available:
	// the remote store may come and go, the fallback keeps the
	// application writable.
	localClient, err := sqlite.Open(cfg.LocalStore.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.LocalStore.Path).
			Msg("failed to open local store")
	}
	defer localClient.Close()
	log.Info().Str("path", cfg.LocalStore.Path).Msg("local store opened")

	// Initialize the primary database client. Failure is not fatal:
	// the gateway routes everything to the fallback store.
	var primaryFacilities repositories.FacilityStore
	var primarySnapshots repositories.SnapshotStore
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Warn().Err(err).Msg("primary database unavailable, running on fallback store")
	} else {
		defer pgClient.Close()
		primaryFacilities = database.NewFacilityAdapter(pgClient)
		primarySnapshots = database.NewSnapshotAdapter(pgClient)
		log.Info().Msg("PostgreSQL client initialized")
	}

	// Initialize Redis client. The application works without caching.
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client, running without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Info().Msg("Redis client initialized")
	}

	// Wire the persistence layer
	fallbackFacilities := localstore.NewFacilityStore(localClient)
	fallbackSnapshots := localstore.NewSnapshotStore(localClient, cfg.History.MaxSnapshots)

	gateway := persistence.NewGateway(primaryFacilities, fallbackFacilities)
	history := persistence.NewVersionHistory(primarySnapshots, fallbackSnapshots, cfg.History.AppendTimeout)

	// Initialize services. No external holiday calendar is wired here;
	// weekend-or-holiday schedule rules fall back to weekend-only
	// matching.
	facilityService := services.NewFacilityService(gateway, history, cacheProvider, nil)

	// Initialize handlers
	facilityHandler := handlers.NewFacilityHandler(facilityService)
	snapshotHandler := handlers.NewSnapshotHandler(facilityService)

	// Set up router
	router := routes.NewRouter(facilityHandler, snapshotHandler)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
