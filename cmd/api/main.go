package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/ehr-document-pipeline/internal/adapters/cache"
	"github.com/zatekoja/ehr-document-pipeline/internal/adapters/events"
	"github.com/zatekoja/ehr-document-pipeline/internal/adapters/memory"
	"github.com/zatekoja/ehr-document-pipeline/internal/api/handlers"
	"github.com/zatekoja/ehr-document-pipeline/internal/api/middleware"
	"github.com/zatekoja/ehr-document-pipeline/internal/api/routes"
	"github.com/zatekoja/ehr-document-pipeline/internal/application/services"
	"github.com/zatekoja/ehr-document-pipeline/internal/domain/providers"
	"github.com/zatekoja/ehr-document-pipeline/internal/infrastructure/clients/redis"
	"github.com/zatekoja/ehr-document-pipeline/internal/infrastructure/observability"
	"github.com/zatekoja/ehr-document-pipeline/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment)

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

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize Redis client if enabled. The application works without
	// Redis; caching and event streaming are simply disabled.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize Redis client")
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info().Msg("Redis client initialized")
		}
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for real-time pipeline updates
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("event bus initialized")
	}

	// Initialize storage
	documentStore := memory.NewDocumentStore()
	entityStore := memory.NewEntityStore()
	profileStore := memory.NewProfileStore()
	patientStore := memory.NewPatientStore()
	resourceStore := memory.NewResourceStore()
	derivedFactsStore := memory.NewDerivedFactsStore()

	// Initialize services
	extractionService := services.NewExtractionService()
	aggregationService := services.NewAggregationService()
	transformationLog := services.NewTransformationLog()

	pipelineService := services.NewPipelineService(
		extractionService,
		aggregationService,
		transformationLog,
		documentStore,
		entityStore,
		profileStore,
	)
	if eventBus != nil {
		pipelineService.SetEventBus(eventBus)
	}
	pipelineService.SetMetrics(metrics)

	// Drop cached responses whenever the pipeline produces new data
	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Warn().Err(err).Msg("failed to start cache invalidation service")
		}
	}

	generatorService := services.NewGeneratorService()

	// Seed the synthetic dataset so the API serves data immediately
	dataset := generatorService.GenerateDataset(
		cfg.Generator.Patients,
		cfg.Generator.MinResources,
		cfg.Generator.MaxResources,
	)
	if err := patientStore.ReplaceAll(ctx, dataset.Patients); err != nil {
		log.Fatal().Err(err).Msg("failed to seed patients")
	}
	if err := resourceStore.ReplaceAll(ctx, dataset.Resources); err != nil {
		log.Fatal().Err(err).Msg("failed to seed resources")
	}
	if err := derivedFactsStore.ReplaceAll(ctx, dataset.DerivedFacts); err != nil {
		log.Fatal().Err(err).Msg("failed to seed derived facts")
	}
	log.Info().
		Int("patients", len(dataset.Patients)).
		Int("resources", len(dataset.Resources)).
		Msg("synthetic dataset seeded")

	// Initialize handlers
	pipelineHandler := handlers.NewPipelineHandler(pipelineService, documentStore, entityStore, profileStore)
	patientHandler := handlers.NewPatientHandler(patientStore, resourceStore, derivedFactsStore, profileStore)
	adminHandler := handlers.NewAdminHandler(generatorService, patientStore, resourceStore, derivedFactsStore, cfg.Generator)

	var eventStreamHandler *handlers.EventStreamHandler
	if eventBus != nil {
		eventStreamHandler = handlers.NewEventStreamHandler(eventBus)
	}

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Info().Msg("cache middleware initialized")
	}

	// Set up router
	router := routes.NewRouter(
		pipelineHandler,
		patientHandler,
		adminHandler,
		eventStreamHandler,
		cacheMiddleware,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.ServerAddr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	// Stop cache invalidation service
	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}

	log.Info().Msg("server stopped")
}
