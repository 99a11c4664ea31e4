package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/atlas-transfers/service-pricing/internal/application"
	"github.com/atlas-transfers/service-pricing/internal/config"
	pricingEvents "github.com/atlas-transfers/service-pricing/internal/events"
	"github.com/atlas-transfers/service-pricing/internal/handler"
	"github.com/atlas-transfers/service-pricing/internal/maps"
	"github.com/atlas-transfers/service-pricing/internal/platform/database"
	"github.com/atlas-transfers/service-pricing/internal/platform/health"
	"github.com/atlas-transfers/service-pricing/internal/platform/logger"
	"github.com/atlas-transfers/service-pricing/internal/platform/middleware"
	"github.com/atlas-transfers/service-pricing/internal/repository"

	pricingDomain "github.com/atlas-transfers/service-pricing/internal/domain/pricing"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-pricing")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-pricing",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(repository.CatalogModels()...); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	}

	// Optional Redis-backed distance cache
	var estimateCache *maps.EstimateCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = redisClient.Close() }()
		estimateCache = maps.NewEstimateCache(redisClient, cfg.Maps.CacheTTL, log)
		log.Info("distance estimate cache enabled", zap.String("redis", cfg.RedisAddr))
	}

	// Initialize distance service
	distanceService, err := maps.NewService(maps.Config{
		APIKey:  cfg.Maps.APIKey,
		Timeout: cfg.Maps.Timeout,
	}, estimateCache, log)
	if err != nil {
		log.Fatal("failed to create distance service", zap.Error(err))
	}

	// Initialize catalog repository and snapshot cache
	catalogRepo := repository.NewGormCatalogRepository(db)
	snapshotCache := application.NewSnapshotCache(catalogRepo, cfg.Pricing.SnapshotTTL, log)

	// Initialize resolver and application service
	resolver := pricingDomain.NewResolver(distanceService)
	quoteService := application.NewQuoteService(
		snapshotCache,
		resolver,
		distanceService,
		cfg.Pricing.Currency,
		cfg.Pricing.EstimatePerKm,
		log,
	)

	// Initialize and start catalog event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalogConsumer := pricingEvents.NewCatalogEventConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.GroupID,
		cfg.Kafka.CatalogTopic,
		snapshotCache,
		log,
	)
	defer func() { _ = catalogConsumer.Close() }()

	go func() {
		log.Info("starting catalog event consumer")
		if err := catalogConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("catalog event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	quoteHandler := handler.NewQuoteHandler(quoteService)
	catalogHandler := handler.NewCatalogHandler(quoteService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-pricing")
	healthHandler.RegisterRoutes(router)

	// Register routes
	quoteHandler.RegisterRoutes(&router.RouterGroup)
	catalogHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-pricing...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-pricing stopped")
}
