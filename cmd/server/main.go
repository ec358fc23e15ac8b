package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"library-service/config"
	"library-service/internal/api"
	"library-service/internal/broker"
	"library-service/internal/lifecycle"
	"library-service/internal/redisclient"
	"library-service/internal/seed"
	"library-service/internal/service"
	"library-service/internal/store"
	"library-service/internal/util"
	"library-service/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting library service",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("database_driver", cfg.Database.Driver))

	tp, err := util.InitTracer(util.ServiceName, cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down tracer", zap.Error(err))
		}
	}()

	ctx := context.Background()
	readiness := map[string]api.Pinger{}

	repo, err := openRepository(ctx, cfg, readiness)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer repo.Close()

	// Redis is optional: without it idempotency replay and the availability cache are off
	var cache service.Cache
	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn("Redis unavailable, continuing without cache", zap.Error(err))
	} else {
		defer redisClient.Close()
		cache = redisClient
		readiness["redis"] = func(ctx context.Context) error {
			return redisClient.GetClient().Ping(ctx).Err()
		}
		logger.Info("Redis connected")
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicLibrary)
	defer producer.Close()
	eventPublisher := broker.NewEventPublisher(producer)
	logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))

	engine := lifecycle.NewEngine(lifecycle.Policy{
		BorrowPeriod: cfg.Library.BorrowPeriod,
		RentPeriod:   cfg.Library.RentPeriod,
	})

	availability := service.NewAvailabilityService(repo, cache)
	services := api.Services{
		Inventory:    service.NewInventoryService(repo, engine, cache, eventPublisher, cfg.Library.IdempotencyTTL),
		Reviews:      service.NewReviewService(repo, eventPublisher),
		Wishlist:     service.NewWishlistService(repo),
		Catalog:      service.NewCatalogService(repo, cfg.Library.PageSize),
		Availability: availability,
	}

	if err := availability.Sync(ctx); err != nil {
		logger.Warn("Failed to sync availability to Redis", zap.Error(err))
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicLibrary, cfg.Kafka.ConsumerGroup)
	availabilityWorker := worker.NewAvailabilityWorker(consumer, availability)
	go func() {
		if err := availabilityWorker.Start(workerCtx); err != nil && err != context.Canceled {
			logger.Error("Availability worker error", zap.Error(err))
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(services, readiness, cfg.Library.AdminUserIDs)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	availabilityWorker.Stop()

	logger.Info("Server exited")
}

// openRepository opens the configured store. The memory driver is loaded
// with the sample catalog so the API is usable immediately.
func openRepository(ctx context.Context, cfg *config.Config, readiness map[string]api.Pinger) (store.Repository, error) {
	logger := util.GetLogger()

	switch cfg.Database.Driver {
	case config.DriverMemory:
		repo := store.NewMemoryStore()
		if _, err := seed.Load(ctx, repo, seed.Categories, seed.Books); err != nil {
			return nil, err
		}
		logger.Info("Using in-memory store with sample catalog")
		return repo, nil

	case config.DriverPostgres:
		db, err := store.NewStore(cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, err
		}
		readiness["postgres"] = func(ctx context.Context) error {
			return db.GetDB().PingContext(ctx)
		}
		logger.Info("Database connected and migrated")
		return db, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}
