package main

import (
	"context"
	"log"

	"library-service/config"
	"library-service/internal/seed"
	"library-service/internal/store"
	"library-service/internal/util"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()
	logger := util.GetLogger()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	result, err := seed.Load(context.Background(), db, seed.Categories, seed.Books)
	if err != nil {
		logger.Fatal("Failed to load sample data", zap.Error(err))
	}

	logger.Info("Successfully added sample data",
		zap.Int("categories", result.Categories),
		zap.Int("books", result.Books),
		zap.Int64("demo_user_id", result.User.ID))
}
