package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"library-service/config"
	"library-service/internal/covers"
	"library-service/internal/store"
	"library-service/internal/util"

	"go.uber.org/zap"
)

func main() {
	concurrency := flag.Int("concurrency", 4, "parallel downloads")
	flag.Parse()

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := covers.NewFetcher(db, covers.NewClient(cfg.Covers.GoogleBooksURL), cfg.Covers.Dir, *concurrency)
	report, err := fetcher.Run(ctx)
	if err != nil {
		logger.Fatal("Cover fetch failed", zap.Error(err))
	}

	if report.Failed > 0 {
		logger.Warn("Some covers could not be fetched", zap.Int64("failed", report.Failed))
	}
}
