// cmd/historian is an asynchronous historian service that pops move records from a Redis queue and persists them to PostgreSQL.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/solitaire/internal/cache"
	"github.com/jason-s-yu/solitaire/internal/config"
	"github.com/jason-s-yu/solitaire/internal/database"
	"github.com/jason-s-yu/solitaire/internal/historian"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		logger.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	sink := &database.MoveSink{Pool: pool}
	if err := sink.EnsureSchema(ctx); err != nil {
		logger.Fatalf("schema: %v", err)
	}

	rdb, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	queue := &historian.RedisQueue{Client: rdb, Name: cfg.Redis.Queue, Logger: logger}
	svc := historian.NewService(queue, sink, historian.Options{
		BatchSize:  cfg.Historian.BatchSize,
		FlushDelay: time.Duration(cfg.Historian.FlushMs) * time.Millisecond,
		Inactivity: time.Duration(cfg.Historian.InactivitySec) * time.Second,
	}, logger)

	logger.Info("solitaire-historian service started.")
	svc.Run(ctx)
	logger.Info("solitaire-historian shut down.")
}
