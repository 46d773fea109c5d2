// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/solitaire/internal/auth"
	"github.com/jason-s-yu/solitaire/internal/cache"
	"github.com/jason-s-yu/solitaire/internal/config"
	"github.com/jason-s-yu/solitaire/internal/handlers"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := cfg.NewLogger()

	expire, _ := cfg.TokenExpiry()
	seats, err := newSeatIssuer(expire)
	if err != nil {
		logger.Fatalf("seat keys: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := handlers.NewBoardServer(seats, logger)
	srv.CardWidth = cfg.Board.CardWidth
	srv.CardHeight = cfg.Board.CardHeight

	if cfg.Redis.Enabled {
		rdb, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			logger.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		srv.Publisher = cache.NewPublisher(rdb, cfg.Redis.Queue)
		logger.Infof("Publishing moves to Redis queue %q", cfg.Redis.Queue)
	}

	if cfg.Board.IdleMinutes > 0 {
		idle := time.Duration(cfg.Board.IdleMinutes) * time.Minute
		go srv.RunIdleSweeper(ctx, idle, time.Minute)
	}

	server := &http.Server{
		Addr:        cfg.HTTP.Addr,
		Handler:     srv.Routes(),
		ReadTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Infof("Running on %s", cfg.HTTP.Addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server exited: %v", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("shutdown: %v", err)
	}
}

// newSeatIssuer loads persistent keys when both paths are set, else generates ephemeral ones.
func newSeatIssuer(expire time.Duration) (*auth.SeatIssuer, error) {
	priv, pub := os.Getenv("SOLITAIRE_PRIVATE_KEY_PATH"), os.Getenv("SOLITAIRE_PUBLIC_KEY_PATH")
	if priv != "" && pub != "" {
		return auth.NewSeatIssuerFromPath(priv, pub, expire)
	}
	return auth.NewSeatIssuer(expire)
}
