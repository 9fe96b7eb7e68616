package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"strife/backend/internal/api"
	"strife/backend/internal/api/handler"
	"strife/backend/internal/auth"
	"strife/backend/internal/chathub"
	"strife/backend/internal/config"
	"strife/backend/internal/conversation"
	"strife/backend/internal/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func setupDependencies(ctx context.Context, cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	// 1. PostgreSQL
	db, err := storage.OpenPostgres(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	// 2. Migrations
	if err := storage.Migrate(db); err != nil {
		return nil, nil, err
	}

	// 3. Redis (optional)
	rdb, err := storage.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("database connection established, migrations complete", "redis", rdb != nil)
	return db, rdb, nil
}

func main() {
	configPath := flag.String("config", os.Getenv("STRIFE_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Logging, os.Stderr)
	slog.SetDefault(logger)
	logger.Info("Starting Strife backend...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Dependencies
	db, rdb, err := setupDependencies(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialise dependencies", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	store := storage.NewStorageService(db, rdb).WithLogger(logger)
	store.UserCacheTTL = cfg.Redis.UserCacheTTL

	// 2. Event hub. With Redis, events go through Pub/Sub so every instance
	// sees them; without it the hub is fed directly.
	var events chathub.EventSource
	if rdb != nil {
		events = store
	}
	hub := chathub.NewManagerService(events, logger)
	go hub.Run(ctx)

	var publisher conversation.Publisher = hub
	if rdb != nil {
		publisher = store
	}

	// 3. Services and routes
	tokens := auth.NewTokenIssuer([]byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	conversations := conversation.NewService(store, publisher, logger)
	h := handler.NewHandler(store, conversations, tokens, hub, logger)

	server := &http.Server{
		Addr:           cfg.Server.Addr,
		Handler:        api.NewRouter(h),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Stopping the server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("Server has been stopped")
}
