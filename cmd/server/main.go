package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"taskhub/backend/internal/cache"
	"taskhub/backend/internal/config"
	"taskhub/backend/internal/database"
	"taskhub/backend/internal/logging"
	"taskhub/backend/internal/server"
)

func main() {
	// A missing .env is fine; the environment may be set elsewhere.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := logging.Init(cfg.Log); err != nil {
		slog.Error("failed to initialize logging", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	if err := database.Seed(db, cfg.Auth.BCryptCost); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache = cache.NewRedisCache(cfg.Redis, cfg.GetRedisAddr())
		if err := redisCache.Health(); err != nil {
			slog.Warn("redis unavailable, continuing without cache", "error", err)
			redisCache = nil
		}
		if redisCache != nil {
			defer redisCache.Close()
		}
	}

	router := server.New(cfg, db, redisCache)

	srv := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	slog.Info("server listening", "addr", srv.Addr, "environment", cfg.Server.Environment)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
