package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/maltedev/amazon-product-api/internal/api"
	"github.com/maltedev/amazon-product-api/internal/config"
	"github.com/maltedev/amazon-product-api/internal/fetcher"
	"github.com/maltedev/amazon-product-api/internal/history"
	"github.com/maltedev/amazon-product-api/internal/metrics"
	"github.com/maltedev/amazon-product-api/internal/parser"
	"github.com/maltedev/amazon-product-api/internal/ratelimit"
	"github.com/maltedev/amazon-product-api/internal/scraper"
	"github.com/maltedev/amazon-product-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()

	// Redis backs the rate limiter when configured; otherwise counters live
	// in process memory.
	var redisClient *redis.Client
	var limiter ratelimit.Limiter
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		limiter = ratelimit.NewRedisLimiter(redisClient,
			cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.Window)
		log.Info("rate limiting via redis", "addr", cfg.Redis.Addr)
	} else {
		limiter = ratelimit.NewMemoryLimiter(
			cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.Window)
		log.Info("rate limiting in memory")
	}

	var store *history.Store
	if cfg.Database.URL != "" {
		store, err = history.New(ctx, cfg.Database.URL, log)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		log.Info("scrape history journaling enabled")
	}

	fetchClient := fetcher.New(cfg.Scraper, log, m)
	extractor := parser.NewExtractor(log)
	service := scraper.NewService(fetchClient, extractor, cfg.Scraper.BaseURL, log, m, store)
	handlers := api.NewHandlers(service, redisClient, store, log)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handlers, limiter, m, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Info("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		cancel()
	}()

	log.Info("starting server", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
