package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/macrolens/foodlog/config"
	httpDelivery "github.com/macrolens/foodlog/internal/delivery/http"
	"github.com/macrolens/foodlog/internal/domain"
	"github.com/macrolens/foodlog/internal/infrastructure/cache"
	"github.com/macrolens/foodlog/internal/infrastructure/presets"
	"github.com/macrolens/foodlog/internal/infrastructure/storage"
	"github.com/macrolens/foodlog/internal/infrastructure/usda"
	"github.com/macrolens/foodlog/internal/platform/logger"
	"github.com/macrolens/foodlog/internal/usecase"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server failed", "error", err)
	}
}

// cacheBackend is a cache repository that owns a connection or goroutine
type cacheBackend interface {
	domain.CacheRepository
	io.Closer
}

func newCache(ctx context.Context, cfg *config.Config) (cacheBackend, error) {
	if cfg.Cache.Type == "redis" {
		return cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
	}
	return cache.NewMemoryCache(), nil
}

func run(cfg *config.Config, log *logger.Logger) error {
	log.Info("starting foodlog",
		"version", version,
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"cache", cfg.Cache.Type,
		"cache_ttl", cfg.Cache.TTL.String(),
		"data_dir", cfg.Store.DataDir,
	)

	ctx := context.Background()

	// Initialize infrastructure dependencies
	foodCache, err := newCache(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer foodCache.Close()

	usdaClient := usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL,
		usda.WithLogger(log),
		usda.WithRequestsPerHour(cfg.RateLimit.USDA),
		usda.WithPageSize(cfg.USDA.PageSize),
		usda.WithDetailTimeout(cfg.USDA.DetailTimeout),
	)
	if cfg.USDA.Debug || cfg.Server.Environment == "development" {
		usdaClient.SetDebug(true)
		log.Debug("USDA client debug mode enabled")
	}
	log.Info("USDA API configured", "base_url", cfg.USDA.BaseURL, "api_key", cfg.USDA.APIKey)

	store, err := storage.Open(cfg.Store.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("closing store", "error", err)
		}
	}()

	builtin, err := presets.Builtin()
	if err != nil {
		return fmt.Errorf("load presets: %w", err)
	}

	// Initialize usecase layer
	presetService := usecase.NewPresetService(builtin, store, log)
	foodService := usecase.NewFoodService(usdaClient, foodCache, presetService, log,
		usecase.FoodServiceConfig{CacheTTL: cfg.Cache.TTL})
	scaler := usecase.NewScaler(log)
	tracker := usecase.NewTrackerService(store, foodService, presetService, scaler, domain.Goals{
		Protein:  cfg.Goals.Protein,
		Fat:      cfg.Goals.Fat,
		Carbs:    cfg.Goals.Carbs,
		Fiber:    cfg.Goals.Fiber,
		Sugar:    cfg.Goals.Sugar,
		Calories: cfg.Goals.Calories,
	}, log)

	limiter := httpDelivery.NewIPRateLimiter(cfg.RateLimit.PerIP, cfg.RateLimit.Burst)
	defer limiter.Close()

	handler := httpDelivery.NewHandler(foodService, scaler, tracker, presetService, log)
	router := httpDelivery.SetupRouter(cfg, handler, limiter, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		log.Info("shutting down server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
	return nil
}
