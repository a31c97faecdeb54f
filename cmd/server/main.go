package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lumenlms/lumen-backend/internal/config"
	"github.com/lumenlms/lumen-backend/internal/content"
	"github.com/lumenlms/lumen-backend/internal/database"
	"github.com/lumenlms/lumen-backend/internal/handler"
	"github.com/lumenlms/lumen-backend/internal/logger"
	"github.com/lumenlms/lumen-backend/internal/quiz"
	"github.com/lumenlms/lumen-backend/internal/router"
	"github.com/lumenlms/lumen-backend/internal/service"
	"github.com/lumenlms/lumen-backend/internal/store"
	"github.com/lumenlms/lumen-backend/internal/validator"
	"github.com/lumenlms/lumen-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreDriver).
		Msg("Starting Lumen Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Record Store ─────────────────────────────────────────────
	st, cleanup, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open record store")
	}
	defer cleanup()

	// ─── Load Content Catalog ──────────────────────────────────────────
	catalog, err := content.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("Failed to load catalog")
	}
	log.Info().
		Int("modules", len(catalog.Modules)).
		Int("lessons", catalog.TotalLessons()).
		Msg("Catalog loaded")

	// ─── Initialize Services ──────────────────────────────────────────
	identityService := service.NewIdentityService(st, log)
	tokenService := service.NewTokenService(cfg, identityService)
	progressService := service.NewProgressService(st, catalog, log)
	analyticsService := service.NewAnalyticsService(identityService, progressService, catalog, log)

	registry := quiz.NewRegistry()
	attemptService := service.NewAttemptService(registry, catalog, progressService, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(identityService, tokenService),
		Catalog:  handler.NewCatalogHandler(catalog),
		Attempt:  handler.NewAttemptHandler(attemptService),
		Progress: handler.NewProgressHandler(progressService, catalog),
		Admin:    handler.NewAdminHandler(identityService, analyticsService),
		WS:       handler.NewWSHandler(registry, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	attemptWorker := worker.NewAttemptWorker(registry, progressService, log)
	go attemptWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(tokenService, identityService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Stop the countdown worker; in-progress attempts expire on restart.
	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// openStore builds the record store named by STORE_DRIVER. The returned
// cleanup closes whatever connection the driver holds.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		return store.NewMemoryStore(), func() {}, nil

	case config.StoreDriverFile:
		fs, err := store.NewFileStore(cfg.DataDir, log)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil

	case config.StoreDriverRedis:
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedisStore(rdb, cfg.RedisPrefix), func() { rdb.Close() }, nil

	case config.StoreDriverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgresStore(pool), func() { pool.Close() }, nil

	default:
		return nil, nil, config.ErrUnknownStoreDriver
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
