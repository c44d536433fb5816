package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/fitbook-backend/internal/config"
	"github.com/stemsi/fitbook-backend/internal/database"
	"github.com/stemsi/fitbook-backend/internal/handler"
	"github.com/stemsi/fitbook-backend/internal/logger"
	"github.com/stemsi/fitbook-backend/internal/middleware"
	"github.com/stemsi/fitbook-backend/internal/repository"
	"github.com/stemsi/fitbook-backend/internal/router"
	"github.com/stemsi/fitbook-backend/internal/service"
	"github.com/stemsi/fitbook-backend/internal/validator"
	"github.com/stemsi/fitbook-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting FitBook Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	classRepo := repository.NewClassRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	availability := service.NewAvailabilityPublisher(rdb, log)
	classService := service.NewClassService(classRepo, rdb, cfg.ClassCacheTTL, log)
	bookingService := service.NewBookingService(pool, classRepo, bookingRepo, availability, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Class:   handler.NewClassHandler(classService, log),
		Booking: handler.NewBookingHandler(bookingService, log),
		WS:      handler.NewWSHandler(availability, classService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	limiter := middleware.NewRateLimiter(cfg.BookRatePerMin, cfg.BookRateBurst, log)
	go limiter.Run(workerCtx)

	// Prewarm the class listing before accepting traffic, then keep it warm.
	if cfg.ClassCacheTTL > 0 {
		if err := classService.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("Cache prewarm failed")
		}
		go worker.NewCacheWarmer(classService, cfg.ClassCacheTTL/2, log).Start(workerCtx)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, limiter, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(handlers.WS.Shutdown)

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

	// 1. Stop accepting new HTTP requests. In-flight bookings finish or roll back.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers.
	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
