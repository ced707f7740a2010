package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicsprep/civicsprep-backend/internal/config"
	"github.com/civicsprep/civicsprep-backend/internal/database"
	"github.com/civicsprep/civicsprep-backend/internal/handler"
	"github.com/civicsprep/civicsprep-backend/internal/logger"
	"github.com/civicsprep/civicsprep-backend/internal/repository"
	"github.com/civicsprep/civicsprep-backend/internal/router"
	"github.com/civicsprep/civicsprep-backend/internal/service"
	"github.com/civicsprep/civicsprep-backend/internal/validator"
	"github.com/civicsprep/civicsprep-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("bank_version", cfg.BankVersion).
		Msg("Starting CivicsPrep Backend")

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
	userRepo := repository.NewUserRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	streakRepo := repository.NewStreakRepository(pool)
	queueRepo := repository.NewPendingQueueRepository(rdb)
	lastSessionRepo := repository.NewLastSessionRepository(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, userRepo, lastSessionRepo, rdb)
	practiceService := service.NewPracticeService(questionRepo, cfg)
	sessionStore := service.NewSessionStore()
	streakService := service.NewStreakService(streakRepo, log)
	publisher := service.NewRedisProgressPublisher(rdb)
	syncService := service.NewSyncService(attemptRepo, queueRepo, streakService, lastSessionRepo, publisher, log)
	analyticsService := service.NewAnalyticsService(attemptRepo, streakService, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Practice:  handler.NewPracticeHandler(practiceService, sessionStore),
		Progress:  handler.NewProgressHandler(syncService, sessionStore),
		Streak:    handler.NewStreakHandler(streakService),
		Analytics: handler.NewAnalyticsHandler(analyticsService),
		WS:        handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	retryWorker := worker.NewSyncRetryWorker(queueRepo, syncService, cfg.SyncRetryInterval, log)
	reminderWorker := worker.NewReminderWorker(streakRepo, publisher, cfg.ReminderHour, log)

	go retryWorker.Start(workerCtx)
	go reminderWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

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

	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
