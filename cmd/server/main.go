package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/scholarspoint/sphub-backend/internal/config"
	"github.com/scholarspoint/sphub-backend/internal/database"
	"github.com/scholarspoint/sphub-backend/internal/handler"
	"github.com/scholarspoint/sphub-backend/internal/logger"
	"github.com/scholarspoint/sphub-backend/internal/router"
	"github.com/scholarspoint/sphub-backend/internal/service"
	"github.com/scholarspoint/sphub-backend/internal/storage"
	"github.com/scholarspoint/sphub-backend/internal/store"
	"github.com/scholarspoint/sphub-backend/internal/validator"
	ws "github.com/scholarspoint/sphub-backend/internal/websocket"
	"github.com/scholarspoint/sphub-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("storage", cfg.StorageBackend).
		Msg("Starting Scholars Point Hub")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Select Storage Backend ────────────────────────────────────────
	var gateway storage.Gateway
	switch cfg.StorageBackend {
	case "redis":
		gateway = storage.NewRedisGateway(rdb, cfg.StorageKey, log)
	default:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		gateway = storage.NewPostgresGateway(pool, cfg.StorageKey, log)
	}

	// ─── Initialize State ──────────────────────────────────────────────
	st := store.New()
	stateService := service.NewStateService(st, gateway, log)
	if err := stateService.Hydrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to hydrate state")
	}

	hub := ws.NewHub(log)
	st.Subscribe(hub.Broadcast)

	// ─── Initialize Services ──────────────────────────────────────────
	authService, err := service.NewAuthService(cfg, rdb)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize auth service")
	}
	whatsappService := service.NewWhatsAppService(cfg)
	exportService := service.NewExportService(cfg)
	insightService := service.NewInsightService(cfg, rdb, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Student:    handler.NewStudentHandler(stateService),
		Attendance: handler.NewAttendanceHandler(stateService),
		Fee:        handler.NewFeeHandler(stateService),
		Dashboard:  handler.NewDashboardHandler(stateService),
		Birthday:   handler.NewBirthdayHandler(stateService, whatsappService),
		Backup:     handler.NewBackupHandler(stateService, exportService),
		Insight:    handler.NewInsightHandler(stateService, insightService),
		Message:    handler.NewMessageHandler(stateService, whatsappService),
		WS:         handler.NewWSHandler(hub, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	backupWorker := worker.NewBackupWorker(stateService, exportService, cfg, log)
	go backupWorker.Start(workerCtx)

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
