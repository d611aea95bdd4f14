package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mederva/boardprep-backend/internal/config"
	"github.com/mederva/boardprep-backend/internal/database"
	"github.com/mederva/boardprep-backend/internal/generator"
	"github.com/mederva/boardprep-backend/internal/handler"
	"github.com/mederva/boardprep-backend/internal/logger"
	"github.com/mederva/boardprep-backend/internal/repository"
	"github.com/mederva/boardprep-backend/internal/router"
	"github.com/mederva/boardprep-backend/internal/service"
	"github.com/mederva/boardprep-backend/internal/store"
	"github.com/mederva/boardprep-backend/internal/validator"
	"github.com/mederva/boardprep-backend/internal/websocket"
	"github.com/mederva/boardprep-backend/internal/worker"
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
		Msg("Starting BoardPrep Backend")

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

	// ─── Initialize Durable Store ──────────────────────────────────────
	kv := store.NewPostgresKV(pool)
	if err := kv.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("Slot store unavailable, run migrations first")
	}

	stateRepo := repository.NewStateRepository(kv, log)
	state, err := stateRepo.LoadAll(ctx, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load study state")
	}
	log.Info().
		Int("library", len(state.Library)).
		Int("history", len(state.History)).
		Msg("Study state loaded")

	// ─── Initialize Generator ──────────────────────────────────────────
	gen, err := generator.NewGemini(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize generator client")
	}

	// ─── Start Persist Worker ──────────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	persistWorker := worker.NewPersistWorker(kv, log)
	go persistWorker.Start(workerCtx)

	// ─── Initialize Services ───────────────────────────────────────────
	hub := websocket.NewHub(log)
	mirror := repository.NewSessionMirror(rdb, log)
	studyStore := service.NewStudyStore(state, gen, persistWorker, log)
	sessionService := service.NewSessionService(studyStore, gen, mirror, hub, log)
	documentService := service.NewDocumentService(studyStore, sessionService, gen, log)

	// Resume a session that survived a restart.
	if restored, err := mirror.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("Could not read mirrored session")
	} else if restored != nil {
		sessionService.Adopt(ctx, restored)
	}

	// ─── Initialize Handlers ───────────────────────────────────────────
	handlers := &router.Handlers{
		Session:  handler.NewSessionHandler(sessionService),
		Review:   handler.NewReviewHandler(studyStore),
		Stats:    handler.NewStatsHandler(studyStore),
		Backup:   handler.NewBackupHandler(studyStore, sessionService),
		Document: handler.NewDocumentHandler(documentService, studyStore),
		WS:       handler.NewWSHandler(hub, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

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

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the persist worker and let it drain its queue.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow the worker to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
