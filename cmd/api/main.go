// Command api is the Fivea team generator API server.
//
// Usage:
//
//	fivea-api
//	API_PORT=8080 DATABASE_URL=postgres://... fivea-api
//
// Without DATABASE_URL the server still generates teams from inline
// rosters; roster and match endpoints answer 503.

// @title Fivea Team Generator API
// @version 1.0.0
// @description Balanced five-a-side team generation with social constraints, a stored roster, and background match-day processing.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Fivea
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/fivea/internal/api"
	"github.com/albapepper/fivea/internal/api/handler"
	"github.com/albapepper/fivea/internal/cache"
	"github.com/albapepper/fivea/internal/config"
	"github.com/albapepper/fivea/internal/db"
	"github.com/albapepper/fivea/internal/listener"
	"github.com/albapepper/fivea/internal/maintenance"
	"github.com/albapepper/fivea/internal/match"
	"github.com/albapepper/fivea/internal/metrics"
	"github.com/albapepper/fivea/internal/sheets"
	"github.com/albapepper/fivea/internal/store"

	_ "github.com/albapepper/fivea/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Debug {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		slog.SetDefault(logger)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled, cfg.CacheTTL)
	go appCache.RunEviction(ctx, time.Minute)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled, "ttl", cfg.CacheTTL)

	recorder := metrics.NewRecorder(nil)

	deps := handler.Deps{
		Cache:    appCache,
		Recorder: recorder,
		Logger:   logger,
		OwnerID:  cfg.OwnerPlayerID,
	}

	// Spreadsheet mirror
	if cfg.AppsScriptURL != "" {
		deps.Sheet = sheets.NewClient(cfg.AppsScriptURL, cfg.SheetRequestsPerMinute, cfg.SheetTimeout, logger)
		logger.Info("Sheet mirror enabled")
	} else {
		logger.Info("Sheet mirror disabled (no APPS_SCRIPT_URL)")
	}

	// Storage, match processing and roster notifications
	if cfg.DatabaseURL != "" {
		logger.Info("Connecting to database...")
		pool, err := db.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Migrate(ctx); err != nil {
			logger.Error("Failed to apply schema", "error", err)
			os.Exit(1)
		}
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)

		players := store.NewPlayers(pool)
		matches := match.NewStore(pool)
		processor := match.NewProcessor(matches, players, recorder, logger)

		mcfg := maintenance.DefaultConfig()
		mcfg.CatchUpInterval = cfg.MaintenanceInterval
		mcfg.Retention = cfg.MatchRetention
		mcfg.Match.Workers = cfg.MatchWorkers
		mcfg.Match.MaxAttempts = cfg.MatchMaxAttempts
		runner := maintenance.New(matches, processor, mcfg, logger)
		runner.Kick() // matches left pending by a previous run
		go runner.Start(ctx)

		go listener.Start(ctx, cfg.DatabaseURL, &listener.Handler{
			Cache:   appCache,
			Matches: matches,
			Window:  cfg.RequeueWindow,
			OnChange: func(requeued int64) {
				if requeued > 0 {
					runner.Kick()
				}
			},
			Logger: logger,
		}, logger)

		deps.Players = players
		deps.Matches = matches
		deps.DB = pool
		deps.MatchCreated = runner.Kick
	} else {
		logger.Warn("DATABASE_URL not set; serving inline generation only")
	}

	// Create router
	router := api.NewRouter(deps, recorder, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Fivea API",
			"addr", addr,
			"environment", cfg.Environment,
			"owner", cfg.OwnerPlayerID,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
