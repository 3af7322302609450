// Command api is the tennis graph ingest server.
//
// Usage:
//
//	tennis-api
//	API_PORT=8080 tennis-api

// @title Tennis Graph Ingest API
// @version 1.0.0
// @description Scrapes ATP and WTA tournament pages with a headless browser and upserts players, draws, results and match statistics into Neo4j.
// @host localhost:5000
// @BasePath /
// @schemes http https
// @contact.name Tennis Graph
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

	"github.com/albapepper/tennisgraph/internal/api"
	"github.com/albapepper/tennisgraph/internal/api/handler"
	"github.com/albapepper/tennisgraph/internal/browser"
	"github.com/albapepper/tennisgraph/internal/config"
	"github.com/albapepper/tennisgraph/internal/db"
	"github.com/albapepper/tennisgraph/internal/graph"
	"github.com/albapepper/tennisgraph/internal/ingest"

	_ "github.com/albapepper/tennisgraph/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

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

	// One driver for the life of the process
	logger.Info("Connecting to Neo4j...", "uri", cfg.Neo4jURI)
	store, err := graph.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to Neo4j", "error", err)
		os.Exit(1)
	}
	defer store.Close(context.Background())
	logger.Info("Neo4j connected", "database", cfg.Neo4jDatabase)

	opts := []ingest.Option{ingest.WithSettle(cfg.SettleDelay)}
	var runs handler.RunLister
	if cfg.RunLogDatabaseURL != "" {
		pool, err := db.New(ctx, cfg)
		if err != nil {
			logger.Warn("Run log disabled", "error", err)
		} else {
			defer pool.Close()
			opts = append(opts, ingest.WithRecorder(pool))
			runs = pool
			logger.Info("Run log connected", "max_conns", cfg.RunLogMaxConns)
		}
	}

	svc := ingest.NewService(store, browser.NewLauncher(cfg, logger), logger, opts...)
	router := api.NewRouter(handler.New(svc, store, runs), cfg)

	// Ingest requests are held open for the whole scrape, so the write
	// timeout has to cover the longest stats walk.
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting tennis graph API",
			"addr", addr,
			"environment", cfg.Environment,
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
