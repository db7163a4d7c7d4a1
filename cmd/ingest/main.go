package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thaskell/market-magic/internal/analyze"
	"github.com/thaskell/market-magic/internal/config"
	"github.com/thaskell/market-magic/internal/database"
	"github.com/thaskell/market-magic/internal/fetch"
	"github.com/thaskell/market-magic/internal/pipeline"
	"github.com/thaskell/market-magic/internal/store"
	"github.com/thaskell/market-magic/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/ingest.local.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable per-record debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting ingestion",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration. Missing credentials or connection parameters are
	// fatal here, before any fetch is attempted.
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"symbols", len(cfg.Pipeline.Symbols),
		"sources", cfg.Pipeline.Sources,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	orchestrator := pipeline.New(cfg, pipeline.Deps{
		Bars:     fetch.NewSheetSource(cfg.Sheet, logger),
		News:     fetch.NewNewsClient(cfg.News.APIKey, fetch.WithNewsTimeout(cfg.News.Timeout), fetch.WithNewsLogger(logger)),
		Social:   fetch.NewForumScraper(cfg.Social, logger),
		Loader:   store.NewUpserter(pool, logger),
		Analyzer: analyze.New(nil),
		Logger:   logger,
	})

	report, err := orchestrator.Run(ctx)
	if err != nil {
		logger.Error("run failed",
			"run_id", report.RunID,
			"error", err,
		)
		os.Exit(1)
	}

	logger.Info("ingestion finished",
		"run_id", report.RunID,
		"loaded", report.Batched,
		"failed_units", len(report.FailedUnits()),
	)
}
