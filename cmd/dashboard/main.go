// Package main provides the entry point for the CORD-19 dashboard server.
// It serves the cleaned dataset produced by the analyze command over an
// HTTP JSON API with an embedded single-page frontend.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/helixir/cord19-explorer/internal/config"
	"github.com/helixir/cord19-explorer/internal/dataset"
	"github.com/helixir/cord19-explorer/internal/observability"
	httpserver "github.com/helixir/cord19-explorer/internal/server/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (ignore error if not found).
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "dashboard").Logger()

	snapshot, err := dataset.ReadCleanedCSV(cfg.Dataset.CleanedPath)
	if err != nil {
		if errors.Is(err, dataset.ErrCleanedDataMissing) {
			fmt.Fprintf(os.Stderr,
				"cleaned dataset not found at %q.\nRun the analyze command first to produce it.\n",
				cfg.Dataset.CleanedPath)
			return nil
		}
		return fmt.Errorf("read cleaned dataset: %w", err)
	}
	logger.Info().
		Str("path", cfg.Dataset.CleanedPath).
		Int("records", snapshot.Len()).
		Msg("cleaned dataset loaded")

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics("cord19_dashboard")
	}

	srv := httpserver.NewServer(httpserver.Config{
		Address:          cfg.Server.HTTPAddress(),
		ReadTimeout:      cfg.Server.ReadTimeout,
		WriteTimeout:     cfg.Server.WriteTimeout,
		IdleTimeout:      cfg.Server.IdleTimeout,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
		MetricsEnabled:   cfg.Metrics.Enabled,
		MetricsPath:      cfg.Metrics.Path,
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimitRPS:     cfg.RateLimit.RPS,
		RateLimitBurst:   cfg.RateLimit.Burst,
	}, snapshot, logger, metrics)

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info().Msg("dashboard shutdown complete")
	return nil
}
