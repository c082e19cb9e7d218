// Package main provides the entry point for the CORD-19 analysis run. It
// loads the raw metadata file (or generates a synthetic sample when the
// file is absent), cleans it, prints a console report and writes the
// cleaned export plus chart dataset files.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/helixir/cord19-explorer/internal/analysis"
	"github.com/helixir/cord19-explorer/internal/cleaning"
	"github.com/helixir/cord19-explorer/internal/config"
	"github.com/helixir/cord19-explorer/internal/dataset"
	"github.com/helixir/cord19-explorer/internal/observability"
	"github.com/helixir/cord19-explorer/internal/report"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		sourcePath  = flag.String("source", "", "raw metadata CSV path (overrides config)")
		cleanedPath = flag.String("output", "", "cleaned CSV output path (overrides config)")
		sampleSize  = flag.Int("sample-size", 0, "synthetic sample size (overrides config)")
		skipCharts  = flag.Bool("no-charts", false, "skip writing chart dataset files")
	)
	flag.Parse()

	// Load .env file if present (ignore error if not found).
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *sourcePath != "" {
		cfg.Dataset.SourcePath = *sourcePath
	}
	if *cleanedPath != "" {
		cfg.Dataset.CleanedPath = *cleanedPath
	}
	if *sampleSize > 0 {
		cfg.Sample.Size = *sampleSize
	}

	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "analyze").Logger()

	raw, err := loadOrGenerate(cfg, logger)
	if err != nil {
		return err
	}

	cleaned, result := cleaning.Clean(raw)
	logger.Info().
		Int("input_records", result.InputRecords).
		Int("output_records", result.OutputRecords).
		Int("duplicates_removed", result.DuplicatesRemoved).
		Int("dates_parsed", result.DatesParsed).
		Int("dates_unparseable", result.DatesUnparseable).
		Msg("cleaning complete")

	if err := report.Write(os.Stdout, cleaned, result, report.Options{
		TopJournals: cfg.Analysis.TopJournals,
		TopWords:    cfg.Analysis.TopWords,
	}); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if err := dataset.WriteCleanedFile(cleaned, cfg.Dataset.CleanedPath); err != nil {
		return fmt.Errorf("write cleaned export: %w", err)
	}
	logger.Info().
		Str("path", cfg.Dataset.CleanedPath).
		Int("records", cleaned.Len()).
		Msg("cleaned export written")

	if !*skipCharts {
		if err := writeChartData(cleaned, cfg, logger); err != nil {
			return fmt.Errorf("write chart data: %w", err)
		}
	}

	return nil
}

// loadOrGenerate loads the raw metadata file. A missing file falls back to
// the deterministic synthetic sample; a malformed file is a hard error.
func loadOrGenerate(cfg *config.Config, logger zerolog.Logger) (*dataset.RecordSet, error) {
	raw, err := dataset.Load(cfg.Dataset.SourcePath, logger)
	if err == nil {
		logger.Info().
			Str("path", cfg.Dataset.SourcePath).
			Int("records", raw.Len()).
			Msg("raw metadata loaded")
		return raw, nil
	}

	var loadErr *dataset.LoadError
	if errors.As(err, &loadErr) {
		return nil, fmt.Errorf("source file is malformed: %w", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load source file: %w", err)
	}

	logger.Warn().
		Str("path", cfg.Dataset.SourcePath).
		Int("sample_size", cfg.Sample.Size).
		Int64("seed", cfg.Sample.Seed).
		Msg("source file not found, generating synthetic sample")
	rng := rand.New(rand.NewSource(cfg.Sample.Seed))
	return dataset.GenerateSample(cfg.Sample.Size, rng), nil
}

// writeChartData writes one JSON dataset per dashboard chart.
func writeChartData(rs *dataset.RecordSet, cfg *config.Config, logger zerolog.Logger) error {
	if err := os.MkdirAll(cfg.Dataset.ChartsDir, 0o755); err != nil {
		return fmt.Errorf("create charts dir: %w", err)
	}

	charts := map[string]interface{}{
		"publications_by_year.json": analysis.CountByYear(rs),
		"top_journals.json":         analysis.TopJournals(rs, cfg.Analysis.TopJournals),
		"sources.json":              analysis.CountBySource(rs),
		"monthly_trend.json":        analysis.MonthlyTrend(rs),
		"title_words.json":          analysis.WordFrequency(rs, analysis.FieldTitle, cfg.Analysis.TopWords, analysis.DefaultStopwords()),
		"abstract_lengths.json":     analysis.AbstractLengthStats(rs),
	}

	for name, data := range charts {
		path := filepath.Join(cfg.Dataset.ChartsDir, name)
		if err := writeJSONFile(path, data); err != nil {
			return err
		}
	}
	logger.Info().
		Str("dir", cfg.Dataset.ChartsDir).
		Int("files", len(charts)).
		Msg("chart datasets written")
	return nil
}

func writeJSONFile(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
