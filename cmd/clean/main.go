package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"sipafcli/internal/cleaning"
	"sipafcli/internal/config"
	"sipafcli/internal/dataset"
	"sipafcli/internal/exporter"
	"sipafcli/internal/files"
	"sipafcli/internal/infrastructure"
	"sipafcli/internal/textclean"
)

func main() {
	baseDir := flag.String("base", "", "base directory for data and logs (defaults to the executable directory)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = nil
	}

	paths, err := config.ResolvePaths(cfg)
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if *baseDir != "" {
		paths = config.NewPaths(*baseDir)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	if cfg == nil {
		cfg = &config.Config{
			Logging: config.LoggingConfig{
				Level:    "info",
				Output:   "both",
				FilePath: paths.GetLogPath("clean.log"),
			},
		}
	}
	cfg.Logging.FilePath = paths.ResolveLogFile(cfg.Logging.FilePath)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.ContextWithRunID(context.Background())
	logger = infrastructure.LoggerWithContext(ctx)

	logger.Info("Starting cleaning and standardization",
		slog.String("data_dir", paths.DataDir))

	cleanPrices(paths, logger)
	cleanFilingTexts(paths, logger)

	logger.Info("Cleaning finished",
		slog.String("data_dir", paths.DataDir),
		slog.String("reports_text_dir", paths.ReportsTextDir))
}

// cleanPrices standardizes every per-ticker price file in place, then
// concatenates them into the unified clean dataset.
func cleanPrices(paths *config.Paths, logger *slog.Logger) {
	discovery := files.NewDiscovery(paths.DataDir)
	priceFiles, err := discovery.FindPriceCSVFiles(paths.DataDir)
	if err != nil {
		logger.Error("Failed to discover price files", slog.String("error", err.Error()))
		return
	}
	if len(priceFiles) == 0 {
		logger.Warn("No *_prices.csv files found",
			slog.String("data_dir", paths.DataDir))
		return
	}

	writer := exporter.NewCSVWriter(paths)
	var cleaned []*dataset.Dataset
	for _, file := range priceFiles {
		d, err := dataset.ReadCSV(file.Path)
		if err != nil {
			logger.Error("Failed to read price CSV, skipping",
				slog.String("file", file.Name),
				slog.String("error", err.Error()))
			continue
		}

		fileLogger := logger.With(slog.String("file", file.Name))
		cleaning.CleanPrices(d, fileLogger)

		header, records := d.Records()
		if err := writer.WriteSimpleCSV(file.Path, header, records); err != nil {
			logger.Error("Failed to write standardized CSV, skipping",
				slog.String("file", file.Name),
				slog.String("error", err.Error()))
			continue
		}
		logger.Info("Standardized price file",
			slog.String("file", file.Name),
			slog.Int("rows", d.Len()))
		cleaned = append(cleaned, d)
	}

	if len(cleaned) == 0 {
		logger.Warn("No price files survived cleaning, unified dataset not written")
		return
	}

	unified := dataset.Concat(cleaned...)
	header, records := unified.Records()
	if err := writer.WriteSimpleCSV(paths.CleanPricesCSV, header, records); err != nil {
		logger.Error("Failed to write unified dataset", slog.String("error", err.Error()))
		return
	}
	logger.Info("Unified clean dataset written",
		slog.String("file", filepath.Base(paths.CleanPricesCSV)),
		slog.Int("rows", unified.Len()),
		slog.Int("tickers", len(cleaned)))
}

// cleanFilingTexts normalizes every raw filing into the reports_text
// directory.
func cleanFilingTexts(paths *config.Paths, logger *slog.Logger) {
	cleaner := textclean.NewCleaner(logger)
	if _, err := cleaner.CleanAll(paths.FilingsDir, paths.ReportsTextDir); err != nil {
		logger.Error("Failed to clean filing texts", slog.String("error", err.Error()))
	}
}
