package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"sipafcli/internal/config"
	"sipafcli/internal/dataset"
	"sipafcli/internal/exporter"
	"sipafcli/internal/fetch"
	"sipafcli/internal/files"
	"sipafcli/internal/infrastructure"
	"sipafcli/internal/store"
)

func main() {
	baseDir := flag.String("base", "", "base directory for data and logs (defaults to the executable directory)")
	skipPrices := flag.Bool("skip-prices", false, "skip the price download")
	skipFilings := flag.Bool("skip-filings", false, "skip the 10-K download")
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
				FilePath: paths.GetLogPath("download.log"),
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

	logger.Info("Starting data acquisition",
		slog.Any("tickers", cfg.Pipeline.Tickers),
		slog.String("start_date", cfg.Pipeline.StartDate),
		slog.String("end_date", cfg.Pipeline.EndDate),
		slog.String("data_dir", paths.DataDir))

	if !*skipPrices {
		downloadPrices(ctx, cfg, paths, logger)
	}
	if !*skipFilings {
		downloadFilings(ctx, cfg, paths, logger)
	}
	persistPrices(ctx, paths, logger)

	logger.Info("Data acquisition finished")
}

// downloadPrices fetches daily history per ticker and writes the raw
// per-ticker CSV files. A failed ticker is logged and skipped; re-running the
// stage overwrites prior output in full.
func downloadPrices(ctx context.Context, cfg *config.Config, paths *config.Paths, logger *slog.Logger) {
	source := fetch.NewYahooClient()
	writer := exporter.NewCSVWriter(paths)

	for _, ticker := range cfg.Pipeline.Tickers {
		d, err := source.FetchDaily(ctx, ticker, cfg.Pipeline.StartTime(), cfg.Pipeline.EndTime())
		if err != nil {
			logger.Error("Failed to download prices, skipping ticker",
				slog.String("ticker", ticker),
				slog.String("error", err.Error()))
			continue
		}

		header, records := d.Records()
		if err := writer.WriteSimpleCSV(paths.PriceCSV(ticker), header, records); err != nil {
			logger.Error("Failed to write price CSV",
				slog.String("ticker", ticker),
				slog.String("error", err.Error()))
			continue
		}
		logger.Info("Downloaded price history",
			slog.String("ticker", ticker),
			slog.Int("rows", d.Len()))
	}
}

// downloadFilings fetches the latest 10-K filings per ticker into the raw
// EDGAR tree.
func downloadFilings(ctx context.Context, cfg *config.Config, paths *config.Paths, logger *slog.Logger) {
	client := fetch.NewEdgarClient(cfg.Pipeline.SECContactEmail)
	downloader := fetch.NewDownloader(client, paths.FilingsDir, logger)

	for _, ticker := range cfg.Pipeline.Tickers {
		written, err := downloader.Download10K(ctx, ticker, cfg.Pipeline.FilingsPerTicker)
		if err != nil {
			logger.Error("Failed to download filings, skipping ticker",
				slog.String("ticker", ticker),
				slog.String("error", err.Error()))
			continue
		}
		logger.Info("Downloaded 10-K filings",
			slog.String("ticker", ticker),
			slog.Int("count", len(written)))
	}
}

// persistPrices loads every per-ticker price CSV into the SQLite store,
// replacing each ticker's table in full.
func persistPrices(ctx context.Context, paths *config.Paths, logger *slog.Logger) {
	discovery := files.NewDiscovery(paths.DataDir)
	priceFiles, err := discovery.FindPriceCSVFiles(paths.DataDir)
	if err != nil {
		logger.Error("Failed to discover price files", slog.String("error", err.Error()))
		return
	}
	if len(priceFiles) == 0 {
		logger.Warn("No price CSV files to persist", slog.String("data_dir", paths.DataDir))
		return
	}

	db, err := store.Open(paths.DatabaseFile)
	if err != nil {
		logger.Error("Failed to open database", slog.String("error", err.Error()))
		return
	}
	defer db.Close()

	for _, file := range priceFiles {
		d, err := dataset.ReadCSV(file.Path)
		if err != nil {
			logger.Error("Failed to read price CSV, skipping",
				slog.String("file", file.Name),
				slog.String("error", err.Error()))
			continue
		}

		table := files.TickerFromPriceFile(file.Name)
		if err := db.ReplaceTable(ctx, table, d); err != nil {
			logger.Error("Failed to persist table, skipping",
				slog.String("table", table),
				slog.String("error", err.Error()))
			continue
		}
		logger.Info("Persisted price table",
			slog.String("table", table),
			slog.Int("rows", d.Len()),
			slog.String("database", paths.DatabaseFile))
	}
}
