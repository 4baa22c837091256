package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sipafcli/internal/cleaning"
	"sipafcli/internal/config"
	"sipafcli/internal/dataset"
	"sipafcli/internal/exporter"
	"sipafcli/internal/files"
	"sipafcli/internal/indicators"
	"sipafcli/internal/infrastructure"
	"sipafcli/internal/nlp"
)

// maxVocabulary caps the TF-IDF feature width.
const maxVocabulary = 100

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
				FilePath: paths.GetLogPath("analyze.log"),
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

	logger.Info("Starting exploratory analysis",
		slog.String("prices_file", paths.CleanPricesCSV),
		slog.String("reports_text_dir", paths.ReportsTextDir))

	analyzePrices(paths, logger)
	analyzeTexts(paths, logger)

	logger.Info("Exploratory analysis finished")
}

// analyzePrices computes the indicator set over the unified price dataset and
// writes the augmented CSV plus the exploratory workbook.
func analyzePrices(paths *config.Paths, logger *slog.Logger) {
	d, err := dataset.ReadCSV(paths.CleanPricesCSV)
	if err != nil {
		logger.Warn("Unified price dataset not readable, skipping indicators",
			slog.String("file", paths.CleanPricesCSV),
			slog.String("error", err.Error()))
		return
	}
	if d.Len() == 0 {
		logger.Warn("Unified price dataset is empty, skipping indicators")
		return
	}

	// The file round-trips as text; re-establish dates and numbers.
	dateCol := cleaning.NormalizeDates(d)
	numeric := cleaning.CoerceNumeric(d, dateCol)
	if err := indicators.Enrich(d); err != nil {
		logger.Error("Failed to compute indicators", slog.String("error", err.Error()))
		return
	}
	logger.Info("Indicators computed",
		slog.Int("rows", d.Len()),
		slog.Int("numeric_columns", len(numeric)))

	writer := exporter.NewCSVWriter(paths)
	header, records := d.Records()
	if err := writer.WriteSimpleCSV(paths.IndicatorsCSV, header, records); err != nil {
		logger.Error("Failed to write indicator CSV", slog.String("error", err.Error()))
		return
	}

	if err := exporter.WriteWorkbook(paths.WorkbookXLSX, "Exploratorio", header, records); err != nil {
		logger.Error("Failed to write exploratory workbook", slog.String("error", err.Error()))
		return
	}
	logger.Info("Indicator artifacts written",
		slog.String("csv", filepath.Base(paths.IndicatorsCSV)),
		slog.String("workbook", filepath.Base(paths.WorkbookXLSX)))
}

// analyzeTexts builds the per-filing NLP feature table: company identifier,
// sentiment polarity/subjectivity and the batch TF-IDF vector.
func analyzeTexts(paths *config.Paths, logger *slog.Logger) {
	discovery := files.NewDiscovery(paths.ReportsTextDir)
	textFiles, err := discovery.FindTextFiles(paths.ReportsTextDir)
	if err != nil {
		logger.Warn("Reports directory not readable",
			slog.String("dir", paths.ReportsTextDir),
			slog.String("error", err.Error()))
		textFiles = nil
	}

	preprocessor, err := nlp.NewPreprocessor()
	if err != nil {
		logger.Error("Failed to build preprocessor", slog.String("error", err.Error()))
		return
	}
	scorer := nlp.NewSentimentScorer()
	vectorizer := nlp.NewVectorizer(maxVocabulary)

	var companies []string
	var cleanedTexts []string
	var polarities, subjectivities []float64

	for _, file := range textFiles {
		raw, err := os.ReadFile(file.Path)
		if err != nil {
			logger.Error("Failed to read report text, skipping",
				slog.String("file", file.Name),
				slog.String("error", err.Error()))
			continue
		}

		company := strings.SplitN(file.Name, "_", 2)[0]
		cleaned := preprocessor.Clean(string(raw))
		polarity, subjectivity := scorer.Score(cleaned)

		companies = append(companies, company)
		cleanedTexts = append(cleanedTexts, cleaned)
		polarities = append(polarities, polarity)
		subjectivities = append(subjectivities, subjectivity)

		logger.Info("Scored report text",
			slog.String("file", file.Name),
			slog.String("company", company),
			slog.Float64("polarity", polarity),
			slog.Float64("subjectivity", subjectivity))
	}

	terms, rows := vectorizer.FitTransform(cleanedTexts)
	header, records := nlp.BuildFeatureTable(companies, polarities, subjectivities, terms, rows)

	writer := exporter.NewCSVWriter(paths)
	if err := writer.WriteSimpleCSV(paths.FeaturesCSV, header, records); err != nil {
		logger.Error("Failed to write feature table", slog.String("error", err.Error()))
		return
	}
	logger.Info("Feature table written",
		slog.String("file", filepath.Base(paths.FeaturesCSV)),
		slog.Int("rows", len(records)),
		slog.Int("vocabulary", len(terms)))
}
