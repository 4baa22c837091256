package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for ALL file paths in the pipeline.
type Paths struct {
	BaseDir        string
	DataDir        string
	FilingsDir     string // raw sec-edgar downloads
	ReportsTextDir string // cleaned one-line filing texts
	LogsDir        string

	// Well-known artifacts
	CleanPricesCSV string // unified standardized price dataset
	IndicatorsCSV  string // price dataset augmented with indicators
	FeaturesCSV    string // per-filing NLP feature table
	WorkbookXLSX   string // exploratory workbook
	DatabaseFile   string // local SQLite store
}

// GetPaths returns the pipeline paths relative to the executable location.
// All paths are relative to the executable directory, never the current working
// directory, so the stages behave the same wherever they are launched from.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	base := filepath.Dir(exe)
	if override := os.Getenv("SIPAF_PATHS_BASE_DIR"); override != "" {
		base = override
	}

	return NewPaths(base), nil
}

// NewPaths builds the path set under an explicit base directory.
// Directory structure:
//
//	base/
//	  ├── sipaf.yml            (optional config)
//	  ├── data/
//	  │   ├── <TICKER>_prices.csv
//	  │   ├── precios_limpios.csv
//	  │   ├── precios_indicadores.csv
//	  │   ├── features_textuales.csv
//	  │   ├── analisis_exploratorio.xlsx
//	  │   ├── sipaf.db
//	  │   ├── sec_filings/     (raw EDGAR tree)
//	  │   └── reports_text/    (cleaned filing texts)
//	  └── logs/
func NewPaths(base string) *Paths {
	p := &Paths{
		BaseDir: base,
		LogsDir: filepath.Join(base, "logs"),
	}
	p.SetDataDir(filepath.Join(base, "data"))
	return p
}

// SetDataDir relocates the data tree, re-deriving every path rooted under it.
func (p *Paths) SetDataDir(dataDir string) {
	p.DataDir = dataDir
	p.FilingsDir = filepath.Join(dataDir, "sec_filings")
	p.ReportsTextDir = filepath.Join(dataDir, "reports_text")

	p.CleanPricesCSV = filepath.Join(dataDir, "precios_limpios.csv")
	p.IndicatorsCSV = filepath.Join(dataDir, "precios_indicadores.csv")
	p.FeaturesCSV = filepath.Join(dataDir, "features_textuales.csv")
	p.WorkbookXLSX = filepath.Join(dataDir, "analisis_exploratorio.xlsx")
	p.DatabaseFile = filepath.Join(dataDir, "sipaf.db")
}

// ResolvePaths builds the path set from the loaded configuration. An explicit
// paths.base_dir (YAML or SIPAF_PATHS_BASE_DIR) replaces the executable
// directory as the base; paths.data_dir then relocates the data tree on its
// own. A nil config falls back to GetPaths.
func ResolvePaths(cfg *Config) (*Paths, error) {
	var p *Paths
	if cfg != nil && cfg.Paths.BaseDir != "" {
		p = NewPaths(cfg.Paths.BaseDir)
	} else {
		var err error
		if p, err = GetPaths(); err != nil {
			return nil, err
		}
	}
	if cfg != nil && cfg.Paths.DataDir != "" {
		p.SetDataDir(cfg.Paths.DataDir)
	}
	return p, nil
}

// ResolveLogFile anchors a relative log file path at the base directory, so
// logging never depends on the current working directory.
func (p *Paths) ResolveLogFile(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.BaseDir, path)
}

// EnsureDirectories creates all required directories
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.FilingsDir, p.ReportsTextDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// PriceCSV returns the per-ticker raw/standardized price file path.
func (p *Paths) PriceCSV(ticker string) string {
	return filepath.Join(p.DataDir, ticker+"_prices.csv")
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}
