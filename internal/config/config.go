package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete pipeline configuration.
// Values come from three layers: struct defaults, an optional sipaf.yml next to
// the executable, and SIPAF_* environment variables (highest precedence).
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/sipaf.log"`
}

// PipelineConfig contains the acquisition and analysis settings. The stage
// binaries take no mandatory flags; this is where their behavior is fixed.
type PipelineConfig struct {
	Tickers          []string `yaml:"tickers" envconfig:"TICKERS" default:"[\"AAPL\",\"MSFT\",\"GOOGL\"]" validate:"min=1,dive,required"`
	StartDate        string   `yaml:"start_date" envconfig:"START_DATE" default:"2018-01-01" validate:"datetime=2006-01-02"`
	EndDate          string   `yaml:"end_date" envconfig:"END_DATE" default:"2025-01-01" validate:"datetime=2006-01-02"`
	FilingsPerTicker int      `yaml:"filings_per_ticker" envconfig:"FILINGS_PER_TICKER" default:"3" validate:"gte=0"`
	// SEC EDGAR rejects requests without an identifying User-Agent contact.
	SECContactEmail string `yaml:"sec_contact_email" envconfig:"SEC_CONTACT_EMAIL" default:"sipaf.research@example.com" validate:"email"`
}

// PathsConfig contains file system path overrides
type PathsConfig struct {
	BaseDir string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR"`
}

// StartTime parses the configured start date.
func (p PipelineConfig) StartTime() time.Time {
	t, _ := time.Parse("2006-01-02", p.StartDate)
	return t
}

// EndTime parses the configured end date.
func (p PipelineConfig) EndTime() time.Time {
	t, _ := time.Parse("2006-01-02", p.EndDate)
	return t
}

// Load loads configuration from defaults, config file and environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	// Overlay from config file if present
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment variables take precedence over the file
	if err := envconfig.Process("SIPAF", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile overlays configuration from a YAML file
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate checks configuration values
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	start, err := time.Parse("2006-01-02", c.Pipeline.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", c.Pipeline.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end_date: %w", err)
	}
	if !start.Before(end) {
		return fmt.Errorf("start_date %s must be before end_date %s", c.Pipeline.StartDate, c.Pipeline.EndDate)
	}
	return nil
}

// getConfigFilePath returns the path to the configuration file
func getConfigFilePath() string {
	if path := os.Getenv("SIPAF_CONFIG_FILE"); path != "" {
		return path
	}
	return "sipaf.yml"
}
