package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/tally-dev/tally/internal/insights"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/store"
)

const (
	// FileName is the config file inside the data directory.
	FileName = "tally.yaml"
	// EnvFile is loaded from the data directory before the config.
	EnvFile = ".env"

	EnvDir     = "TALLY_DIR"
	EnvBackend = "TALLY_BACKEND"
)

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Insights InsightsConfig `yaml:"insights"`
	Git      GitConfig      `yaml:"git"`
	Currency string         `yaml:"currency"`
}

// StorageConfig selects where the document lives.
type StorageConfig struct {
	Backend string `yaml:"backend"`        // json, sqlite or memory
	Path    string `yaml:"path,omitempty"` // relative to the data directory
}

// InsightsConfig tunes the dashboard forecast and alerts.
type InsightsConfig struct {
	Window              int     `yaml:"window"`
	MinRegressionMonths int     `yaml:"min_regression_months"`
	TrendThreshold      float64 `yaml:"trend_threshold"`
	WarningRatio        float64 `yaml:"warning_ratio"`
	OverrunRatio        float64 `yaml:"overrun_ratio"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a tally.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default() *Config {
	opts := insights.DefaultOptions()
	return &Config{
		Storage: StorageConfig{Backend: string(store.BackendJSON)},
		Insights: InsightsConfig{
			Window:              opts.Window,
			MinRegressionMonths: opts.MinRegressionMonths,
			TrendThreshold:      opts.TrendThreshold.Decimal.InexactFloat64(),
			WarningRatio:        opts.WarningRatio.InexactFloat64(),
			OverrunRatio:        opts.OverrunRatio.InexactFloat64(),
		},
		Git: GitConfig{
			AuthorName:  "tally",
			AuthorEmail: "tally@localhost",
		},
		Currency: model.DefaultCurrency,
	}
}

// Validate checks values a hand-edited file might get wrong.
func (c *Config) Validate() error {
	if _, err := store.ParseBackend(c.Storage.Backend); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	if c.Insights.Window < 0 || c.Insights.MinRegressionMonths < 0 {
		return fmt.Errorf("validating config: insights window and min_regression_months must not be negative")
	}
	if c.Insights.TrendThreshold < 0 {
		return fmt.Errorf("validating config: insights trend_threshold must not be negative")
	}
	if c.Insights.WarningRatio <= 0 || c.Insights.OverrunRatio <= 0 {
		return fmt.Errorf("validating config: insights warning_ratio and overrun_ratio must be positive")
	}
	return nil
}

// LoadDir loads the config of a data directory. The directory's .env file
// is applied first; a missing tally.yaml yields Default. TALLY_BACKEND
// overrides the configured backend.
func LoadDir(dir string) (*Config, error) {
	if err := LoadEnv(dir); err != nil {
		return nil, err
	}

	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}

	if backend := strings.TrimSpace(os.Getenv(EnvBackend)); backend != "" {
		if _, err := store.ParseBackend(backend); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvBackend, err)
		}
		cfg.Storage.Backend = backend
	}
	return cfg, nil
}

// LoadEnv applies dir/.env without overriding variables already set.
func LoadEnv(dir string) error {
	err := godotenv.Load(filepath.Join(dir, EnvFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", EnvFile, err)
	}
	return nil
}

// ResolveDir picks the data directory: the flag value, then TALLY_DIR,
// then the working directory.
func ResolveDir(flag string) string {
	if flag != "" {
		return flag
	}
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir
	}
	return "."
}

// Backend returns the parsed storage backend.
func (c *Config) Backend() store.Backend {
	b, err := store.ParseBackend(c.Storage.Backend)
	if err != nil {
		return store.BackendJSON
	}
	return b
}

// StoragePath returns the document location for dir.
func (c *Config) StoragePath(dir string) string {
	path := c.Storage.Path
	if path == "" {
		path = "tally.json"
		if c.Backend() == store.BackendSQLite {
			path = "tally.db"
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// OpenStore opens the configured store for dir.
func (c *Config) OpenStore(dir string) (store.Store, error) {
	return store.Open(c.Backend(), c.StoragePath(dir))
}

// InsightsOptions converts the insights section to engine options. Zero
// values fall back to the engine defaults.
func (c *Config) InsightsOptions() insights.Options {
	return insights.Options{
		Window:              c.Insights.Window,
		MinRegressionMonths: c.Insights.MinRegressionMonths,
		TrendThreshold:      decimal.NewNullDecimal(decimal.NewFromFloat(c.Insights.TrendThreshold)),
		WarningRatio:        decimal.NewFromFloat(c.Insights.WarningRatio),
		OverrunRatio:        decimal.NewFromFloat(c.Insights.OverrunRatio),
	}
}
