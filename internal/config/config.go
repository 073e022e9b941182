// Package config loads tracker configuration from a TOML file with
// environment variable overrides. Every setting has a usable default;
// a missing config file is not an error.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
)

// envPrefix namespaces the environment overrides.
const envPrefix = "PRICEWATCH_"

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all tracker settings.
type Config struct {
	// DataDir is where the sqlite database lives.
	DataDir string `toml:"data_dir"`

	// Storage selects the backend: sqlite, postgres or memory.
	Storage string `toml:"storage"`

	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string `toml:"postgres_dsn"`

	// Shops are the storefronts to scrape. Empty means all.
	Shops []string `toml:"shops"`

	// DefaultCurrency backfills observations scraped without one.
	DefaultCurrency string `toml:"default_currency"`

	// FetchTimeoutSeconds bounds a single page download.
	FetchTimeoutSeconds int `toml:"fetch_timeout_seconds"`

	// FetchRetries is the retry count after a retryable failure.
	FetchRetries int `toml:"fetch_retries"`

	// FetchBackoffSeconds is the base of the exponential retry backoff.
	FetchBackoffSeconds int `toml:"fetch_backoff_seconds"`

	// RequestDelaySeconds spaces consecutive page fetches.
	RequestDelaySeconds int `toml:"request_delay_seconds"`

	// IngestIntervalMinutes is the scheduler period.
	IngestIntervalMinutes int `toml:"ingest_interval_minutes"`

	// RunOnStartup triggers an ingest cycle when the watcher starts.
	RunOnStartup bool `toml:"run_on_startup"`

	// Verbose enables debug logging.
	Verbose bool `toml:"verbose"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage:               BackendSQLite,
		DefaultCurrency:       "EUR",
		FetchTimeoutSeconds:   20,
		FetchRetries:          3,
		FetchBackoffSeconds:   1,
		RequestDelaySeconds:   1,
		IngestIntervalMinutes: 60,
		RunOnStartup:          true,
	}
}

// Load reads configuration from path, falling back to defaults when
// the file does not exist, then applies environment overrides. An
// empty path means env-and-defaults only.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays PRICEWATCH_* environment variables.
func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(envPrefix + "DATA_DIR"); ok {
		c.DataDir = v
	}
	if v, ok := os.LookupEnv(envPrefix + "STORAGE"); ok {
		c.Storage = v
	}
	if v, ok := os.LookupEnv(envPrefix + "POSTGRES_DSN"); ok {
		c.PostgresDSN = v
	}
	if v, ok := os.LookupEnv(envPrefix + "SHOPS"); ok {
		c.Shops = splitList(v)
	}
	if v, ok := os.LookupEnv(envPrefix + "DEFAULT_CURRENCY"); ok {
		c.DefaultCurrency = v
	}
	envInt(envPrefix+"FETCH_TIMEOUT_SECONDS", &c.FetchTimeoutSeconds)
	envInt(envPrefix+"FETCH_RETRIES", &c.FetchRetries)
	envInt(envPrefix+"FETCH_BACKOFF_SECONDS", &c.FetchBackoffSeconds)
	envInt(envPrefix+"REQUEST_DELAY_SECONDS", &c.RequestDelaySeconds)
	envInt(envPrefix+"INGEST_INTERVAL_MINUTES", &c.IngestIntervalMinutes)
	envBool(envPrefix+"RUN_ON_STARTUP", &c.RunOnStartup)
	envBool(envPrefix+"VERBOSE", &c.Verbose)
}

// validate rejects settings nothing downstream can work with.
func (c *Config) validate() error {
	switch c.Storage {
	case BackendSQLite, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, c.Storage)
	}
	if c.Storage == BackendPostgres && c.PostgresDSN == "" {
		return fmt.Errorf("%w: postgres backend needs postgres_dsn", domain.ErrInvalidInput)
	}
	if _, err := c.ShopCodes(); err != nil {
		return err
	}
	return nil
}

// ShopCodes resolves the configured shop list. Empty means all
// supported shops.
func (c *Config) ShopCodes() ([]domain.ShopCode, error) {
	if len(c.Shops) == 0 {
		return nil, nil
	}
	codes := make([]domain.ShopCode, 0, len(c.Shops))
	for _, raw := range c.Shops {
		code, err := domain.ParseShopCode(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownShop, raw)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// FetchTimeout returns the page download timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// FetchBackoff returns the retry backoff base.
func (c *Config) FetchBackoff() time.Duration {
	return time.Duration(c.FetchBackoffSeconds) * time.Second
}

// RequestDelay returns the inter-request delay.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelaySeconds) * time.Second
}

// IngestInterval returns the scheduler period.
func (c *Config) IngestInterval() time.Duration {
	return time.Duration(c.IngestIntervalMinutes) * time.Minute
}

// SchedulerConfig maps the config onto the scheduler's settings.
func (c *Config) SchedulerConfig() domain.SchedulerConfig {
	return domain.SchedulerConfig{
		Enabled:      true,
		RunOnStartup: c.RunOnStartup,
		Interval:     c.IngestInterval(),
	}
}

// DefaultPath returns the default config file location,
// ~/.pricewatch/config.toml, or "" when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.pricewatch/config.toml"
}

func envInt(key string, dst *int) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*dst = n
}

func envBool(key string, dst *bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return
	}
	*dst = b
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
