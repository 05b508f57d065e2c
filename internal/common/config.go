// Package common provides shared utilities for Folio
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Folio
type Config struct {
	Environment  string          `toml:"environment"`
	Portfolio    string          `toml:"portfolio"`     // Name of the tracked portfolio, keys all stored records
	AccountsFile string          `toml:"accounts_file"` // Optional JSON seed imported when the repository is empty
	Server       ServerConfig    `toml:"server"`
	Storage      StorageConfig   `toml:"storage"`
	Clients      ClientsConfig   `toml:"clients"`
	Dashboard    DashboardConfig `toml:"dashboard"`
	Logging      LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig selects a backend and holds the settings for each.
type StorageConfig struct {
	Backend   string          `toml:"backend"` // "file" (default), "badger", "surrealdb"
	File      FileConfig      `toml:"file"`
	Badger    AreaConfig      `toml:"badger"`
	SurrealDB SurrealDBConfig `toml:"surrealdb"`
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// FileConfig holds the JSON file backend settings.
type FileConfig struct {
	Path     string `toml:"path"`
	Versions int    `toml:"versions"`
}

// SurrealDBConfig holds SurrealDB connection settings.
type SurrealDBConfig struct {
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	EODHD EODHDConfig `toml:"eodhd"`
	Rates RatesConfig `toml:"rates"`
}

// EODHDConfig holds EODHD API configuration
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EODHDConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// RatesConfig selects the exchange rate provider.
type RatesConfig struct {
	Provider string             `toml:"provider"`  // "eodhd" (default) or "static"
	CacheTTL string             `toml:"cache_ttl"` // "0" disables caching
	Fixed    map[string]float64 `toml:"fixed"`     // currency -> rate to base, used by the static provider
}

// GetCacheTTL parses the cache TTL. Zero disables the cache.
func (c *RatesConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "0" {
		return 0
	}
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

// DashboardConfig holds recompute settings.
type DashboardConfig struct {
	BaseCurrency     string `toml:"base_currency"`
	RefreshDebounce  string `toml:"refresh_debounce"`
	SnapshotInterval string `toml:"snapshot_interval"`
}

// GetRefreshDebounce returns the quiet window applied to change notifications.
func (c *DashboardConfig) GetRefreshDebounce() time.Duration {
	d, err := time.ParseDuration(c.RefreshDebounce)
	if err != nil || d < 0 {
		return time.Second
	}
	return d
}

// GetSnapshotInterval returns the scheduler interval. Zero disables the scheduler.
func (c *DashboardConfig) GetSnapshotInterval() time.Duration {
	if c.SnapshotInterval == "0" {
		return 0
	}
	d, err := time.ParseDuration(c.SnapshotInterval)
	if err != nil {
		return time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Format   string   `toml:"format"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Portfolio:   "default",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Backend: "file",
			File:    FileConfig{Path: "data/folio", Versions: 3},
			Badger:  AreaConfig{Path: "data/badger"},
			SurrealDB: SurrealDBConfig{
				Address:   "ws://localhost:8000/rpc",
				Username:  "root",
				Password:  "root",
				Namespace: "folio",
				Database:  "folio",
			},
		},
		Clients: ClientsConfig{
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
			Rates: RatesConfig{
				Provider: "eodhd",
				CacheTTL: "15m",
			},
		},
		Dashboard: DashboardConfig{
			BaseCurrency:     "USD",
			RefreshDebounce:  "1s",
			SnapshotInterval: "1h",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			Outputs:  []string{"console"},
			FilePath: "./logs/folio.log",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	validateBaseCurrency(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("FOLIO_DATA_PATH"); path != "" {
		config.Storage.File.Path = filepath.Join(path, "folio")
		config.Storage.Badger.Path = filepath.Join(path, "badger")
	}

	if backend := os.Getenv("FOLIO_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = strings.ToLower(backend)
	}

	if addr := os.Getenv("FOLIO_SURREALDB_ADDRESS"); addr != "" {
		config.Storage.SurrealDB.Address = addr
	}

	if bc := os.Getenv("FOLIO_BASE_CURRENCY"); bc != "" {
		config.Dashboard.BaseCurrency = strings.ToUpper(bc)
	}

	if p := os.Getenv("FOLIO_PORTFOLIO"); p != "" {
		config.Portfolio = p
	}

	for _, name := range []string{"EODHD_API_KEY", "FOLIO_EODHD_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			config.Clients.EODHD.APIKey = v
			break
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// IsValidCurrency reports whether code is a known ISO-4217 currency.
func IsValidCurrency(code string) bool {
	return code != "" && money.GetCurrency(strings.ToUpper(code)) != nil
}

// validateBaseCurrency uppercases the base currency and falls back to USD for unknown codes.
func validateBaseCurrency(config *Config) {
	bc := strings.ToUpper(strings.TrimSpace(config.Dashboard.BaseCurrency))
	if !IsValidCurrency(bc) {
		bc = "USD"
	}
	config.Dashboard.BaseCurrency = bc
}
