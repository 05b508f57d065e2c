package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_DefaultPort(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8080)
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("FOLIO_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_EODHDKeyEnvOverride(t *testing.T) {
	t.Setenv("EODHD_API_KEY", "from-env")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Clients.EODHD.APIKey != "from-env" {
		t.Errorf("EODHD.APIKey = %q, want %q", cfg.Clients.EODHD.APIKey, "from-env")
	}
}

func TestConfig_DataPathEnvOverride(t *testing.T) {
	t.Setenv("FOLIO_DATA_PATH", "/tmp/folio-data")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Storage.File.Path != filepath.Join("/tmp/folio-data", "folio") {
		t.Errorf("File.Path = %q", cfg.Storage.File.Path)
	}
	if cfg.Storage.Badger.Path != filepath.Join("/tmp/folio-data", "badger") {
		t.Errorf("Badger.Path = %q", cfg.Storage.Badger.Path)
	}
}

func TestConfig_BaseCurrencyEnvOverride(t *testing.T) {
	t.Setenv("FOLIO_BASE_CURRENCY", "eur")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Dashboard.BaseCurrency != "EUR" {
		t.Errorf("BaseCurrency = %q, want EUR", cfg.Dashboard.BaseCurrency)
	}
}

func TestConfig_InvalidBaseCurrencyFallsBack(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Dashboard.BaseCurrency = "XYZ"
	validateBaseCurrency(cfg)

	if cfg.Dashboard.BaseCurrency != "USD" {
		t.Errorf("BaseCurrency = %q, want USD", cfg.Dashboard.BaseCurrency)
	}
}

func TestConfig_LoadMergesFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.toml")
	second := filepath.Join(dir, "second.toml")

	if err := os.WriteFile(first, []byte("portfolio = \"retirement\"\n[server]\nport = 7000\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("[server]\nport = 7001\n[dashboard]\nbase_currency = \"GBP\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(first, second, filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Portfolio != "retirement" {
		t.Errorf("Portfolio = %q, want retirement", cfg.Portfolio)
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("Server.Port = %d, want 7001", cfg.Server.Port)
	}
	if cfg.Dashboard.BaseCurrency != "GBP" {
		t.Errorf("BaseCurrency = %q, want GBP", cfg.Dashboard.BaseCurrency)
	}
}

func TestConfig_LoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[server\nport = "), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_FixedRatesFromTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.toml")
	content := "[clients.rates]\nprovider = \"static\"\n[clients.rates.fixed]\nEUR = 1.1\nGBP = 1.27\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Clients.Rates.Provider != "static" {
		t.Errorf("Provider = %q, want static", cfg.Clients.Rates.Provider)
	}
	if cfg.Clients.Rates.Fixed["EUR"] != 1.1 {
		t.Errorf("Fixed[EUR] = %v, want 1.1", cfg.Clients.Rates.Fixed["EUR"])
	}
}

func TestDashboardConfig_Durations(t *testing.T) {
	tests := []struct {
		name     string
		cfg      DashboardConfig
		debounce time.Duration
		interval time.Duration
	}{
		{"defaults on empty", DashboardConfig{}, time.Second, time.Hour},
		{"configured", DashboardConfig{RefreshDebounce: "250ms", SnapshotInterval: "30m"}, 250 * time.Millisecond, 30 * time.Minute},
		{"invalid falls back", DashboardConfig{RefreshDebounce: "soon", SnapshotInterval: "later"}, time.Second, time.Hour},
		{"scheduler disabled", DashboardConfig{SnapshotInterval: "0"}, time.Second, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.GetRefreshDebounce(); got != tt.debounce {
				t.Errorf("GetRefreshDebounce() = %v, want %v", got, tt.debounce)
			}
			if got := tt.cfg.GetSnapshotInterval(); got != tt.interval {
				t.Errorf("GetSnapshotInterval() = %v, want %v", got, tt.interval)
			}
		})
	}
}

func TestRatesConfig_GetCacheTTL(t *testing.T) {
	if got := (&RatesConfig{CacheTTL: "0"}).GetCacheTTL(); got != 0 {
		t.Errorf("GetCacheTTL(0) = %v, want 0", got)
	}
	if got := (&RatesConfig{CacheTTL: "5m"}).GetCacheTTL(); got != 5*time.Minute {
		t.Errorf("GetCacheTTL(5m) = %v", got)
	}
	if got := (&RatesConfig{}).GetCacheTTL(); got != 15*time.Minute {
		t.Errorf("GetCacheTTL(empty) = %v, want 15m", got)
	}
}

func TestIsValidCurrency(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"USD", true},
		{"eur", true},
		{"JPY", true},
		{"", false},
		{"ZZZ", false},
	}
	for _, tt := range tests {
		if got := IsValidCurrency(tt.code); got != tt.want {
			t.Errorf("IsValidCurrency(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
