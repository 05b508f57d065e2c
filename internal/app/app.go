package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/folio/internal/clients/eodhd"
	"github.com/bobmcallan/folio/internal/clients/ratecache"
	"github.com/bobmcallan/folio/internal/clients/static"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/dashboard"
	"github.com/bobmcallan/folio/internal/storage"
)

// App holds the initialized storage, rate provider, dashboard service and MCP server.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Storage     interfaces.StorageManager
	Rates       interfaces.ExchangeRateProvider
	Dashboard   *dashboard.Service
	MCPServer   *server.MCPServer
	StartupTime time.Time

	schedulerCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp loads configuration and initializes the App.
// configPath may be empty, in which case FOLIO_CONFIG, then folio.toml next to
// the binary, then config/folio.toml are tried.
func NewApp(configPath string) (*App, error) {
	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative paths against the binary directory
	for _, p := range []*string{&config.Storage.File.Path, &config.Storage.Badger.Path, &config.Logging.FilePath, &config.AccountsFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(binDir, *p)
		}
	}

	return NewAppWithConfig(config, common.NewLoggerFromConfig(config.Logging))
}

// NewAppWithConfig wires the App from an already loaded config.
func NewAppWithConfig(config *common.Config, logger *common.Logger) (*App, error) {
	startupStart := time.Now()

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	rates, err := newRateProvider(config, logger)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to initialize rate provider: %w", err)
	}

	ctx := context.Background()
	if config.AccountsFile != "" {
		if n, err := ImportAccountsFromFile(ctx, storageManager.AccountRepository(), logger, config.AccountsFile); err != nil {
			logger.Warn().Err(err).Str("file", config.AccountsFile).Msg("Account import failed")
		} else if n > 0 {
			logger.Info().Int("accounts", n).Str("file", config.AccountsFile).Msg("Accounts imported")
		}
	}

	svc := dashboard.NewService(storageManager, rates, config.Dashboard.BaseCurrency, logger,
		dashboard.WithDebounce(config.Dashboard.GetRefreshDebounce()),
		dashboard.WithPortfolioName(config.Portfolio),
	)

	mcpServer := server.NewMCPServer(
		"folio",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	a := &App{
		Config:      config,
		Logger:      logger,
		Storage:     storageManager,
		Rates:       rates,
		Dashboard:   svc,
		MCPServer:   mcpServer,
		StartupTime: startupStart,
	}

	a.registerTools()

	logger.Info().
		Str("portfolio", config.Portfolio).
		Str("storage", storageManager.Backend()).
		Str("base_currency", config.Dashboard.BaseCurrency).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// newRateProvider selects the configured exchange rate source and wraps it in
// a TTL cache unless caching is disabled.
func newRateProvider(config *common.Config, logger *common.Logger) (interfaces.ExchangeRateProvider, error) {
	rc := config.Clients.Rates

	var provider interfaces.ExchangeRateProvider
	switch rc.Provider {
	case "static":
		provider = static.NewProvider(config.Dashboard.BaseCurrency, rc.Fixed)
		logger.Info().Int("rates", len(rc.Fixed)).Msg("Using fixed exchange rates")
		return provider, nil
	case "", "eodhd":
		ec := config.Clients.EODHD
		if ec.APIKey == "" {
			logger.Warn().Msg("EODHD API key not configured - only base currency holdings can be valued")
		}
		provider = eodhd.NewClient(ec.APIKey,
			eodhd.WithBaseURL(ec.BaseURL),
			eodhd.WithLogger(logger),
			eodhd.WithRateLimit(ec.RateLimit),
			eodhd.WithTimeout(ec.GetTimeout()),
		)
	default:
		return nil, fmt.Errorf("unknown rate provider %q", rc.Provider)
	}

	if ttl := rc.GetCacheTTL(); ttl > 0 {
		provider = ratecache.New(provider, ttl, logger)
	}
	return provider, nil
}

// Start runs the first recompute and launches the snapshot scheduler.
func (a *App) Start(ctx context.Context) {
	if _, err := a.Dashboard.Recompute(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("Initial dashboard recompute failed")
	}
	a.StartSnapshotScheduler()
}

// StartSnapshotScheduler launches the periodic recompute goroutine.
func (a *App) StartSnapshotScheduler() {
	interval := a.Config.Dashboard.GetSnapshotInterval()
	if interval <= 0 {
		a.Logger.Info().Msg("Snapshot scheduler disabled")
		return
	}
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	a.schedulerCancel = schedulerCancel
	go startSnapshotScheduler(schedulerCtx, a.Dashboard, a.Logger, interval)
}

// Notify forwards a change event from the account data source.
func (a *App) Notify(event models.ChangeEvent) bool {
	return a.Dashboard.Notify(event)
}

// Close releases all resources held by the App.
// Shutdown order: cancel scheduler, close dashboard, close storage.
func (a *App) Close() {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
		a.schedulerCancel = nil
	}
	if a.Dashboard != nil {
		a.Dashboard.Close()
		a.Dashboard = nil
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Storage close failed")
		}
		a.Storage = nil
	}
}

// registerTools registers all MCP tools on the App's MCPServer.
func (a *App) registerTools() {
	s := a.MCPServer
	svc := a.Dashboard
	logger := a.Logger

	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createGetDashboardTool(), handleGetDashboard(svc, logger))
	s.AddTool(createGetPortfolioHistoryTool(), handleGetPortfolioHistory(svc, logger))
	s.AddTool(createAddHistoryEntryTool(), handleAddHistoryEntry(svc, logger))
	s.AddTool(createRefreshDashboardTool(), handleRefreshDashboard(svc, logger))
}
