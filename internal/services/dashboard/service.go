package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// DefaultDebounce is the quiet window applied to change notifications.
const DefaultDebounce = time.Second

// ErrClosed is returned by Recompute once the service is closed.
var ErrClosed = errors.New("dashboard service closed")

// Service implements DashboardService. Recomputes are serialized and each one
// publishes a complete snapshot or nothing.
type Service struct {
	portfolio    string
	baseCurrency string
	accounts     interfaces.AccountRepository
	configs      interfaces.ConfigStore
	rates        interfaces.ExchangeRateProvider
	history      *HistoryManager
	logger       *common.Logger
	now          func() time.Time
	debounce     time.Duration
	debouncer    *Debouncer

	ctx    context.Context
	cancel context.CancelFunc

	runMu sync.Mutex

	mu        sync.RWMutex
	current   *models.Dashboard
	config    *models.PortfolioConfig
	loaded    bool
	degraded  bool
	observers []func(*models.Dashboard)

	// timeFrame holds a selection made while the stored config was unreadable.
	timeFrame models.TimeFrame

	configSeq      uint64
	configSaveMu   sync.Mutex
	configSavedSeq uint64
	configSaves    sync.WaitGroup
}

var _ interfaces.DashboardService = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDebounce sets the change notification quiet window.
func WithDebounce(d time.Duration) Option {
	return func(s *Service) { s.debounce = d }
}

// WithPortfolioName labels published dashboards.
func WithPortfolioName(name string) Option {
	return func(s *Service) { s.portfolio = name }
}

// NewService creates a dashboard service over storage and rates.
// baseCurrency is used until a stored PortfolioConfig overrides it.
func NewService(storage interfaces.StorageManager, rates interfaces.ExchangeRateProvider, baseCurrency string, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		portfolio:    "default",
		baseCurrency: baseCurrency,
		accounts:     storage.AccountRepository(),
		configs:      storage.ConfigStore(),
		rates:        rates,
		history:      NewHistoryManager(storage.HistoryStore(), logger),
		logger:       logger,
		now:          time.Now,
		debounce:     DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.debouncer = NewDebouncer(s.debounce, s.debouncedRecompute)
	return s
}

// Recompute runs aggregate, allocate, rebalance, goals and history as one unit
// and publishes the result to observers.
//
// A *models.RepositoryError marks the service loaded but degraded. A rate
// failure leaves the previous snapshot in place.
func (s *Service) Recompute(ctx context.Context) (*models.Dashboard, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.ctx.Err() != nil {
		return nil, ErrClosed
	}

	runID := uuid.New().String()
	start := s.now()
	cfg, _ := s.loadConfig(ctx)

	accounts, err := s.accounts.GetAccounts(ctx)
	if err != nil {
		var re *models.RepositoryError
		if !errors.As(err, &re) {
			re = &models.RepositoryError{Err: err}
		}
		s.logger.Warn().Err(re).Str("run_id", runID).Msg("Accounts unavailable, dashboard degraded")
		s.mu.Lock()
		s.loaded = true
		s.degraded = true
		s.mu.Unlock()
		return nil, re
	}

	rates, err := s.rates.GetRates(ctx, cfg.BaseCurrency, Currencies(accounts))
	if err != nil {
		s.logRateFailure(err, runID)
		return nil, err
	}

	totals, err := Aggregate(accounts, rates)
	if err != nil {
		s.logRateFailure(err, runID)
		return nil, err
	}

	d := s.build(runID, start, cfg, totals)

	if err := s.history.Load(ctx); err != nil {
		s.logger.Warn().Err(err).Str("run_id", runID).Msg("History load failed")
	}
	if s.history.Loaded() && hasHoldings(accounts) {
		s.history.RecordDailySnapshot(ctx, totals.TotalValue, totals.ByAssetType, start)
	}
	d.History = Project(s.history.History(), cfg.TimeFrame, nil, start)

	s.publish(d, true)

	s.logger.Info().
		Str("run_id", runID).
		Str("portfolio", s.portfolio).
		Int("accounts", len(accounts)).
		Float64("total", d.TotalValue).
		Str("currency", d.BaseCurrency).
		Dur("elapsed", s.now().Sub(start)).
		Msg("Dashboard recomputed")

	return d, nil
}

func (s *Service) build(runID string, at time.Time, cfg *models.PortfolioConfig, totals *models.AllocationTotals) *models.Dashboard {
	monthly := MonthlySpendLimit(cfg.WithdrawalRate, totals.TotalValue)
	return &models.Dashboard{
		RunID:                 runID,
		ComputedAt:            at,
		Portfolio:             s.portfolio,
		BaseCurrency:          cfg.BaseCurrency,
		TotalValue:            round2(totals.TotalValue),
		AssetAllocation:       Allocations(totals.ByAssetType, totals.TotalValue),
		CurrencyAllocation:    Allocations(totals.ByCurrency, totals.TotalValue),
		AssetCurrencies:       Breakdowns(totals, totals.AssetCurrencies),
		AssetRegions:          Breakdowns(totals, totals.AssetRegions),
		AssetHoldings:         Breakdowns(totals, totals.AssetHoldings),
		RebalancingConfigured: len(cfg.TargetAllocations) > 0,
		RebalanceSteps:        RebalanceSteps(totals.ByAssetType, totals.TotalValue, cfg),
		Goals:                 GoalProgressOf(cfg.Goals, totals.TotalValue),
		WithdrawalRate:        cfg.WithdrawalRate,
		MonthlySpendLimit:     monthly,
		MonthlySpendFormatted: FormatAmount(monthly, cfg.BaseCurrency),
	}
}

func (s *Service) logRateFailure(err error, runID string) {
	event := s.logger.Warn().Err(err).Str("run_id", runID)
	var mre *models.MissingRateError
	if errors.As(err, &mre) {
		event = event.Str("currency", mre.Currency)
	}
	event.Msg("Exchange rates unavailable, keeping previous dashboard")
}

// publish swaps in d and notifies observers. A full recompute also clears the degraded flag.
func (s *Service) publish(d *models.Dashboard, recomputed bool) {
	s.mu.Lock()
	s.current = d
	s.loaded = true
	if recomputed {
		s.degraded = false
	}
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(d)
	}
}

// Dashboard returns the last published snapshot and whether a load has completed.
func (s *Service) Dashboard() (*models.Dashboard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.loaded
}

// Degraded reports whether the last load failed to read accounts.
func (s *Service) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// Subscribe registers fn to receive every published snapshot.
func (s *Service) Subscribe(fn func(*models.Dashboard)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Notify schedules a debounced recompute when event changes holdings data.
// Returns whether a recompute was scheduled.
func (s *Service) Notify(event models.ChangeEvent) bool {
	if !event.TriggersRecompute() {
		s.logger.Debug().Str("event", string(event)).Msg("Ignoring change event")
		return false
	}
	return s.debouncer.Trigger()
}

func (s *Service) debouncedRecompute() {
	if s.ctx.Err() != nil {
		return
	}
	if _, err := s.Recompute(s.ctx); err != nil {
		s.logger.Debug().Err(err).Msg("Debounced recompute did not publish")
	}
}

// History projects the stored series into tf.
func (s *Service) History(ctx context.Context, tf models.TimeFrame) (*models.HistorySeries, error) {
	if err := s.history.Load(ctx); err != nil && !s.history.Loaded() {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return Project(s.history.History(), tf, nil, s.now()), nil
}

// AddHistoryEntry stores a manual entry and returns the series for the configured time frame.
func (s *Service) AddHistoryEntry(ctx context.Context, entry models.HistoryEntry) (*models.HistorySeries, error) {
	if entry.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", models.ErrInvalidHistoryEntry)
	}
	if entry.TotalValue < 0 {
		return nil, fmt.Errorf("%w: value must not be negative", models.ErrInvalidHistoryEntry)
	}
	if err := s.history.Load(ctx); err != nil && !s.history.Loaded() {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	s.history.InsertManualEntry(ctx, entry)

	cfg, _ := s.loadConfig(ctx)
	series := Project(s.history.History(), cfg.TimeFrame, nil, s.now())
	s.republishHistory(series)
	return series, nil
}

// SetTimeFrame stores the display window and returns the re-projected series.
// While the stored config cannot be read the window is only kept in memory,
// and it is saved with the stored config once a load succeeds.
func (s *Service) SetTimeFrame(ctx context.Context, tf models.TimeFrame) (*models.HistorySeries, error) {
	parsed, err := models.ParseTimeFrame(string(tf))
	if err != nil {
		return nil, err
	}

	cfg, stored := s.loadConfig(ctx)
	if stored {
		cfg.TimeFrame = parsed
		s.storeConfig(ctx, cfg)
	} else {
		s.mu.Lock()
		s.timeFrame = parsed
		s.mu.Unlock()
		s.logger.Warn().Str("time_frame", string(parsed)).Msg("Config unavailable, time frame not saved")
	}

	series, err := s.History(ctx, parsed)
	if err != nil {
		return nil, err
	}
	s.republishHistory(series)
	return series, nil
}

// republishHistory publishes a copy of the current dashboard with a new series.
func (s *Service) republishHistory(series *models.HistorySeries) {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()
	if current == nil {
		return
	}
	next := *current
	next.History = series
	s.publish(&next, false)
}

// Config returns the portfolio config, falling back to defaults.
func (s *Service) Config(ctx context.Context) (*models.PortfolioConfig, error) {
	cfg, _ := s.loadConfig(ctx)
	return cfg, nil
}

// SaveConfig validates and stores cfg, then schedules a recompute.
func (s *Service) SaveConfig(ctx context.Context, cfg *models.PortfolioConfig) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	next := *cfg
	if next.BaseCurrency == "" {
		next.BaseCurrency = s.baseCurrency
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	s.storeConfig(ctx, &next)
	s.debouncer.Trigger()
	return nil
}

// loadConfig returns a copy of the cached config, reading the store on first use.
// stored is false when the store failed or held an invalid config; the
// returned defaults must then not be saved over it.
func (s *Service) loadConfig(ctx context.Context) (cfg *models.PortfolioConfig, stored bool) {
	s.mu.RLock()
	cached := s.config
	s.mu.RUnlock()
	if cached != nil {
		return cloneConfig(cached), true
	}

	cfg, err := s.configs.Load(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Config load failed, using defaults")
		return s.fallbackConfig(), false
	}
	if cfg == nil {
		cfg = models.NewPortfolioConfig(s.baseCurrency)
	} else if cfg.BaseCurrency == "" {
		cfg.BaseCurrency = s.baseCurrency
	}
	if err := cfg.Validate(); err != nil {
		s.logger.Warn().Err(&models.PersistenceError{Op: "load config", Err: err}).Msg("Stored config invalid, using defaults")
		return s.fallbackConfig(), false
	}

	var pending models.TimeFrame
	s.mu.Lock()
	if s.config == nil {
		if s.timeFrame != "" {
			cfg.TimeFrame = s.timeFrame
			pending = s.timeFrame
		}
		s.config = cfg
	}
	cached = s.config
	s.mu.Unlock()

	if pending != "" {
		s.storeConfig(ctx, cached)
	}
	return cloneConfig(cached), true
}

// fallbackConfig is the default config with any unsaved time frame applied.
func (s *Service) fallbackConfig() *models.PortfolioConfig {
	cfg := models.NewPortfolioConfig(s.baseCurrency)
	s.mu.RLock()
	if s.timeFrame != "" {
		cfg.TimeFrame = s.timeFrame
	}
	s.mu.RUnlock()
	return cfg
}

// storeConfig caches cfg and saves it in the background.
func (s *Service) storeConfig(ctx context.Context, cfg *models.PortfolioConfig) {
	s.mu.Lock()
	s.config = cloneConfig(cfg)
	s.timeFrame = ""
	s.configSeq++
	seq := s.configSeq
	s.mu.Unlock()

	snapshot := cloneConfig(cfg)
	ctx = context.WithoutCancel(ctx)
	s.configSaves.Add(1)
	go func() {
		defer s.configSaves.Done()

		s.configSaveMu.Lock()
		defer s.configSaveMu.Unlock()
		if seq <= s.configSavedSeq {
			return
		}
		if err := s.configs.Save(ctx, snapshot); err != nil {
			s.logger.Error().Err(&models.PersistenceError{Op: "save config", Err: err}).Msg("Config save failed")
			return
		}
		s.configSavedSeq = seq
	}()
}

// Close stops pending recomputes and waits for outstanding saves.
func (s *Service) Close() {
	s.debouncer.Stop()
	s.cancel()

	// Let an in-flight recompute finish queuing its saves.
	s.runMu.Lock()
	s.runMu.Unlock()

	s.history.Flush()
	s.configSaves.Wait()
}

func cloneConfig(c *models.PortfolioConfig) *models.PortfolioConfig {
	out := *c
	out.Goals = append([]models.Goal(nil), c.Goals...)
	out.TargetAllocations = append([]models.TargetAllocation(nil), c.TargetAllocations...)
	return &out
}

func hasHoldings(accounts []models.Account) bool {
	for _, acc := range accounts {
		if len(acc.Holdings) > 0 {
			return true
		}
	}
	return false
}
