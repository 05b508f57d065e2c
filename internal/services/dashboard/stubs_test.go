package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// --- collaborator stubs ---

type stubAccounts struct {
	mu       sync.Mutex
	accounts []models.Account
	err      error
	calls    int
}

func (s *stubAccounts) GetAccounts(_ context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.accounts, nil
}

func (s *stubAccounts) SaveAccounts(_ context.Context, accounts []models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = accounts
	return nil
}

func (s *stubAccounts) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubHistoryStore struct {
	mu      sync.Mutex
	stored  models.PortfolioHistory
	loadErr error
	saveErr error
	saves   int
}

func (s *stubHistoryStore) Load(_ context.Context) (models.PortfolioHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.stored.Clone(), nil
}

func (s *stubHistoryStore) Save(_ context.Context, h models.PortfolioHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.stored = h.Clone()
	return nil
}

func (s *stubHistoryStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *stubHistoryStore) snapshot() models.PortfolioHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stored.Clone()
}

type stubConfigStore struct {
	mu     sync.Mutex
	config *models.PortfolioConfig
	err    error
	saves  int
}

func (s *stubConfigStore) Load(_ context.Context) (*models.PortfolioConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.config == nil {
		return nil, nil
	}
	c := *s.config
	return &c, nil
}

func (s *stubConfigStore) Save(_ context.Context, c *models.PortfolioConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	cp := *c
	s.config = &cp
	return nil
}

func (s *stubConfigStore) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *stubConfigStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *stubConfigStore) stored() *models.PortfolioConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

type stubStorageManager struct {
	accounts *stubAccounts
	history  *stubHistoryStore
	config   *stubConfigStore
}

func newStubStorage() *stubStorageManager {
	return &stubStorageManager{
		accounts: &stubAccounts{},
		history:  &stubHistoryStore{},
		config:   &stubConfigStore{},
	}
}

func (m *stubStorageManager) AccountRepository() interfaces.AccountRepository { return m.accounts }
func (m *stubStorageManager) HistoryStore() interfaces.HistoryStore           { return m.history }
func (m *stubStorageManager) ConfigStore() interfaces.ConfigStore             { return m.config }
func (m *stubStorageManager) Backend() string                                 { return "stub" }
func (m *stubStorageManager) Close() error                                    { return nil }

// stubRates resolves from a fixed table and records every request.
type stubRates struct {
	mu       sync.Mutex
	rates    map[string]float64
	err      error
	requests [][]string
}

func (s *stubRates) GetRates(_ context.Context, base string, currencies []string) (models.RateTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, currencies)
	if s.err != nil {
		return models.RateTable{}, s.err
	}
	table := models.NewRateTable(base)
	for _, c := range currencies {
		if c == base {
			continue
		}
		r, ok := s.rates[c]
		if !ok {
			return models.RateTable{}, &models.MissingRateError{Currency: c}
		}
		table.Set(c, r)
	}
	return table, nil
}

var errUnreachable = errors.New("connection refused")

func day(s string) time.Time {
	d, err := models.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
