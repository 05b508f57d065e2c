package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Document kinds stored per portfolio.
const (
	kindAccounts = "accounts"
	kindConfig   = "config"
	kindHistory  = "history"
)

// DocumentKey is the backend key of one portfolio document.
func DocumentKey(portfolio, kind string) string {
	return portfolio + "/" + kind
}

// accountsDocument is the stored and imported accounts shape.
type accountsDocument struct {
	Accounts []models.Account `json:"accounts"`
}

// DecodeAccounts parses {"accounts":[...]}.
func DecodeAccounts(data []byte) ([]models.Account, error) {
	var doc accountsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Accounts == nil {
		doc.Accounts = []models.Account{}
	}
	return doc.Accounts, nil
}

// --- Accounts ---

type accountStore struct {
	docs   interfaces.DocumentStore
	key    string
	logger *common.Logger
}

func (s *accountStore) GetAccounts(ctx context.Context) ([]models.Account, error) {
	data, err := s.docs.Get(ctx, s.key)
	if errors.Is(err, models.ErrNotFound) {
		return []models.Account{}, nil
	}
	if err != nil {
		return nil, &models.RepositoryError{Err: err}
	}
	accounts, err := DecodeAccounts(data)
	if err != nil {
		return nil, &models.RepositoryError{Err: fmt.Errorf("failed to parse accounts: %w", err)}
	}
	return accounts, nil
}

func (s *accountStore) SaveAccounts(ctx context.Context, accounts []models.Account) error {
	if accounts == nil {
		accounts = []models.Account{}
	}
	data, err := json.MarshalIndent(accountsDocument{Accounts: accounts}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal accounts: %w", err)
	}
	if err := s.docs.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to save accounts: %w", err)
	}
	s.logger.Debug().Int("accounts", len(accounts)).Msg("Accounts saved")
	return nil
}

// --- History ---

type historyStore struct {
	docs interfaces.DocumentStore
	key  string
}

func (s *historyStore) Load(ctx context.Context) (models.PortfolioHistory, error) {
	data, err := s.docs.Get(ctx, s.key)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	var history models.PortfolioHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, &models.PersistenceError{Op: "decode history", Err: err}
	}
	return history, nil
}

func (s *historyStore) Save(ctx context.Context, history models.PortfolioHistory) error {
	if history == nil {
		history = models.PortfolioHistory{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	return s.docs.Put(ctx, s.key, data)
}

// --- Config ---

type configStore struct {
	docs interfaces.DocumentStore
	key  string
}

func (s *configStore) Load(ctx context.Context) (*models.PortfolioConfig, error) {
	data, err := s.docs.Get(ctx, s.key)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg models.PortfolioConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &models.PersistenceError{Op: "decode config", Err: err}
	}
	return &cfg, nil
}

func (s *configStore) Save(ctx context.Context, cfg *models.PortfolioConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return s.docs.Put(ctx, s.key, data)
}
