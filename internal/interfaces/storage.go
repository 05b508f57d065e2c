// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// StorageManager coordinates the stores of one backend. Every store it
// returns is scoped to a single portfolio name.
type StorageManager interface {
	AccountRepository() AccountRepository
	HistoryStore() HistoryStore
	ConfigStore() ConfigStore

	// Backend names the storage implementation ("file", "badger", "surrealdb").
	Backend() string

	Close() error
}

// AccountRepository provides the current accounts and holdings.
type AccountRepository interface {
	// GetAccounts returns all accounts in order. Failures are *models.RepositoryError.
	GetAccounts(ctx context.Context) ([]models.Account, error)

	// SaveAccounts replaces the stored accounts.
	SaveAccounts(ctx context.Context, accounts []models.Account) error
}

// HistoryStore persists the daily snapshot series.
type HistoryStore interface {
	// Load returns the stored history, or nil when none exists.
	// Unreadable or malformed data is reported as *models.PersistenceError.
	Load(ctx context.Context) (models.PortfolioHistory, error)

	// Save replaces the stored history.
	Save(ctx context.Context, history models.PortfolioHistory) error
}

// ConfigStore persists portfolio settings.
type ConfigStore interface {
	// Load returns the stored config, or nil when none exists.
	Load(ctx context.Context) (*models.PortfolioConfig, error)

	Save(ctx context.Context, config *models.PortfolioConfig) error
}

// DocumentStore is the raw keyed document layer a backend provides. The typed
// stores above are built on it.
type DocumentStore interface {
	// Get returns the document for key, or models.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the document for key.
	Put(ctx context.Context, key string, data []byte) error

	Close() error
}
