package storage

import (
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
)

// Manager implements interfaces.StorageManager for one portfolio over any
// document backend.
type Manager struct {
	docs    interfaces.DocumentStore
	backend string

	accounts *accountStore
	history  *historyStore
	config   *configStore
}

var _ interfaces.StorageManager = (*Manager)(nil)

// NewManager scopes docs to portfolio. The manager owns docs and closes it.
func NewManager(docs interfaces.DocumentStore, backend, portfolio string, logger *common.Logger) *Manager {
	return &Manager{
		docs:     docs,
		backend:  backend,
		accounts: &accountStore{docs: docs, key: DocumentKey(portfolio, kindAccounts), logger: logger},
		history:  &historyStore{docs: docs, key: DocumentKey(portfolio, kindHistory)},
		config:   &configStore{docs: docs, key: DocumentKey(portfolio, kindConfig)},
	}
}

func (m *Manager) AccountRepository() interfaces.AccountRepository {
	return m.accounts
}

func (m *Manager) HistoryStore() interfaces.HistoryStore {
	return m.history
}

func (m *Manager) ConfigStore() interfaces.ConfigStore {
	return m.config
}

func (m *Manager) Backend() string {
	return m.backend
}

func (m *Manager) Close() error {
	return m.docs.Close()
}
