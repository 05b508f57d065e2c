package storage

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/storage/badger"
	"github.com/bobmcallan/folio/internal/storage/surrealdb"
)

// Backend type constants.
const (
	BackendFile      = "file"
	BackendBadger    = "badger"
	BackendSurrealDB = "surrealdb"
)

// NewStorageManager opens the configured backend for config.Portfolio.
// Supported backends: "file" (default), "badger", "surrealdb".
func NewStorageManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	backend := strings.ToLower(config.Storage.Backend)
	if backend == "" {
		backend = BackendFile
	}

	var (
		docs interfaces.DocumentStore
		err  error
	)
	switch backend {
	case BackendFile:
		docs, err = NewFileStore(logger, &config.Storage.File)
	case BackendBadger:
		docs, err = badger.NewStore(logger, config.Storage.Badger.Path)
	case BackendSurrealDB:
		docs, err = surrealdb.NewStore(logger, &config.Storage.SurrealDB)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: file, badger, surrealdb)", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", backend, err)
	}

	logger.Info().Str("backend", backend).Str("portfolio", config.Portfolio).Msg("Storage manager initialized")
	return NewManager(docs, backend, config.Portfolio, logger), nil
}
