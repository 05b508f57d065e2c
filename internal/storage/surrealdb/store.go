// Package surrealdb provides a SurrealDB-backed document store.
package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

const documentTable = "portfolio_data"

// documentRecord is one row of the portfolio_data table. Data holds the
// document as a JSON string.
type documentRecord struct {
	Key       string    `json:"key"`
	Data      string    `json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store implements interfaces.DocumentStore using SurrealDB.
type Store struct {
	db     *surrealdb.DB
	logger *common.Logger
}

var _ interfaces.DocumentStore = (*Store)(nil)

// NewStore connects, signs in and selects the configured namespace.
func NewStore(logger *common.Logger, config *common.SurrealDBConfig) (*Store, error) {
	ctx := context.Background()

	db, err := surrealdb.New(config.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Username,
		"pass": config.Password,
	}); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Namespace, config.Database); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	if err := defineTable(ctx, db); err != nil {
		db.Close(ctx)
		return nil, err
	}

	logger.Info().
		Str("address", config.Address).
		Str("namespace", config.Namespace).
		Str("database", config.Database).
		Msg("SurrealDB document store initialized")

	return &Store{db: db, logger: logger}, nil
}

// defineTable creates the document table. SurrealDB v3 errors on querying
// non-existent tables.
func defineTable(ctx context.Context, db *surrealdb.DB) error {
	sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", documentTable)
	if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
		return fmt.Errorf("failed to define table %s: %w", documentTable, err)
	}
	return nil
}

func isNotFoundError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "not found")
}

// Get implements interfaces.DocumentStore.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	sql := "SELECT key, data, updated_at FROM $rid"
	vars := map[string]any{"rid": surrealmodels.NewRecordID(documentTable, key)}

	results, err := surrealdb.Query[[]documentRecord](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document '%s': %w", key, err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, models.ErrNotFound
	}
	return []byte((*results)[0].Result[0].Data), nil
}

// Put implements interfaces.DocumentStore.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	record := documentRecord{Key: key, Data: string(data), UpdatedAt: time.Now().UTC()}
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{"rid": surrealmodels.NewRecordID(documentTable, key), "record": record}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]documentRecord](ctx, s.db, sql, vars)
		if err == nil {
			s.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("Document saved")
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to put document '%s' after retries: %w", key, lastErr)
}

// Close closes the connection.
func (s *Store) Close() error {
	return s.db.Close(context.Background())
}
