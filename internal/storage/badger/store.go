// Package badger provides a BadgerHold-backed document store.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Document is one stored JSON document.
type Document struct {
	Key       string `badgerhold:"key"`
	Data      []byte
	UpdatedAt time.Time
}

// Store wraps a BadgerHold database connection.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

var _ interfaces.DocumentStore = (*Store)(nil)

// NewStore creates a new BadgerHold store at the given directory path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create badger directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("BadgerHold store opened")

	return &Store{
		db:     db,
		logger: logger,
	}, nil
}

// Get implements interfaces.DocumentStore.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var doc Document
	if err := s.db.Get(key, &doc); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document '%s': %w", key, err)
	}
	return doc.Data, nil
}

// Put implements interfaces.DocumentStore.
func (s *Store) Put(_ context.Context, key string, data []byte) error {
	doc := &Document{Key: key, Data: data, UpdatedAt: time.Now()}
	if err := s.db.Upsert(key, doc); err != nil {
		return fmt.Errorf("failed to save document '%s': %w", key, err)
	}
	s.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("Document saved")
	return nil
}

// Close closes the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
