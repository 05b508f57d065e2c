package models

import (
	"errors"
	"fmt"
)

// ErrNotLoaded is returned when no dashboard has been computed yet.
var ErrNotLoaded = errors.New("dashboard not loaded")

// ErrInvalidHistoryEntry wraps validation failures of a manual history entry.
var ErrInvalidHistoryEntry = errors.New("invalid history entry")

// ErrNotFound is returned by document stores for an absent key.
var ErrNotFound = errors.New("not found")

// RepositoryError means the account data could not be read.
type RepositoryError struct {
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("account repository unavailable: %v", e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }

// MissingRateError means no conversion rate exists for a currency. When a
// whole rate request fails, Currency lists every requested code.
type MissingRateError struct {
	Currency string
	Err      error
}

func (e *MissingRateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("missing exchange rate for %s: %v", e.Currency, e.Err)
	}
	return fmt.Sprintf("missing exchange rate for %s", e.Currency)
}

func (e *MissingRateError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed or invalid history/config load or save.
type PersistenceError struct {
	Op  string // "load history", "save config", ...
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
