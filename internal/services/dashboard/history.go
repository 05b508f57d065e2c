package dashboard

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// HistoryManager owns the daily snapshot series of one portfolio. All
// mutations go through it; entries stay strictly ascending with one per day.
//
// Saves are asynchronous. The in-memory series is updated before a mutating
// call returns, and a save failure is only logged. Saves are ordered by a
// sequence number so an older snapshot never overwrites a newer one.
type HistoryManager struct {
	store  interfaces.HistoryStore
	logger *common.Logger

	mu      sync.Mutex
	history models.PortfolioHistory
	loaded  bool
	seq     uint64

	saveMu   sync.Mutex
	savedSeq uint64
	pending  sync.WaitGroup
}

// NewHistoryManager creates a manager backed by store.
func NewHistoryManager(store interfaces.HistoryStore, logger *common.Logger) *HistoryManager {
	return &HistoryManager{store: store, logger: logger}
}

// Load reads the stored series on first use. Malformed data resets to an
// empty history and is reported as *models.PersistenceError. Other store
// failures leave the manager unloaded so the next call retries.
func (m *HistoryManager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		return nil
	}

	history, err := m.store.Load(ctx)
	if err == nil {
		err = history.Validate()
		if err != nil {
			err = &models.PersistenceError{Op: "load history", Err: err}
		}
	}

	if err != nil {
		var pe *models.PersistenceError
		if !errors.As(err, &pe) {
			m.logger.Warn().Err(err).Msg("History store unavailable")
			return err
		}
		m.logger.Error().Err(err).Msg("Stored history is invalid, starting empty")
		m.history = nil
		m.loaded = true
		return err
	}

	m.history = history
	m.loaded = true
	m.logger.Debug().Int("entries", len(history)).Msg("History loaded")
	return nil
}

// Loaded reports whether the series has been read from the store.
func (m *HistoryManager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// History returns a copy of the current series.
func (m *HistoryManager) History() models.PortfolioHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.Clone()
}

// RecordDailySnapshot appends today's totals, or refines today's entry when
// the total changed. An unchanged total for today is a no-op and returns false.
func (m *HistoryManager) RecordDailySnapshot(ctx context.Context, totalValue float64, byType *models.Totals[models.AssetType], today time.Time) bool {
	entry := models.HistoryEntry{
		Date:       models.Day(today),
		TotalValue: totalValue,
		Assets:     assetValues(byType),
	}

	m.mu.Lock()
	n := len(m.history)
	switch {
	case n == 0 || models.Day(m.history[n-1].Date).Before(entry.Date):
		m.history = append(m.history, entry)
	case models.Day(m.history[n-1].Date).Equal(entry.Date):
		if m.history[n-1].TotalValue == totalValue {
			m.mu.Unlock()
			return false
		}
		m.history[n-1] = entry
	default:
		// A manual entry dated after today sits at the end; keep order.
		if !m.upsert(entry, true) {
			m.mu.Unlock()
			return false
		}
	}
	snapshot, seq := m.snapshot()
	m.mu.Unlock()

	m.logger.Debug().
		Str("date", entry.Date.Format(models.DayLayout)).
		Float64("value", totalValue).
		Msg("Daily snapshot recorded")

	m.persist(ctx, snapshot, seq)
	return true
}

// InsertManualEntry places entry by date, replacing any entry for the same day.
func (m *HistoryManager) InsertManualEntry(ctx context.Context, entry models.HistoryEntry) {
	entry.Date = models.Day(entry.Date)
	entry.Assets = append([]models.AssetValue(nil), entry.Assets...)

	m.mu.Lock()
	m.upsert(entry, false)
	snapshot, seq := m.snapshot()
	m.mu.Unlock()

	m.logger.Info().
		Str("date", entry.Date.Format(models.DayLayout)).
		Float64("value", entry.TotalValue).
		Msg("Manual history entry stored")

	m.persist(ctx, snapshot, seq)
}

// upsert inserts entry at its sorted position or replaces the same-day entry.
// With skipUnchanged, an existing same-day entry with an equal total is kept
// and false is returned. Caller holds mu.
func (m *HistoryManager) upsert(entry models.HistoryEntry, skipUnchanged bool) bool {
	i := sort.Search(len(m.history), func(i int) bool {
		return !models.Day(m.history[i].Date).Before(entry.Date)
	})

	switch {
	case i >= len(m.history):
		m.history = append(m.history, entry)
	case models.Day(m.history[i].Date).Equal(entry.Date):
		if skipUnchanged && m.history[i].TotalValue == entry.TotalValue {
			return false
		}
		m.history[i] = entry
	default:
		m.history = append(m.history, models.HistoryEntry{})
		copy(m.history[i+1:], m.history[i:])
		m.history[i] = entry
	}
	return true
}

// snapshot copies the series for saving. Caller holds mu.
func (m *HistoryManager) snapshot() (models.PortfolioHistory, uint64) {
	m.seq++
	return m.history.Clone(), m.seq
}

func (m *HistoryManager) persist(ctx context.Context, history models.PortfolioHistory, seq uint64) {
	ctx = context.WithoutCancel(ctx)

	m.pending.Add(1)
	go func() {
		defer m.pending.Done()

		m.saveMu.Lock()
		defer m.saveMu.Unlock()

		if seq <= m.savedSeq {
			return
		}
		if err := m.store.Save(ctx, history); err != nil {
			m.logger.Error().
				Err(&models.PersistenceError{Op: "save history", Err: err}).
				Int("entries", len(history)).
				Msg("History save failed")
			return
		}
		m.savedSeq = seq
	}()
}

// Flush waits for outstanding saves.
func (m *HistoryManager) Flush() {
	m.pending.Wait()
}

func assetValues(byType *models.Totals[models.AssetType]) []models.AssetValue {
	if byType == nil {
		return []models.AssetValue{}
	}
	out := make([]models.AssetValue, 0, byType.Len())
	for _, t := range byType.Keys() {
		out = append(out, models.AssetValue{Type: t, Value: byType.Get(t)})
	}
	return out
}
