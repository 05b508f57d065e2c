package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

func newTestHistory(t *testing.T, store *stubHistoryStore) *HistoryManager {
	t.Helper()
	m := NewHistoryManager(store, common.NewSilentLogger())
	require.NoError(t, m.Load(context.Background()))
	return m
}

func stockTotals(v float64) *models.Totals[models.AssetType] {
	return typeTotals(models.AssetTypeStock, v)
}

func TestRecordDailySnapshot_SameValueIsNoOp(t *testing.T) {
	store := &stubHistoryStore{}
	m := newTestHistory(t, store)
	ctx := context.Background()
	today := day("2026-03-10")

	assert.True(t, m.RecordDailySnapshot(ctx, 1550, stockTotals(1550), today))
	m.Flush()
	require.Equal(t, 1, store.saveCount())

	assert.False(t, m.RecordDailySnapshot(ctx, 1550, stockTotals(1550), today))
	m.Flush()
	assert.Equal(t, 1, store.saveCount(), "unchanged snapshot must not be saved")
	assert.Len(t, m.History(), 1)
}

func TestRecordDailySnapshot_ReplacesTodayOnChange(t *testing.T) {
	store := &stubHistoryStore{stored: models.PortfolioHistory{
		{Date: day("2026-03-09"), TotalValue: 1500},
		{Date: day("2026-03-10"), TotalValue: 1550},
	}}
	m := newTestHistory(t, store)

	assert.True(t, m.RecordDailySnapshot(context.Background(), 1600, stockTotals(1600), day("2026-03-10")))
	m.Flush()

	got := m.History()
	require.Len(t, got, 2)
	assert.Equal(t, 1500.0, got[0].TotalValue)
	assert.Equal(t, 1600.0, got[1].TotalValue)
	assert.Equal(t, 1600.0, got[1].Value(models.AssetTypeStock))
	assert.Equal(t, got, store.snapshot())
}

func TestRecordDailySnapshot_AppendsNewDay(t *testing.T) {
	store := &stubHistoryStore{stored: models.PortfolioHistory{{Date: day("2026-03-09"), TotalValue: 1500}}}
	m := newTestHistory(t, store)

	m.RecordDailySnapshot(context.Background(), 1500, stockTotals(1500), day("2026-03-10"))
	m.Flush()

	got := m.History()
	require.Len(t, got, 2)
	assert.NoError(t, got.Validate())
	assert.Equal(t, "2026-03-10", got[1].Date.Format(models.DayLayout))
}

func TestRecordDailySnapshot_FutureManualEntryKeepsOrder(t *testing.T) {
	store := &stubHistoryStore{stored: models.PortfolioHistory{
		{Date: day("2026-03-01"), TotalValue: 1000},
		{Date: day("2026-04-01"), TotalValue: 5000},
	}}
	m := newTestHistory(t, store)

	assert.True(t, m.RecordDailySnapshot(context.Background(), 1200, stockTotals(1200), day("2026-03-10")))
	m.Flush()

	got := m.History()
	require.Len(t, got, 3)
	assert.NoError(t, got.Validate())
	assert.Equal(t, 1200.0, got[1].TotalValue)
	assert.Equal(t, 5000.0, got[2].TotalValue)
}

func TestInsertManualEntry_SortedUpsert(t *testing.T) {
	store := &stubHistoryStore{stored: models.PortfolioHistory{
		{Date: day("2026-01-01"), TotalValue: 100},
		{Date: day("2026-03-01"), TotalValue: 300},
	}}
	m := newTestHistory(t, store)
	ctx := context.Background()

	m.InsertManualEntry(ctx, models.HistoryEntry{Date: day("2026-02-01"), TotalValue: 200})
	m.InsertManualEntry(ctx, models.HistoryEntry{Date: day("2025-12-01"), TotalValue: 50})
	m.InsertManualEntry(ctx, models.HistoryEntry{Date: day("2026-03-01"), TotalValue: 333})
	m.Flush()

	got := m.History()
	require.NoError(t, got.Validate())
	values := make([]float64, len(got))
	for i, e := range got {
		values[i] = e.TotalValue
	}
	assert.Equal(t, []float64{50, 100, 200, 333}, values)
	assert.Equal(t, got, store.snapshot(), "last save wins")
}

func TestHistoryLoad_MalformedStartsEmpty(t *testing.T) {
	store := &stubHistoryStore{loadErr: &models.PersistenceError{Op: "decode history", Err: errors.New("unexpected EOF")}}
	m := NewHistoryManager(store, common.NewSilentLogger())

	err := m.Load(context.Background())
	var pe *models.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.True(t, m.Loaded())
	assert.Empty(t, m.History())
}

func TestHistoryLoad_UnsortedIsMalformed(t *testing.T) {
	store := &stubHistoryStore{stored: models.PortfolioHistory{
		{Date: day("2026-03-02"), TotalValue: 2},
		{Date: day("2026-03-01"), TotalValue: 1},
	}}
	m := NewHistoryManager(store, common.NewSilentLogger())

	err := m.Load(context.Background())
	var pe *models.PersistenceError
	assert.True(t, errors.As(err, &pe))
	assert.True(t, m.Loaded())
	assert.Empty(t, m.History())
}

func TestHistoryLoad_UnavailableRetries(t *testing.T) {
	store := &stubHistoryStore{loadErr: errUnreachable}
	m := NewHistoryManager(store, common.NewSilentLogger())

	assert.ErrorIs(t, m.Load(context.Background()), errUnreachable)
	assert.False(t, m.Loaded())

	store.mu.Lock()
	store.loadErr = nil
	store.stored = models.PortfolioHistory{{Date: day("2026-03-01"), TotalValue: 1}}
	store.mu.Unlock()

	require.NoError(t, m.Load(context.Background()))
	assert.Len(t, m.History(), 1)
}

func TestHistorySaveFailureKeepsMemoryState(t *testing.T) {
	store := &stubHistoryStore{saveErr: errors.New("disk full")}
	m := newTestHistory(t, store)

	assert.True(t, m.RecordDailySnapshot(context.Background(), 10, stockTotals(10), day("2026-03-10")))
	m.Flush()

	assert.Equal(t, 1, store.saveCount())
	assert.Len(t, m.History(), 1)
	assert.Empty(t, store.snapshot())
}

func TestHistoryManager_ReturnsCopies(t *testing.T) {
	m := newTestHistory(t, &stubHistoryStore{})
	m.RecordDailySnapshot(context.Background(), 10, stockTotals(10), day("2026-03-10"))
	m.Flush()

	h := m.History()
	h[0].TotalValue = 999
	h[0].Assets[0].Value = 999

	assert.Equal(t, 10.0, m.History()[0].TotalValue)
	assert.Equal(t, 10.0, m.History()[0].Assets[0].Value)
}
