package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// DashboardService computes and publishes portfolio analytics.
type DashboardService interface {
	// Recompute runs the full pipeline and publishes the result.
	Recompute(ctx context.Context) (*models.Dashboard, error)

	// Dashboard returns the last published snapshot and whether a load has completed.
	Dashboard() (*models.Dashboard, bool)

	// Degraded reports whether the last load failed to read accounts.
	Degraded() bool

	// Notify schedules a debounced recompute for data-changing events.
	Notify(event models.ChangeEvent) bool

	// Subscribe registers an observer called with every published snapshot.
	Subscribe(fn func(*models.Dashboard))

	// History projects stored history into the given window.
	History(ctx context.Context, tf models.TimeFrame) (*models.HistorySeries, error)

	// AddHistoryEntry inserts or replaces a manual history entry.
	AddHistoryEntry(ctx context.Context, entry models.HistoryEntry) (*models.HistorySeries, error)

	// SetTimeFrame stores the display window and returns the re-projected history.
	SetTimeFrame(ctx context.Context, tf models.TimeFrame) (*models.HistorySeries, error)

	Config(ctx context.Context) (*models.PortfolioConfig, error)
	SaveConfig(ctx context.Context, cfg *models.PortfolioConfig) error

	Close()
}
