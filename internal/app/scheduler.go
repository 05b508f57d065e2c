package app

import (
	"context"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
)

// startSnapshotScheduler recomputes the dashboard on a fixed interval so the
// daily history snapshot is recorded even when no change events arrive.
func startSnapshotScheduler(ctx context.Context, svc interfaces.DashboardService, logger *common.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info().Dur("interval", interval).Msg("Snapshot scheduler: started")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Snapshot scheduler: stopped")
			return
		case <-ticker.C:
			refreshSnapshot(ctx, svc, logger)
		}
	}
}

func refreshSnapshot(ctx context.Context, svc interfaces.DashboardService, logger *common.Logger) {
	start := time.Now()

	d, err := svc.Recompute(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Snapshot refresh: recompute failed")
		return
	}

	logger.Debug().
		Str("run_id", d.RunID).
		Float64("total", d.TotalValue).
		Dur("elapsed", time.Since(start)).
		Msg("Snapshot refresh: complete")
}
