package dashboard

import (
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// MinDate returns the earliest day admitted by tf. The second result is false
// when the frame is unbounded.
func MinDate(tf models.TimeFrame, now time.Time) (time.Time, bool) {
	today := models.Day(now)
	switch tf {
	case models.TimeFrameYTD:
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), true
	case models.TimeFrame1Y:
		return today.AddDate(-1, 0, 0), true
	case models.TimeFrame5Y:
		return today.AddDate(-5, 0, 0), true
	case models.TimeFrame10Y:
		return today.AddDate(-10, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// Project reshapes history into per-type series restricted to tf. Every
// series is index-aligned with Labels; types that are zero across the whole
// window are dropped. A nil universe means all broad asset types.
func Project(history models.PortfolioHistory, tf models.TimeFrame, universe []models.AssetType, now time.Time) *models.HistorySeries {
	if universe == nil {
		universe = models.BroadAssetTypes
	}
	if tf == "" {
		tf = models.TimeFrameAll
	}

	out := &models.HistorySeries{
		TimeFrame: tf,
		Labels:    []string{},
		Totals:    []float64{},
		Series:    []models.AssetSeries{},
	}

	minDate, bounded := MinDate(tf, now)
	values := make([][]float64, len(universe))
	for _, e := range history {
		day := models.Day(e.Date)
		if bounded && day.Before(minDate) {
			continue
		}
		out.Labels = append(out.Labels, day.Format(models.DayLayout))
		out.Totals = append(out.Totals, e.TotalValue)
		for i, t := range universe {
			values[i] = append(values[i], e.Value(t))
		}
	}

	for i, t := range universe {
		if allZero(values[i]) {
			continue
		}
		out.Series = append(out.Series, models.AssetSeries{
			Type:   t,
			Label:  t.Label(),
			Values: values[i],
		})
	}
	return out
}

func allZero(vs []float64) bool {
	for _, v := range vs {
		if v != 0 {
			return false
		}
	}
	return true
}
