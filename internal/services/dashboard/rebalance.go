package dashboard

import (
	"slices"
	"sort"

	"github.com/bobmcallan/folio/internal/models"
)

// RebalanceSteps computes the buy or sell needed to move every non-cash asset
// type from its current fraction of totalValue to its target fraction.
//
// Held types with a zero delta are skipped. Target types with nothing held
// are returned as new positions worth target*totalValue. Steps are sorted
// ascending by value so the largest sells come first.
func RebalanceSteps(byType *models.Totals[models.AssetType], totalValue float64, cfg *models.PortfolioConfig) []models.RebalanceStep {
	steps := []models.RebalanceStep{}
	if byType == nil || cfg == nil || totalValue == 0 {
		return steps
	}

	var targetOrder []models.AssetType
	for _, ta := range cfg.TargetAllocations {
		if t := ta.Type.Broad(); !slices.Contains(targetOrder, t) {
			targetOrder = append(targetOrder, t)
		}
	}

	for _, t := range byType.Keys() {
		if t.IsCashLike() {
			continue
		}
		value := byType.Get(t)
		delta := cfg.TargetFor(t) - value/totalValue
		if delta == 0 {
			continue
		}
		transaction := delta * totalValue
		var pct float64
		if value != 0 {
			pct = transaction / value
		}
		steps = append(steps, models.RebalanceStep{
			Type:       t,
			AssetName:  t.Label(),
			Value:      transaction,
			Percentage: pct,
		})
	}

	for _, t := range targetOrder {
		target := cfg.TargetFor(t)
		if t.IsCashLike() || byType.Has(t) || target <= 0 {
			continue
		}
		steps = append(steps, models.RebalanceStep{
			Type:        t,
			AssetName:   t.Label(),
			Value:       target * totalValue,
			NewPosition: true,
		})
	}

	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Value < steps[j].Value
	})
	return steps
}
