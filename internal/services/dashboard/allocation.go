package dashboard

import (
	"fmt"
	"sort"

	"github.com/bobmcallan/folio/internal/models"
)

// Percentage is one key's share of a denominator.
type Percentage[K comparable] struct {
	Key        K
	Label      string
	Value      float64
	Percentage float64
}

// PercentagesOf returns each key's share of denominator as a percentage rounded
// to two decimals, sorted descending. Ties keep first-seen order. A zero
// denominator yields an empty result.
func PercentagesOf[K comparable](totals *models.Totals[K], denominator float64) []Percentage[K] {
	if totals == nil || denominator == 0 {
		return []Percentage[K]{}
	}

	out := make([]Percentage[K], 0, totals.Len())
	for _, k := range totals.Keys() {
		v := totals.Get(k)
		out = append(out, Percentage[K]{
			Key:        k,
			Label:      totals.Label(k),
			Value:      v,
			Percentage: round2(v / denominator * 100),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Percentage > out[j].Percentage
	})
	return out
}

// Allocations converts PercentagesOf output into presentation slices.
func Allocations[K comparable](totals *models.Totals[K], denominator float64) []models.Allocation {
	pcts := PercentagesOf(totals, denominator)
	out := make([]models.Allocation, len(pcts))
	for i, p := range pcts {
		out[i] = models.Allocation{
			Key:        fmt.Sprint(p.Key),
			Label:      p.Label,
			Value:      round2(p.Value),
			Percentage: p.Percentage,
		}
	}
	return out
}

// Breakdowns builds a per-asset-type sub-allocation for every type present in
// totals.ByAssetType that has an entry in sub. Each is relative to that type's total.
func Breakdowns[K comparable](totals *models.AllocationTotals, sub map[models.AssetType]*models.Totals[K]) []models.AssetBreakdown {
	out := []models.AssetBreakdown{}
	for _, pct := range PercentagesOf(totals.ByAssetType, totals.TotalValue) {
		b, ok := sub[pct.Key]
		if !ok || b.Len() == 0 {
			continue
		}
		out = append(out, models.AssetBreakdown{
			Type:        pct.Key,
			Label:       pct.Key.Label(),
			Allocations: Allocations(b, totals.ByAssetType.Get(pct.Key)),
		})
	}
	return out
}
