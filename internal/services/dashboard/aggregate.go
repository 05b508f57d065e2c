package dashboard

import (
	"strings"

	"github.com/bobmcallan/folio/internal/models"
)

// Aggregate groups every holding's base-currency value in a single pass.
// Inputs are not modified. The first missing rate aborts the pass.
func Aggregate(accounts []models.Account, rates models.RateTable) (*models.AllocationTotals, error) {
	totals := models.NewAllocationTotals(rates.Base)

	for _, acc := range accounts {
		for _, h := range acc.Holdings {
			value, err := ValueInBase(h.CurrentValue, h.Currency, rates)
			if err != nil {
				return nil, err
			}

			assetType := h.Type.Broad()
			currency := strings.ToUpper(h.Currency)

			totals.TotalValue += value
			totals.ByAssetType.AddLabeled(assetType, assetType.Label(), value)
			totals.ByCurrency.Add(currency, value)
			bucket(totals.AssetCurrencies, assetType).Add(currency, value)
			bucket(totals.AssetHoldings, assetType).AddLabeled(h.IdentityKey(), h.DisplayName(), value)

			if assetType.IsStockLike() || assetType.IsBondLike() {
				regions := bucket(totals.AssetRegions, assetType)
				for _, rw := range h.RegionWeights {
					rc := models.ClassifyRegion(rw.Region)
					regions.AddLabeled(rc, rc.Label(), value*rw.Weight)
				}
			}
		}
	}

	return totals, nil
}

func bucket[K comparable](m map[models.AssetType]*models.Totals[K], t models.AssetType) *models.Totals[K] {
	b, ok := m[t]
	if !ok {
		b = models.NewTotals[K]()
		m[t] = b
	}
	return b
}
