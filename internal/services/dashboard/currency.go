// Package dashboard computes allocation, rebalancing, goal and history analytics for a portfolio.
package dashboard

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/folio/internal/models"
)

// ValueInBase converts amount into the rate table's base currency.
func ValueInBase(amount float64, currency string, rates models.RateTable) (float64, error) {
	rate, ok := rates.Rate(currency)
	if !ok || math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return 0, &models.MissingRateError{Currency: strings.ToUpper(currency)}
	}
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(rate)).InexactFloat64(), nil
}

// Currencies returns the distinct currency codes held across accounts, uppercased, in first-seen order.
func Currencies(accounts []models.Account) []string {
	seen := make(map[string]bool)
	var out []string
	for _, acc := range accounts {
		for _, h := range acc.Holdings {
			cur := strings.ToUpper(strings.TrimSpace(h.Currency))
			if cur == "" || seen[cur] {
				continue
			}
			seen[cur] = true
			out = append(out, cur)
		}
	}
	return out
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
