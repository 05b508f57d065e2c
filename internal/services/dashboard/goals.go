package dashboard

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/folio/internal/models"
)

// GoalProgressOf reports completion of each enabled goal. Goals with a
// non-positive target are skipped.
func GoalProgressOf(goals []models.Goal, totalValue float64) []models.GoalProgress {
	out := []models.GoalProgress{}
	for _, g := range goals {
		if g.TargetValue <= 0 {
			continue
		}
		done := round2(math.Min(100, totalValue/g.TargetValue*100))
		out = append(out, models.GoalProgress{
			Title:        g.Title,
			TargetValue:  g.TargetValue,
			CompletedPct: done,
			RemainingPct: round2(100 - done),
		})
	}
	return out
}

// MonthlySpendLimit is the monthly amount a withdrawal rate allows.
func MonthlySpendLimit(withdrawalRate, totalValue float64) float64 {
	return round2(withdrawalRate * totalValue / 12)
}

// FormatAmount renders amount in currency using its ISO symbol and fraction.
func FormatAmount(amount float64, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return fmt.Sprintf("%.2f %s", amount, currency)
	}
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}
