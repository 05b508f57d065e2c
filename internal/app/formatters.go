package app

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/dashboard"
)

// formatDashboard renders a dashboard snapshot as markdown.
func formatDashboard(d *models.Dashboard, degraded bool) string {
	var sb strings.Builder
	money := func(v float64) string { return dashboard.FormatAmount(v, d.BaseCurrency) }

	sb.WriteString(fmt.Sprintf("# Portfolio Dashboard: %s\n\n", d.Portfolio))
	sb.WriteString(fmt.Sprintf("**Computed:** %s\n", d.ComputedAt.UTC().Format("2006-01-02 15:04 MST")))
	sb.WriteString(fmt.Sprintf("**Total Value:** %s\n", money(d.TotalValue)))
	if d.WithdrawalRate > 0 {
		sb.WriteString(fmt.Sprintf("**Monthly Spend Limit:** %s (%.2f%% withdrawal rate)\n",
			d.MonthlySpendFormatted, d.WithdrawalRate*100))
	}
	if degraded {
		sb.WriteString("\n> Account data could not be read on the last refresh. Figures below are from the previous snapshot.\n")
	}
	sb.WriteString("\n")

	writeAllocationTable(&sb, "Asset Allocation", "Asset Type", d.AssetAllocation, money)
	writeAllocationTable(&sb, "Currency Allocation", "Currency", d.CurrencyAllocation, money)

	if len(d.AssetHoldings) > 0 {
		sb.WriteString("## Holdings by Asset Type\n\n")
		for _, b := range d.AssetHoldings {
			sb.WriteString(fmt.Sprintf("### %s\n\n", b.Label))
			sb.WriteString("| Holding | Value | Share |\n")
			sb.WriteString("|---------|-------|-------|\n")
			for _, a := range b.Allocations {
				sb.WriteString(fmt.Sprintf("| %s | %s | %.2f%% |\n", a.Label, money(a.Value), a.Percentage))
			}
			sb.WriteString("\n")
		}
	}

	if len(d.AssetRegions) > 0 {
		sb.WriteString("## Regions\n\n")
		for _, b := range d.AssetRegions {
			parts := make([]string, 0, len(b.Allocations))
			for _, a := range b.Allocations {
				parts = append(parts, fmt.Sprintf("%s %.2f%%", a.Label, a.Percentage))
			}
			sb.WriteString(fmt.Sprintf("- **%s:** %s\n", b.Label, strings.Join(parts, ", ")))
		}
		sb.WriteString("\n")
	}

	if d.RebalancingConfigured {
		sb.WriteString("## Rebalancing\n\n")
		if len(d.RebalanceSteps) == 0 {
			sb.WriteString("Portfolio is on target.\n\n")
		} else {
			sb.WriteString("| Action | Asset Type | Amount | Change |\n")
			sb.WriteString("|--------|------------|--------|--------|\n")
			for _, s := range d.RebalanceSteps {
				action := "Buy"
				if s.Value < 0 {
					action = "Sell"
				}
				change := fmt.Sprintf("%+.2f%%", s.Percentage*100)
				if s.NewPosition {
					change = "new"
				}
				abs := s.Value
				if abs < 0 {
					abs = -abs
				}
				sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", action, s.AssetName, money(abs), change))
			}
			sb.WriteString("\n")
		}
	}

	if len(d.Goals) > 0 {
		sb.WriteString("## Goals\n\n")
		for _, g := range d.Goals {
			sb.WriteString(fmt.Sprintf("- **%s** (%s): %.2f%% complete\n", g.Title, money(g.TargetValue), g.CompletedPct))
		}
		sb.WriteString("\n")
	}

	if d.History != nil && len(d.History.Labels) > 0 {
		n := len(d.History.Labels)
		sb.WriteString(fmt.Sprintf("**History (%s):** %d days, %s to %s\n",
			d.History.TimeFrame, n, d.History.Labels[0], d.History.Labels[n-1]))
	}

	return sb.String()
}

func writeAllocationTable(sb *strings.Builder, title, column string, rows []models.Allocation, money func(float64) string) {
	if len(rows) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("## %s\n\n", title))
	sb.WriteString(fmt.Sprintf("| %s | Value | Allocation |\n", column))
	sb.WriteString("|------|-------|------------|\n")
	for _, a := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %s | %.2f%% |\n", a.Label, money(a.Value), a.Percentage))
	}
	sb.WriteString("\n")
}

// formatHistory renders a windowed series as a markdown table, one row per day.
func formatHistory(series *models.HistorySeries) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Portfolio History (%s)\n\n", series.TimeFrame))
	if len(series.Labels) == 0 {
		sb.WriteString("No history recorded in this time frame.\n")
		return sb.String()
	}

	sb.WriteString("| Date | Total |")
	for _, s := range series.Series {
		sb.WriteString(fmt.Sprintf(" %s |", s.Label))
	}
	sb.WriteString("\n|------|-------|")
	for range series.Series {
		sb.WriteString("------|")
	}
	sb.WriteString("\n")

	for i, label := range series.Labels {
		var total float64
		if i < len(series.Totals) {
			total = series.Totals[i]
		}
		sb.WriteString(fmt.Sprintf("| %s | %.2f |", label, total))
		for _, s := range series.Series {
			sb.WriteString(fmt.Sprintf(" %.2f |", s.Values[i]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
