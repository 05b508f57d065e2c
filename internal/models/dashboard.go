package models

import "time"

// Dashboard is the immutable result of one recompute.
type Dashboard struct {
	RunID        string    `json:"run_id"`
	ComputedAt   time.Time `json:"computed_at"`
	Portfolio    string    `json:"portfolio"`
	BaseCurrency string    `json:"base_currency"`
	TotalValue   float64   `json:"total_value"`

	AssetAllocation    []Allocation     `json:"asset_allocation"`
	CurrencyAllocation []Allocation     `json:"currency_allocation"`
	AssetCurrencies    []AssetBreakdown `json:"asset_currencies"`
	AssetRegions       []AssetBreakdown `json:"asset_regions"`
	AssetHoldings      []AssetBreakdown `json:"asset_holdings"`

	RebalancingConfigured bool            `json:"rebalancing_configured"`
	RebalanceSteps        []RebalanceStep `json:"rebalance_steps"`
	Goals                 []GoalProgress  `json:"goals"`

	WithdrawalRate        float64 `json:"withdrawal_rate"`
	MonthlySpendLimit     float64 `json:"monthly_spend_limit"`
	MonthlySpendFormatted string  `json:"monthly_spend_formatted"`

	History *HistorySeries `json:"history"`
}

// ChangeEvent is a notification from the account data source.
type ChangeEvent string

const (
	EventAccountAdded   ChangeEvent = "account_added"
	EventAccountUpdated ChangeEvent = "account_updated"
	EventAccountRemoved ChangeEvent = "account_removed"
	EventAssetAdded     ChangeEvent = "asset_added"
	EventAssetUpdated   ChangeEvent = "asset_updated"
	EventAssetRemoved   ChangeEvent = "asset_removed"
)

// TriggersRecompute reports whether the event changes holdings data.
func (e ChangeEvent) TriggersRecompute() bool {
	switch e {
	case EventAccountAdded, EventAccountUpdated, EventAccountRemoved,
		EventAssetAdded, EventAssetUpdated, EventAssetRemoved:
		return true
	}
	return false
}
