package models

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
)

// Goal is a savings target measured against total portfolio value.
type Goal struct {
	Title       string  `json:"title"`
	TargetValue float64 `json:"target_value"`
}

// TargetAllocation is the desired fraction of the portfolio held in a broad asset type.
type TargetAllocation struct {
	Type       AssetType `json:"type"`
	Allocation float64   `json:"allocation"` // fraction, 0.6 = 60%
}

// PortfolioConfig holds the user-authored settings for one portfolio.
type PortfolioConfig struct {
	BaseCurrency      string             `json:"base_currency"`
	WithdrawalRate    float64            `json:"withdrawal_rate"`
	Goals             []Goal             `json:"goals"`
	TargetAllocations []TargetAllocation `json:"target_allocations"`
	TimeFrame         TimeFrame          `json:"time_frame"`
}

// NewPortfolioConfig returns the defaults for a portfolio valued in base.
func NewPortfolioConfig(base string) *PortfolioConfig {
	return &PortfolioConfig{
		BaseCurrency: strings.ToUpper(base),
		TimeFrame:    TimeFrameAll,
	}
}

// TargetFor returns the configured target fraction for a broad type, or 0.
func (c *PortfolioConfig) TargetFor(t AssetType) float64 {
	var total float64
	for _, ta := range c.TargetAllocations {
		if ta.Type.Broad() == t.Broad() {
			total += ta.Allocation
		}
	}
	return total
}

// Validate checks ranges and normalizes codes in place.
func (c *PortfolioConfig) Validate() error {
	c.BaseCurrency = strings.ToUpper(strings.TrimSpace(c.BaseCurrency))
	if money.GetCurrency(c.BaseCurrency) == nil {
		return fmt.Errorf("unknown base currency %q", c.BaseCurrency)
	}
	if c.WithdrawalRate < 0 || c.WithdrawalRate > 1 {
		return fmt.Errorf("withdrawal rate must be a fraction between 0 and 1, got %v", c.WithdrawalRate)
	}
	for _, ta := range c.TargetAllocations {
		if !ta.Type.Valid() {
			return fmt.Errorf("target allocation has unknown asset type %d", int(ta.Type))
		}
		if ta.Allocation < 0 || ta.Allocation > 1 {
			return fmt.Errorf("target allocation for %s must be between 0 and 1, got %v", ta.Type, ta.Allocation)
		}
	}
	if c.TimeFrame == "" {
		c.TimeFrame = TimeFrameAll
	}
	tf, err := ParseTimeFrame(string(c.TimeFrame))
	if err != nil {
		return err
	}
	c.TimeFrame = tf
	return nil
}
