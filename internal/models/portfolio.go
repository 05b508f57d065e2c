package models

import (
	"strings"
)

// Holding is one position inside an account, valued in its own currency.
type Holding struct {
	ID            string         `json:"id,omitempty"`
	Type          AssetType      `json:"type"`
	Currency      string         `json:"currency"`
	CurrentValue  float64        `json:"current_value"`
	Description   string         `json:"description,omitempty"`
	Symbol        string         `json:"symbol,omitempty"` // e.g. "VWCE.XETRA" or "NASDAQ:AAPL"
	RegionWeights []RegionWeight `json:"region_weights,omitempty"`
}

// ShortSymbol strips an exchange qualifier from the symbol.
// "VWCE.XETRA" becomes "VWCE" and "NASDAQ:AAPL" becomes "AAPL".
func (h Holding) ShortSymbol() string {
	s := strings.TrimSpace(h.Symbol)
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.Index(s, "."); i > 0 {
		s = s[:i]
	}
	return s
}

// IdentityKey groups holdings that represent the same asset.
// Cash-like holdings are keyed by currency, tradeables by ticker, everything
// else by description.
func (h Holding) IdentityKey() string {
	if h.Type.IsCashLike() {
		return strings.ToUpper(h.Currency)
	}
	if h.Type.IsTradeable() {
		if sym := h.ShortSymbol(); sym != "" {
			return strings.ToUpper(sym)
		}
	}
	return strings.ToUpper(strings.TrimSpace(h.Description))
}

// DisplayName is the label shown for the holding's bucket.
func (h Holding) DisplayName() string {
	if h.Type.IsCashLike() {
		return strings.ToUpper(h.Currency)
	}
	if d := strings.TrimSpace(h.Description); d != "" {
		return d
	}
	return h.IdentityKey()
}

// Account is an ordered set of holdings.
type Account struct {
	ID          string    `json:"id"`
	Description string    `json:"description,omitempty"`
	Holdings    []Holding `json:"holdings"`
}

// RateTable maps currency codes to their conversion rate into Base.
type RateTable struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// NewRateTable returns an empty table for base.
func NewRateTable(base string) RateTable {
	return RateTable{Base: strings.ToUpper(base), Rates: make(map[string]float64)}
}

// Set records the rate for currency.
func (t RateTable) Set(currency string, rate float64) {
	t.Rates[strings.ToUpper(currency)] = rate
}

// Rate returns the rate for currency. The base currency always resolves to 1.
func (t RateTable) Rate(currency string) (float64, bool) {
	cur := strings.ToUpper(currency)
	if cur == t.Base {
		return 1, true
	}
	r, ok := t.Rates[cur]
	return r, ok
}
