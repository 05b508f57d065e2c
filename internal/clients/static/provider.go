// Package static serves exchange rates from a fixed table.
package static

import (
	"context"
	"strings"

	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Provider resolves rates from a configured table. Rates are quoted against
// one base; other bases are derived by cross rate.
type Provider struct {
	base  string
	rates map[string]float64
}

var _ interfaces.ExchangeRateProvider = (*Provider)(nil)

// NewProvider creates a provider where rates[c] converts one unit of c into base.
func NewProvider(base string, rates map[string]float64) *Provider {
	p := &Provider{base: strings.ToUpper(base), rates: make(map[string]float64, len(rates))}
	for c, r := range rates {
		p.rates[strings.ToUpper(c)] = r
	}
	return p
}

func (p *Provider) quote(currency string) (float64, bool) {
	if currency == p.base {
		return 1, true
	}
	r, ok := p.rates[currency]
	return r, ok && r > 0
}

// GetRates implements interfaces.ExchangeRateProvider.
func (p *Provider) GetRates(_ context.Context, base string, currencies []string) (models.RateTable, error) {
	base = strings.ToUpper(base)
	table := models.NewRateTable(base)

	baseQuote, ok := p.quote(base)
	for _, cur := range currencies {
		cur = strings.ToUpper(strings.TrimSpace(cur))
		if cur == "" || cur == base {
			continue
		}
		if !ok {
			return models.RateTable{}, &models.MissingRateError{Currency: base}
		}
		q, found := p.quote(cur)
		if !found {
			return models.RateTable{}, &models.MissingRateError{Currency: cur}
		}
		table.Set(cur, q/baseQuote)
	}
	return table, nil
}
