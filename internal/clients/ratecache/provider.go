// Package ratecache caches resolved exchange rates in front of another provider.
package ratecache

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Provider serves cached rates and forwards only the uncached currencies to
// the wrapped provider in a single call. Failures are never cached.
type Provider struct {
	next   interfaces.ExchangeRateProvider
	cache  *cache.Cache
	logger *common.Logger
}

var _ interfaces.ExchangeRateProvider = (*Provider)(nil)

// New wraps next with a cache whose entries live for ttl.
func New(next interfaces.ExchangeRateProvider, ttl time.Duration, logger *common.Logger) *Provider {
	return &Provider{
		next:   next,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

func key(base, currency string) string {
	return base + "/" + currency
}

// GetRates implements interfaces.ExchangeRateProvider.
func (p *Provider) GetRates(ctx context.Context, base string, currencies []string) (models.RateTable, error) {
	base = strings.ToUpper(base)
	table := models.NewRateTable(base)

	var misses []string
	for _, cur := range currencies {
		cur = strings.ToUpper(strings.TrimSpace(cur))
		if cur == "" || cur == base {
			continue
		}
		if v, ok := p.cache.Get(key(base, cur)); ok {
			table.Set(cur, v.(float64))
			continue
		}
		misses = append(misses, cur)
	}

	if len(misses) == 0 {
		return table, nil
	}

	fetched, err := p.next.GetRates(ctx, base, misses)
	if err != nil {
		return models.RateTable{}, err
	}
	for _, cur := range misses {
		r, ok := fetched.Rate(cur)
		if !ok {
			return models.RateTable{}, &models.MissingRateError{Currency: cur}
		}
		p.cache.Set(key(base, cur), r, cache.DefaultExpiration)
		table.Set(cur, r)
	}

	p.logger.Debug().Str("base", base).Strs("fetched", misses).Int("cached", len(table.Rates)-len(misses)).Msg("Exchange rates resolved")
	return table, nil
}
