package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// ExchangeRateProvider resolves conversion rates into a base currency.
type ExchangeRateProvider interface {
	// GetRates returns a table holding a rate for every requested currency.
	// An unresolvable currency fails the whole call with *models.MissingRateError.
	GetRates(ctx context.Context, base string, currencies []string) (models.RateTable, error)
}
