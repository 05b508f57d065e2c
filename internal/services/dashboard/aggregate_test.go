package dashboard

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/models"
)

func scenarioAccounts() []models.Account {
	return []models.Account{
		{ID: "broker", Holdings: []models.Holding{
			{Type: models.AssetTypeStock, Currency: "USD", CurrentValue: 1000, Symbol: "VTI", Description: "Vanguard Total Stock"},
		}},
		{ID: "bank", Holdings: []models.Holding{
			{Type: models.AssetTypeBond, Currency: "EUR", CurrentValue: 500, Symbol: "IBGS.AS", Description: "Euro Gov Bond 1-3yr"},
		}},
	}
}

func usdRates() models.RateTable {
	rt := models.NewRateTable("USD")
	rt.Set("EUR", 1.1)
	rt.Set("GBP", 1.25)
	return rt
}

func TestValueInBase(t *testing.T) {
	rates := usdRates()

	v, err := ValueInBase(500, "eur", rates)
	require.NoError(t, err)
	assert.Equal(t, 550.0, v)

	v, err = ValueInBase(42, "USD", rates)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	_, err = ValueInBase(1, "JPY", rates)
	var mre *models.MissingRateError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "JPY", mre.Currency)

	rates.Set("CHF", math.NaN())
	_, err = ValueInBase(1, "CHF", rates)
	assert.True(t, errors.As(err, &mre))
}

func TestCurrencies_DistinctInFirstSeenOrder(t *testing.T) {
	accounts := []models.Account{
		{Holdings: []models.Holding{{Currency: "eur"}, {Currency: "USD"}}},
		{Holdings: []models.Holding{{Currency: "EUR"}, {Currency: "gbp"}, {Currency: ""}}},
	}
	assert.Equal(t, []string{"EUR", "USD", "GBP"}, Currencies(accounts))
}

func TestAggregate_TwoAccountScenario(t *testing.T) {
	totals, err := Aggregate(scenarioAccounts(), usdRates())
	require.NoError(t, err)

	assert.Equal(t, 1550.0, totals.TotalValue)
	assert.Equal(t, 1000.0, totals.ByAssetType.Get(models.AssetTypeStock))
	assert.Equal(t, 550.0, totals.ByAssetType.Get(models.AssetTypeBond))
	assert.Equal(t, 550.0, totals.ByCurrency.Get("EUR"))
	assert.Equal(t, 550.0, totals.AssetCurrencies[models.AssetTypeBond].Get("EUR"))
	assert.Equal(t, 1000.0, totals.AssetHoldings[models.AssetTypeStock].Get("VTI"))
	assert.Equal(t, "Euro Gov Bond 1-3yr", totals.AssetHoldings[models.AssetTypeBond].Label("IBGS"))

	alloc := Allocations(totals.ByAssetType, totals.TotalValue)
	require.Len(t, alloc, 2)
	assert.Equal(t, "Stock", alloc[0].Key)
	assert.Equal(t, "Stocks & Stock ETFs", alloc[0].Label)
	assert.Equal(t, 64.52, alloc[0].Percentage)
	assert.Equal(t, "Bond", alloc[1].Key)
	assert.Equal(t, 35.48, alloc[1].Percentage)
}

func TestAggregate_TotalsAreConsistent(t *testing.T) {
	accounts := []models.Account{
		{Holdings: []models.Holding{
			{Type: models.AssetTypeCash, Currency: "USD", CurrentValue: 1234.56},
			{Type: models.AssetTypeStockETF, Currency: "EUR", CurrentValue: 987.65, Symbol: "VWCE.XETRA"},
			{Type: models.AssetTypeCryptocurrency, Currency: "USD", CurrentValue: 333.33, Symbol: "BTC"},
		}},
		{Holdings: []models.Holding{
			{Type: models.AssetTypeCommodityETF, Currency: "GBP", CurrentValue: 111.11, Symbol: "SGLN.L"},
			{Type: models.AssetTypeMoneyMarket, Currency: "EUR", CurrentValue: 50},
		}},
	}

	totals, err := Aggregate(accounts, usdRates())
	require.NoError(t, err)

	assert.InDelta(t, totals.TotalValue, totals.ByAssetType.Sum(), 1e-6)
	assert.InDelta(t, totals.TotalValue, totals.ByCurrency.Sum(), 1e-6)
}

func TestAggregate_CashMergesByCurrency(t *testing.T) {
	accounts := []models.Account{
		{Holdings: []models.Holding{{Type: models.AssetTypeCash, Currency: "EUR", CurrentValue: 100, Description: "Checking"}}},
		{Holdings: []models.Holding{
			{Type: models.AssetTypeDeposit, Currency: "EUR", CurrentValue: 200, Description: "Term deposit"},
			{Type: models.AssetTypeCash, Currency: "USD", CurrentValue: 50, Description: "Checking"},
		}},
	}

	totals, err := Aggregate(accounts, usdRates())
	require.NoError(t, err)

	cash := totals.AssetHoldings[models.AssetTypeCash]
	require.NotNil(t, cash)
	assert.Equal(t, []string{"EUR", "USD"}, cash.Keys())
	assert.InDelta(t, 330.0, cash.Get("EUR"), 1e-9)
	assert.Equal(t, "EUR", cash.Label("EUR"))
}

func TestAggregate_RegionWeightsOnlyForStocksAndBonds(t *testing.T) {
	accounts := []models.Account{{Holdings: []models.Holding{
		{
			Type: models.AssetTypeStockETF, Currency: "USD", CurrentValue: 1000, Symbol: "VT",
			RegionWeights: []models.RegionWeight{{Region: "US", Weight: 0.6}, {Region: "DE", Weight: 0.2}, {Region: "GB", Weight: 0.1}},
		},
		{
			Type: models.AssetTypeCommodity, Currency: "USD", CurrentValue: 300, Symbol: "GLD",
			RegionWeights: []models.RegionWeight{{Region: "US", Weight: 1}},
		},
	}}}

	totals, err := Aggregate(accounts, usdRates())
	require.NoError(t, err)

	regions := totals.AssetRegions[models.AssetTypeStock]
	require.NotNil(t, regions)
	assert.InDelta(t, 600.0, regions.Get(models.RegionNorthAmerica), 1e-9)
	assert.InDelta(t, 300.0, regions.Get(models.RegionEurope), 1e-9)
	// Weights cover 90%, the remainder is left unallocated.
	assert.InDelta(t, 900.0, regions.Sum(), 1e-9)

	_, ok := totals.AssetRegions[models.AssetTypeCommodity]
	assert.False(t, ok, "commodities carry no region breakdown")
}

func TestAggregate_MissingRateAborts(t *testing.T) {
	accounts := []models.Account{{Holdings: []models.Holding{
		{Type: models.AssetTypeStock, Currency: "USD", CurrentValue: 10},
		{Type: models.AssetTypeStock, Currency: "JPY", CurrentValue: 1000},
	}}}

	totals, err := Aggregate(accounts, usdRates())
	assert.Nil(t, totals)
	var mre *models.MissingRateError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "JPY", mre.Currency)
}

func TestAggregate_DoesNotMutateInputs(t *testing.T) {
	accounts := scenarioAccounts()
	before := accounts[1].Holdings[0]

	_, err := Aggregate(accounts, usdRates())
	require.NoError(t, err)
	assert.Equal(t, before, accounts[1].Holdings[0])
}
