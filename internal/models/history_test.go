package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryEntry_WireShape(t *testing.T) {
	entry := HistoryEntry{
		Date:       time.Date(2023, 1, 1, 15, 30, 0, 0, time.UTC),
		TotalValue: 1000,
		Assets:     []AssetValue{{Type: AssetTypeStock, Value: 600}, {Type: AssetTypeBond, Value: 400}},
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2023-01-01","value":1000,"assets":[{"type":2,"value":600},{"type":3,"value":400}]}`, string(data))
}

func TestHistoryEntry_UnmarshalFullTimestamp(t *testing.T) {
	var entry HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2023-03-04T23:00:00.000Z","value":5,"assets":[]}`), &entry))
	assert.True(t, entry.Date.Equal(time.Date(2023, 3, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 5.0, entry.TotalValue)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"yesterday","value":5}`), &entry))
}

func TestHistoryEntry_ValueDefaultsToZero(t *testing.T) {
	entry := HistoryEntry{Assets: []AssetValue{{Type: AssetTypeStock, Value: 10}}}
	assert.Equal(t, 10.0, entry.Value(AssetTypeStock))
	assert.Equal(t, 0.0, entry.Value(AssetTypeCryptocurrency))
}

func TestPortfolioHistory_Validate(t *testing.T) {
	d := func(s string) time.Time {
		t, _ := ParseDay(s)
		return t
	}
	ok := PortfolioHistory{{Date: d("2023-01-01")}, {Date: d("2023-01-02")}}
	assert.NoError(t, ok.Validate())

	dup := PortfolioHistory{{Date: d("2023-01-01")}, {Date: d("2023-01-01")}}
	assert.Error(t, dup.Validate())

	unsorted := PortfolioHistory{{Date: d("2023-01-02")}, {Date: d("2023-01-01")}}
	assert.Error(t, unsorted.Validate())
}

func TestPortfolioHistory_CloneIsDeep(t *testing.T) {
	orig := PortfolioHistory{{TotalValue: 1, Assets: []AssetValue{{Type: AssetTypeCash, Value: 1}}}}
	cp := orig.Clone()
	cp[0].Assets[0].Value = 99
	assert.Equal(t, 1.0, orig[0].Assets[0].Value)
}

func TestParseTimeFrame(t *testing.T) {
	tests := map[string]TimeFrame{
		"":    TimeFrameAll,
		"Max": TimeFrameAll,
		"all": TimeFrameAll,
		"ytd": TimeFrameYTD,
		"1y":  TimeFrame1Y,
		"5Y":  TimeFrame5Y,
		"10Y": TimeFrame10Y,
	}
	for in, want := range tests {
		got, err := ParseTimeFrame(in)
		if err != nil {
			t.Errorf("ParseTimeFrame(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseTimeFrame(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseTimeFrame("3M"); err == nil {
		t.Error("expected error for 3M")
	}
}

func TestTotals_OrderAndLabels(t *testing.T) {
	totals := NewTotals[string]()
	totals.AddLabeled("VWCE", "Vanguard All-World", 100)
	totals.Add("AAPL", 50)
	totals.AddLabeled("VWCE", "ignored", 25)

	assert.Equal(t, []string{"VWCE", "AAPL"}, totals.Keys())
	assert.Equal(t, 125.0, totals.Get("VWCE"))
	assert.Equal(t, "Vanguard All-World", totals.Label("VWCE"))
	assert.Equal(t, "AAPL", totals.Label("AAPL"))
	assert.Equal(t, 175.0, totals.Sum())

	data, err := json.Marshal(totals)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"key":"VWCE","label":"Vanguard All-World","value":125},{"key":"AAPL","label":"AAPL","value":50}]`, string(data))
}

func TestChangeEvent_TriggersRecompute(t *testing.T) {
	assert.True(t, EventAssetUpdated.TriggersRecompute())
	assert.True(t, EventAccountRemoved.TriggersRecompute())
	assert.False(t, ChangeEvent("theme_changed").TriggersRecompute())
}
