package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DayLayout is the ISO-8601 calendar day format used on the wire.
const DayLayout = "2006-01-02"

// Day truncates t to midnight of its calendar day, expressed in UTC so that
// days compare with Equal regardless of the source location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay accepts "2006-01-02" or a full RFC 3339 timestamp and returns its calendar day.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DayLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Day(t), nil
}

// AssetValue is the value held in one broad asset type on a history day.
type AssetValue struct {
	Type  AssetType `json:"type"`
	Value float64   `json:"value"`
}

// HistoryEntry is one daily snapshot of portfolio value.
type HistoryEntry struct {
	Date       time.Time
	TotalValue float64
	Assets     []AssetValue
}

type historyEntryWire struct {
	Date   string       `json:"date"`
	Value  float64      `json:"value"`
	Assets []AssetValue `json:"assets"`
}

// MarshalJSON writes {date, value, assets} with an ISO day string.
func (e HistoryEntry) MarshalJSON() ([]byte, error) {
	assets := e.Assets
	if assets == nil {
		assets = []AssetValue{}
	}
	return json.Marshal(historyEntryWire{
		Date:   Day(e.Date).Format(DayLayout),
		Value:  e.TotalValue,
		Assets: assets,
	})
}

// UnmarshalJSON reads the wire shape and truncates the date to its day.
func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	var w historyEntryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	d, err := ParseDay(w.Date)
	if err != nil {
		return err
	}
	e.Date = d
	e.TotalValue = w.Value
	e.Assets = w.Assets
	return nil
}

// Value returns the entry's figure for a broad type. Absent types are 0.
func (e HistoryEntry) Value(t AssetType) float64 {
	var v float64
	for _, a := range e.Assets {
		if a.Type.Broad() == t {
			v += a.Value
		}
	}
	return v
}

// SameDay reports whether two entries fall on the same calendar day.
func (e HistoryEntry) SameDay(o HistoryEntry) bool { return Day(e.Date).Equal(Day(o.Date)) }

// PortfolioHistory is a date-ascending series of daily snapshots.
type PortfolioHistory []HistoryEntry

// Clone returns a deep copy.
func (h PortfolioHistory) Clone() PortfolioHistory {
	if h == nil {
		return nil
	}
	out := make(PortfolioHistory, len(h))
	for i, e := range h {
		out[i] = e
		if e.Assets != nil {
			out[i].Assets = append([]AssetValue(nil), e.Assets...)
		}
	}
	return out
}

// Validate checks that entries are strictly ascending with one entry per day.
func (h PortfolioHistory) Validate() error {
	for i := 1; i < len(h); i++ {
		if !Day(h[i-1].Date).Before(Day(h[i].Date)) {
			return fmt.Errorf("history entry %d (%s) is not after entry %d (%s)",
				i, Day(h[i].Date).Format(DayLayout), i-1, Day(h[i-1].Date).Format(DayLayout))
		}
	}
	return nil
}

// TimeFrame is a named lookback horizon for history display.
type TimeFrame string

const (
	TimeFrameAll TimeFrame = "All"
	TimeFrameYTD TimeFrame = "YTD"
	TimeFrame1Y  TimeFrame = "1Y"
	TimeFrame5Y  TimeFrame = "5Y"
	TimeFrame10Y TimeFrame = "10Y"
)

// ParseTimeFrame is case-insensitive and accepts "Max" and "" as All.
func ParseTimeFrame(s string) (TimeFrame, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ALL", "MAX":
		return TimeFrameAll, nil
	case "YTD":
		return TimeFrameYTD, nil
	case "1Y":
		return TimeFrame1Y, nil
	case "5Y":
		return TimeFrame5Y, nil
	case "10Y":
		return TimeFrame10Y, nil
	}
	return "", fmt.Errorf("unknown time frame %q (supported: All, YTD, 1Y, 5Y, 10Y)", s)
}

// AssetSeries is one per-type series aligned with HistorySeries.Labels.
type AssetSeries struct {
	Type   AssetType `json:"type"`
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// HistorySeries is history reshaped for charting.
type HistorySeries struct {
	TimeFrame TimeFrame     `json:"time_frame"`
	Labels    []string      `json:"labels"`
	Totals    []float64     `json:"totals"`
	Series    []AssetSeries `json:"series"`
}
