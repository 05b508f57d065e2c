package models

// AllocationTotals is the grouped output of one aggregation pass. All values
// are in the base currency.
type AllocationTotals struct {
	BaseCurrency string
	TotalValue   float64

	ByAssetType     *Totals[AssetType]
	ByCurrency      *Totals[string]
	AssetCurrencies map[AssetType]*Totals[string]
	AssetHoldings   map[AssetType]*Totals[string] // keyed by identity key, labeled by display name
	AssetRegions    map[AssetType]*Totals[RegionClass]
}

// NewAllocationTotals returns an empty snapshot for base.
func NewAllocationTotals(base string) *AllocationTotals {
	return &AllocationTotals{
		BaseCurrency:    base,
		ByAssetType:     NewTotals[AssetType](),
		ByCurrency:      NewTotals[string](),
		AssetCurrencies: make(map[AssetType]*Totals[string]),
		AssetHoldings:   make(map[AssetType]*Totals[string]),
		AssetRegions:    make(map[AssetType]*Totals[RegionClass]),
	}
}

// Allocation is one labeled percentage slice.
type Allocation struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// AssetBreakdown is a sub-allocation within one broad asset type.
type AssetBreakdown struct {
	Type        AssetType    `json:"type"`
	Label       string       `json:"label"`
	Allocations []Allocation `json:"allocations"`
}

// RebalanceStep is a suggested buy (positive Value) or sell (negative Value).
type RebalanceStep struct {
	Type        AssetType `json:"type"`
	AssetName   string    `json:"asset_name"`
	Value       float64   `json:"value"`
	Percentage  float64   `json:"percentage"`             // fraction of the current holding value
	NewPosition bool      `json:"new_position,omitempty"` // target set but nothing held
}

// GoalProgress is the completion state of one goal.
type GoalProgress struct {
	Title        string  `json:"title"`
	TargetValue  float64 `json:"target_value"`
	CompletedPct float64 `json:"completed_pct"`
	RemainingPct float64 `json:"remaining_pct"`
}
