// Package models defines data structures for Folio
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AssetType classifies a holding. The integer codes are persisted in history
// entries and must stay stable.
type AssetType int

// Broad asset types. Every grouping dimension uses one of these.
const (
	AssetTypeUnknown        AssetType = 0
	AssetTypeCash           AssetType = 1
	AssetTypeStock          AssetType = 2
	AssetTypeBond           AssetType = 3
	AssetTypeCommodity      AssetType = 4
	AssetTypeCryptocurrency AssetType = 5
	AssetTypeRealEstate     AssetType = 6
)

// Specific asset types, each folded into a broad type by Broad.
const (
	AssetTypeDeposit      AssetType = 10
	AssetTypeMoneyMarket  AssetType = 11
	AssetTypeStockETF     AssetType = 12
	AssetTypeBondETF      AssetType = 13
	AssetTypeCommodityETF AssetType = 14
)

// BroadAssetTypes lists the broad types in display order. It is the default
// universe used when projecting history into per-type series.
var BroadAssetTypes = []AssetType{
	AssetTypeCash,
	AssetTypeStock,
	AssetTypeBond,
	AssetTypeCommodity,
	AssetTypeCryptocurrency,
	AssetTypeRealEstate,
}

var assetTypeNames = map[AssetType]string{
	AssetTypeCash:           "Cash",
	AssetTypeStock:          "Stock",
	AssetTypeBond:           "Bond",
	AssetTypeCommodity:      "Commodity",
	AssetTypeCryptocurrency: "Cryptocurrency",
	AssetTypeRealEstate:     "RealEstate",
	AssetTypeDeposit:        "Deposit",
	AssetTypeMoneyMarket:    "MoneyMarket",
	AssetTypeStockETF:       "StockETF",
	AssetTypeBondETF:        "BondETF",
	AssetTypeCommodityETF:   "CommodityETF",
}

var assetTypeLabels = map[AssetType]string{
	AssetTypeCash:           "Cash & Equivalents",
	AssetTypeStock:          "Stocks & Stock ETFs",
	AssetTypeBond:           "Bonds & Bond ETFs",
	AssetTypeCommodity:      "Commodities & Commodity ETFs",
	AssetTypeCryptocurrency: "Cryptocurrencies",
	AssetTypeRealEstate:     "Real Estate",
}

// Broad returns the coarse classification used for grouping.
func (t AssetType) Broad() AssetType {
	switch t {
	case AssetTypeDeposit, AssetTypeMoneyMarket:
		return AssetTypeCash
	case AssetTypeStockETF:
		return AssetTypeStock
	case AssetTypeBondETF:
		return AssetTypeBond
	case AssetTypeCommodityETF:
		return AssetTypeCommodity
	default:
		return t
	}
}

// IsCashLike reports whether the type is currency or a near-cash equivalent.
func (t AssetType) IsCashLike() bool { return t.Broad() == AssetTypeCash }

// IsStockLike reports whether the type carries equity region exposure.
func (t AssetType) IsStockLike() bool { return t.Broad() == AssetTypeStock }

// IsBondLike reports whether the type carries fixed income region exposure.
func (t AssetType) IsBondLike() bool { return t.Broad() == AssetTypeBond }

// IsTradeable reports whether holdings of this type are identified by ticker.
func (t AssetType) IsTradeable() bool {
	switch t.Broad() {
	case AssetTypeStock, AssetTypeBond, AssetTypeCommodity, AssetTypeCryptocurrency:
		return true
	}
	return false
}

// Valid reports whether t is a known code.
func (t AssetType) Valid() bool {
	_, ok := assetTypeNames[t]
	return ok
}

// Label returns the presentation label of the broad type.
func (t AssetType) Label() string {
	if l, ok := assetTypeLabels[t.Broad()]; ok {
		return l
	}
	return "Other"
}

func (t AssetType) String() string {
	if n, ok := assetTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("AssetType(%d)", int(t))
}

// ParseAssetType accepts a type name (case-insensitive) or its integer code.
func ParseAssetType(s string) (AssetType, error) {
	s = strings.TrimSpace(s)
	if code, err := strconv.Atoi(s); err == nil {
		t := AssetType(code)
		if !t.Valid() {
			return AssetTypeUnknown, fmt.Errorf("unknown asset type code %d", code)
		}
		return t, nil
	}
	for t, name := range assetTypeNames {
		if strings.EqualFold(name, s) {
			return t, nil
		}
	}
	return AssetTypeUnknown, fmt.Errorf("unknown asset type %q", s)
}

// UnmarshalJSON accepts either the integer code or the type name.
func (t *AssetType) UnmarshalJSON(data []byte) error {
	var code int
	if err := json.Unmarshal(data, &code); err == nil {
		*t = AssetType(code)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("asset type must be a number or string: %s", string(data))
	}
	parsed, err := ParseAssetType(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
