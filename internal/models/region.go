package models

import "strings"

// RegionWeight is a fractional geographic exposure of a holding.
type RegionWeight struct {
	Region string  `json:"region"`
	Weight float64 `json:"weight"`
}

// RegionClass is the classification region used for geographic allocation.
type RegionClass int

const (
	RegionOther RegionClass = iota
	RegionNorthAmerica
	RegionEurope
	RegionJapan
	RegionAsiaPacific
	RegionEmergingMarkets
)

var regionLabels = map[RegionClass]string{
	RegionOther:           "Other",
	RegionNorthAmerica:    "North America",
	RegionEurope:          "Europe",
	RegionJapan:           "Japan",
	RegionAsiaPacific:     "Asia Pacific",
	RegionEmergingMarkets: "Emerging Markets",
}

// Label returns the display name of the region.
func (r RegionClass) Label() string {
	if l, ok := regionLabels[r]; ok {
		return l
	}
	return regionLabels[RegionOther]
}

func (r RegionClass) String() string { return r.Label() }

// regionClasses maps lowercase country codes and region names to a classification region.
var regionClasses = map[string]RegionClass{
	// North America
	"us": RegionNorthAmerica, "ca": RegionNorthAmerica, "north_america": RegionNorthAmerica, "north america": RegionNorthAmerica,
	// Europe
	"gb": RegionEurope, "uk": RegionEurope, "de": RegionEurope, "fr": RegionEurope, "nl": RegionEurope,
	"ch": RegionEurope, "it": RegionEurope, "es": RegionEurope, "se": RegionEurope, "dk": RegionEurope,
	"no": RegionEurope, "fi": RegionEurope, "be": RegionEurope, "ie": RegionEurope, "at": RegionEurope,
	"pt": RegionEurope, "europe": RegionEurope, "eurozone": RegionEurope, "developed_europe": RegionEurope,
	"united_kingdom": RegionEurope,
	// Japan
	"jp": RegionJapan, "japan": RegionJapan,
	// Developed Asia Pacific
	"au": RegionAsiaPacific, "nz": RegionAsiaPacific, "hk": RegionAsiaPacific, "sg": RegionAsiaPacific,
	"australasia": RegionAsiaPacific, "asia_developed": RegionAsiaPacific, "pacific": RegionAsiaPacific,
	// Emerging
	"cn": RegionEmergingMarkets, "in": RegionEmergingMarkets, "br": RegionEmergingMarkets, "tw": RegionEmergingMarkets,
	"kr": RegionEmergingMarkets, "mx": RegionEmergingMarkets, "za": RegionEmergingMarkets, "id": RegionEmergingMarkets,
	"sa": RegionEmergingMarkets, "th": RegionEmergingMarkets, "my": RegionEmergingMarkets, "tr": RegionEmergingMarkets,
	"emerging": RegionEmergingMarkets, "emerging_markets": RegionEmergingMarkets, "asia_emerging": RegionEmergingMarkets,
	"latin_america": RegionEmergingMarkets, "middle_east": RegionEmergingMarkets, "africa": RegionEmergingMarkets,
	"europe_emerging": RegionEmergingMarkets,
}

// ClassifyRegion maps a country code or region name to its classification region.
// Unrecognised codes classify as RegionOther.
func ClassifyRegion(region string) RegionClass {
	if rc, ok := regionClasses[strings.ToLower(strings.TrimSpace(region))]; ok {
		return rc
	}
	return RegionOther
}
