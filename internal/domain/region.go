package domain

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// ErrUnknownRegion is returned when a region label is not one of the supported regions.
var ErrUnknownRegion = errors.New("unknown region")

// Region is one of the fixed projection regions. The zero value is not a valid region.
type Region string

const (
	RegionGlobal       Region = "Global"
	RegionNorthAmerica Region = "North America"
	RegionEurope       Region = "Europe"
	RegionAsia         Region = "Asia"
	RegionAfrica       Region = "Africa"
	RegionSouthAmerica Region = "South America"
	RegionOceania      Region = "Oceania"
)

// RegionalFactors scales the global trend into a regional estimate.
type RegionalFactors struct {
	Temperature   float64 `json:"temperature"`
	Precipitation float64 `json:"precipitation"`
	SeaLevel      float64 `json:"sea_level"`
	ExtremeEvents float64 `json:"extreme_events"`
}

// regionTable is the single source for both the region enumeration and its
// factors, in display order.
var regionTable = []struct {
	region  Region
	factors RegionalFactors
}{
	{RegionGlobal, RegionalFactors{Temperature: 1.0, Precipitation: 1.0, SeaLevel: 1.0, ExtremeEvents: 1.0}},
	{RegionNorthAmerica, RegionalFactors{Temperature: 1.2, Precipitation: 1.3, SeaLevel: 0.8, ExtremeEvents: 1.1}},
	{RegionEurope, RegionalFactors{Temperature: 1.1, Precipitation: 1.2, SeaLevel: 0.9, ExtremeEvents: 1.2}},
	{RegionAsia, RegionalFactors{Temperature: 1.3, Precipitation: 1.4, SeaLevel: 1.2, ExtremeEvents: 1.3}},
	{RegionAfrica, RegionalFactors{Temperature: 1.4, Precipitation: 0.7, SeaLevel: 1.1, ExtremeEvents: 1.4}},
	{RegionSouthAmerica, RegionalFactors{Temperature: 1.1, Precipitation: 1.5, SeaLevel: 1.0, ExtremeEvents: 1.2}},
	{RegionOceania, RegionalFactors{Temperature: 1.2, Precipitation: 0.9, SeaLevel: 1.3, ExtremeEvents: 1.1}},
}

var (
	factorsByRegion = make(map[Region]RegionalFactors, len(regionTable))
	regionsByFold   = make(map[string]Region, len(regionTable))
)

func init() {
	for _, row := range regionTable {
		factorsByRegion[row.region] = row.factors
		regionsByFold[foldKey(string(row.region))] = row.region
	}
}

// Regions returns all supported regions in display order.
func Regions() []Region {
	out := make([]Region, len(regionTable))
	for i, row := range regionTable {
		out[i] = row.region
	}
	return out
}

// Factors returns the scaling factors for r. Every Region constant has an
// entry; an invalid Region yields the Global factors.
func Factors(r Region) RegionalFactors {
	if f, ok := factorsByRegion[r]; ok {
		return f
	}
	return factorsByRegion[RegionGlobal]
}

// Valid reports whether r is one of the supported regions.
func (r Region) Valid() bool {
	_, ok := factorsByRegion[r]
	return ok
}

func (r Region) String() string { return string(r) }

// ParseRegion converts a user-supplied label into a Region. Matching ignores
// case, surrounding whitespace, and treats '-' and '_' as spaces, so
// "north_america" and "NORTH AMERICA" both resolve to RegionNorthAmerica.
// An empty label resolves to RegionGlobal.
func ParseRegion(s string) (Region, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RegionGlobal, nil
	}
	if r, ok := regionsByFold[foldKey(s)]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRegion, s)
}

func foldKey(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	// A Caser is stateful, so each call gets its own.
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}
