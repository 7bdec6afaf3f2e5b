package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Anchor years of the linear projection.
const (
	BaselineYear = 2023
	TargetYear   = 2050
)

// Global anchor values at TargetYear. Temperature also has a non-zero baseline.
const (
	baselineTemperature = 1.1
	targetTemperature   = 1.6
	targetPrecipitation = 5.3
	targetSeaLevel      = 26.3
	targetExtremeEvents = 32.0
)

// ErrYearOutOfRange is returned by ValidateYear for years outside the supported range.
var ErrYearOutOfRange = errors.New("year out of range")

// ProjectionResult holds the four projected metrics formatted to one decimal place.
type ProjectionResult struct {
	Temperature   string `json:"temperature"`    // °C increase
	Precipitation string `json:"precipitation"`  // % change
	SeaLevel      string `json:"sea_level"`      // cm rise
	ExtremeEvents string `json:"extreme_events"` // % increase in frequency
}

// Project computes the climate metrics for year in region. Years outside
// BaselineYear..TargetYear extrapolate linearly.
func Project(year int, region Region) ProjectionResult {
	yearDiff := float64(year - BaselineYear)
	span := float64(TargetYear - BaselineYear)
	f := Factors(region)

	baseTemp := baselineTemperature + yearDiff*(targetTemperature-baselineTemperature)/span
	basePrecip := yearDiff * targetPrecipitation / span
	baseSeaLevel := yearDiff * targetSeaLevel / span
	baseExtreme := yearDiff * targetExtremeEvents / span

	return ProjectionResult{
		Temperature:   FormatOneDecimal(baseTemp * f.Temperature),
		Precipitation: FormatOneDecimal(basePrecip * f.Precipitation),
		SeaLevel:      FormatOneDecimal(baseSeaLevel * f.SeaLevel),
		ExtremeEvents: FormatOneDecimal(baseExtreme * f.ExtremeEvents),
	}
}

// ValidateYear reports whether year lies within BaselineYear..TargetYear.
func ValidateYear(year int) error {
	if year < BaselineYear || year > TargetYear {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrYearOutOfRange, year, BaselineYear, TargetYear)
	}
	return nil
}

// RoundOneDecimal rounds v half away from zero to one decimal place.
func RoundOneDecimal(v float64) float64 {
	r := math.Round(v*10) / 10
	if r == 0 {
		return 0 // drop the sign of negative zero
	}
	return r
}

// FormatOneDecimal renders v rounded to one decimal, keeping the trailing digit.
func FormatOneDecimal(v float64) string {
	return strconv.FormatFloat(RoundOneDecimal(v), 'f', 1, 64)
}

// Value returns the metric named by kpi as a float. Unknown KPIs report false.
func (p ProjectionResult) Value(kpi KPI) (float64, bool) {
	var s string
	switch kpi {
	case KPITemperature:
		s = p.Temperature
	case KPIPrecipitation:
		s = p.Precipitation
	case KPISeaLevel:
		s = p.SeaLevel
	case KPIExtremeEvents:
		s = p.ExtremeEvents
	default:
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
