// Package domain models regional climate projections.
//
// # Projection Model
//
// Every figure shown by the dashboard derives from one linear model anchored at
// the 2023 baseline and the 2050 target:
//
//	temperature    1.1 °C at 2023, 1.6 °C at 2050
//	precipitation  0 %    at 2023, 5.3 %  at 2050
//	sea level      0 cm   at 2023, 26.3 cm at 2050
//	extreme events 0 %    at 2023, 32 %   at 2050
//
// Years outside 2023–2050 extrapolate along the same line. The model does not
// clamp; callers that accept user input validate the range with ValidateYear.
//
// # Regional Scaling
//
// Each region multiplies the global trend by a fixed factor per metric
// (see Factors). Regions form a closed set: the only way to obtain a Region
// from untrusted input is ParseRegion.
//
// # Rounding
//
// Projected values are rounded half away from zero to one decimal place and
// always carry the trailing digit ("1.0", not "1"). Negative zero renders as
// "0.0".
//
// # Historical Series
//
// HistoricalSeries returns hand-authored milestone values for
// 1900, 1950, 2000, 2023, 2030, 2040 and 2050, scaled by the region's factors.
// It feeds the dashboard chart and the report exports.
package domain
