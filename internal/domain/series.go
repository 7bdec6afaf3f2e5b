package domain

// HistoricalSeriesPoint is one milestone on the regional chart.
type HistoricalSeriesPoint struct {
	Year          int     `json:"year"`
	Temperature   float64 `json:"temperature"`
	Precipitation float64 `json:"precipitation"`
	SeaLevel      float64 `json:"sea_level"`
}

// milestones holds the global base magnitudes per milestone year.
var milestones = []HistoricalSeriesPoint{
	{Year: 1900, Temperature: -0.2, Precipitation: 0, SeaLevel: 0},
	{Year: 1950, Temperature: 0, Precipitation: 2, SeaLevel: 5},
	{Year: 2000, Temperature: 0.5, Precipitation: 5, SeaLevel: 10},
	{Year: 2023, Temperature: 1.1, Precipitation: 8, SeaLevel: 15},
	{Year: 2030, Temperature: 1.3, Precipitation: 10, SeaLevel: 18},
	{Year: 2040, Temperature: 1.4, Precipitation: 12, SeaLevel: 22},
	{Year: 2050, Temperature: 1.6, Precipitation: 15, SeaLevel: 26},
}

// MilestoneYears returns the years covered by HistoricalSeries.
func MilestoneYears() []int {
	years := make([]int, len(milestones))
	for i, m := range milestones {
		years[i] = m.Year
	}
	return years
}

// HistoricalSeries returns the milestone series scaled by the region's factors.
// The returned slice is freshly allocated and owned by the caller.
func HistoricalSeries(region Region) []HistoricalSeriesPoint {
	f := Factors(region)
	out := make([]HistoricalSeriesPoint, len(milestones))
	for i, m := range milestones {
		out[i] = HistoricalSeriesPoint{
			Year:          m.Year,
			Temperature:   m.Temperature * f.Temperature,
			Precipitation: m.Precipitation * f.Precipitation,
			SeaLevel:      m.SeaLevel * f.SeaLevel,
		}
	}
	return out
}
