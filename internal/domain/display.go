package domain

import "fmt"

// MetricDisplay is a rendered metric card: title, value with unit, and caption.
type MetricDisplay struct {
	KPI         KPI    `json:"kpi"`
	Title       string `json:"title"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// Display renders the projection as the four dashboard metric cards.
func Display(year int, region Region, p ProjectionResult) []MetricDisplay {
	return []MetricDisplay{
		{
			KPI:         KPITemperature,
			Title:       "Temperature",
			Value:       fmt.Sprintf("+%s°C", p.Temperature),
			Description: fmt.Sprintf("%s increase by %d", region, year),
		},
		{
			KPI:         KPIPrecipitation,
			Title:       "Precipitation",
			Value:       fmt.Sprintf("%s%%", p.Precipitation),
			Description: fmt.Sprintf("%s change by %d", region, year),
		},
		{
			KPI:         KPISeaLevel,
			Title:       "Sea Level Rise",
			Value:       fmt.Sprintf("+%scm", p.SeaLevel),
			Description: fmt.Sprintf("%s rise by %d", region, year),
		},
		{
			KPI:         KPIExtremeEvents,
			Title:       "Extreme Events",
			Value:       fmt.Sprintf("+%s%%", p.ExtremeEvents),
			Description: fmt.Sprintf("%s increase by %d", region, year),
		},
	}
}
