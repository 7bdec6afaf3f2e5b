package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// CSVRenderer writes the report as comma-separated sections: a metadata block,
// the projected metrics, and the historical series.
type CSVRenderer struct{}

func (CSVRenderer) ContentType() string { return "text/csv" }

func (CSVRenderer) Extension() string { return "csv" }

func (CSVRenderer) Render(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"report", r.Title},
		{"region", string(r.Region)},
		{"year", strconv.Itoa(r.Year)},
		{"generated_at", r.GeneratedAt.UTC().Format(time.RFC3339)},
		{},
		{"metric", "value", "display", "description"},
	}
	for _, d := range r.Display {
		v, _ := r.Projection.Value(d.KPI)
		rows = append(rows, []string{string(d.KPI), formatSeriesValue(v), d.Value, d.Description})
	}

	rows = append(rows, []string{}, []string{"year", "temperature", "precipitation", "sea_level"})
	for _, p := range r.Series {
		rows = append(rows, []string{
			strconv.Itoa(p.Year),
			formatSeriesValue(p.Temperature),
			formatSeriesValue(p.Precipitation),
			formatSeriesValue(p.SeaLevel),
		})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv report: %w", err)
	}
	return nil
}
