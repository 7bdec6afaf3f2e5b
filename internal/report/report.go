// Package report renders projection reports and simulates the dashboard's
// export, share, and refresh actions as cancellable jobs.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/couchcryptid/climate-projection-service/internal/domain"
)

// ExportFormat selects the report file type.
type ExportFormat string

const (
	FormatPDF   ExportFormat = "pdf"
	FormatCSV   ExportFormat = "csv"
	FormatExcel ExportFormat = "excel"
)

// ErrUnsupportedFormat is returned for an unknown export format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat converts a user-supplied format name. An empty name selects PDF,
// and "xlsx" is accepted as an alias for excel.
func ParseFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pdf":
		return FormatPDF, nil
	case "csv":
		return FormatCSV, nil
	case "excel", "xlsx":
		return FormatExcel, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Report is the content shared by every export format.
type Report struct {
	Title       string
	Year        int
	Region      domain.Region
	Projection  domain.ProjectionResult
	Display     []domain.MetricDisplay
	Series      []domain.HistoricalSeriesPoint
	Scenarios   []domain.Scenario
	GeneratedAt time.Time
}

// Build assembles the report for year and region.
func Build(year int, region domain.Region, generatedAt time.Time) Report {
	p := domain.Project(year, region)
	return Report{
		Title:       fmt.Sprintf("Climate Projection Report: %s %d", region, year),
		Year:        year,
		Region:      region,
		Projection:  p,
		Display:     domain.Display(year, region, p),
		Series:      domain.HistoricalSeries(region),
		Scenarios:   domain.Scenarios(),
		GeneratedAt: generatedAt,
	}
}

// Renderer writes a report in one file format.
type Renderer interface {
	Render(w io.Writer, r Report) error
	ContentType() string
	Extension() string
}

// Renderers returns the renderer for every supported format.
func Renderers() map[ExportFormat]Renderer {
	return map[ExportFormat]Renderer{
		FormatPDF:   PDFRenderer{},
		FormatCSV:   CSVRenderer{},
		FormatExcel: ExcelRenderer{},
	}
}

// Filename returns the download name for a report generated at t.
func Filename(t time.Time, r Renderer) string {
	return fmt.Sprintf("climate-report-%d.%s", t.UnixMilli(), r.Extension())
}

// formatSeriesValue renders a charted value at the resolution the chart shows.
func formatSeriesValue(v float64) string {
	return domain.FormatOneDecimal(v)
}
