package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/climate-projection-service/internal/domain"
)

var generatedAt = time.Date(2024, time.April, 26, 15, 0, 0, 0, time.UTC)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want ExportFormat
	}{
		{"", FormatPDF},
		{"pdf", FormatPDF},
		{"CSV", FormatCSV},
		{"excel", FormatExcel},
		{" xlsx ", FormatExcel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFormat("docx")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestBuild(t *testing.T) {
	r := Build(2050, domain.RegionGlobal, generatedAt)

	assert.Equal(t, "Climate Projection Report: Global 2050", r.Title)
	assert.Equal(t, domain.Project(2050, domain.RegionGlobal), r.Projection)
	assert.Len(t, r.Display, 4)
	assert.Len(t, r.Series, len(domain.MilestoneYears()))
	assert.Len(t, r.Scenarios, 4)
	assert.Equal(t, generatedAt, r.GeneratedAt)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "climate-report-1714143600000.csv", Filename(generatedAt, CSVRenderer{}))
	assert.Equal(t, "climate-report-1714143600000.xlsx", Filename(generatedAt, ExcelRenderer{}))
	assert.Equal(t, "climate-report-1714143600000.pdf", Filename(generatedAt, PDFRenderer{}))
}

func TestCSVRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSVRenderer{}.Render(&buf, Build(2050, domain.RegionGlobal, generatedAt)))

	cr := csv.NewReader(&buf)
	cr.FieldsPerRecord = -1 // sections differ in width
	rows, err := cr.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "Global"}, rows[1])
	assert.Equal(t, []string{"generated_at", "2024-04-26T15:00:00Z"}, rows[3])
	assert.Contains(t, rows, []string{"temperature", "1.6", "+1.6°C", "Global increase by 2050"})
	assert.Contains(t, rows, []string{"sea_level", "26.3", "+26.3cm", "Global rise by 2050"})
	assert.Contains(t, rows, []string{"1900", "-0.2", "0.0", "0.0"})
	assert.Contains(t, rows, []string{"2050", "1.6", "15.0", "26.0"})
}

func TestExcelRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExcelRenderer{}.Render(&buf, Build(2050, domain.RegionOceania, generatedAt)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Projection", "Series", "Scenarios"}, f.GetSheetList())

	region, err := f.GetCellValue("Projection", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Oceania", region)

	metric, err := f.GetCellValue("Projection", "A9")
	require.NoError(t, err)
	assert.Equal(t, "Sea Level Rise", metric)
	display, err := f.GetCellValue("Projection", "C9")
	require.NoError(t, err)
	assert.Equal(t, "+34.2cm", display)

	year, err := f.GetCellValue("Series", "A2")
	require.NoError(t, err)
	assert.Equal(t, "1900", year)

	scenario, err := f.GetCellValue("Scenarios", "B4")
	require.NoError(t, err)
	assert.Equal(t, "92", scenario)
}

func TestPDFRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDFRenderer{}.Render(&buf, Build(2030, domain.RegionEurope, generatedAt)))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}
