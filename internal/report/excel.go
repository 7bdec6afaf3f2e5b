package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	projectionSheet = "Projection"
	seriesSheet     = "Series"
	scenarioSheet   = "Scenarios"
)

// ExcelRenderer writes the report as an .xlsx workbook with one sheet per section.
type ExcelRenderer struct{}

func (ExcelRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (ExcelRenderer) Extension() string { return "xlsx" }

func (ExcelRenderer) Render(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", projectionSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{seriesSheet, scenarioSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := fillProjectionSheet(f, r, bold); err != nil {
		return err
	}
	if err := fillSeriesSheet(f, r, bold); err != nil {
		return err
	}
	if err := fillScenarioSheet(f, r, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func fillProjectionSheet(f *excelize.File, r Report, header int) error {
	rows := [][]any{
		{"Report", r.Title},
		{"Region", string(r.Region)},
		{"Year", r.Year},
		{"Generated", r.GeneratedAt.UTC().Format(time.RFC3339)},
		{},
		{"Metric", "Value", "Display", "Description"},
	}
	for _, d := range r.Display {
		v, _ := r.Projection.Value(d.KPI)
		rows = append(rows, []any{d.Title, v, d.Value, d.Description})
	}
	if err := writeRows(f, projectionSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(projectionSheet, "A6", "D6", header); err != nil {
		return fmt.Errorf("style %s: %w", projectionSheet, err)
	}
	return f.SetColWidth(projectionSheet, "A", "D", 24)
}

func fillSeriesSheet(f *excelize.File, r Report, header int) error {
	rows := [][]any{{"Year", "Temperature (°C)", "Precipitation Change (%)", "Sea Level Rise (cm)"}}
	for _, p := range r.Series {
		rows = append(rows, []any{p.Year, p.Temperature, p.Precipitation, p.SeaLevel})
	}
	if err := writeRows(f, seriesSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(seriesSheet, "A1", "D1", header); err != nil {
		return fmt.Errorf("style %s: %w", seriesSheet, err)
	}
	return f.SetColWidth(seriesSheet, "A", "D", 24)
}

func fillScenarioSheet(f *excelize.File, r Report, header int) error {
	rows := [][]any{{"Scenario", "Probability (%)", "Description"}}
	for _, s := range r.Scenarios {
		rows = append(rows, []any{s.Title, s.Probability, s.Description})
	}
	if err := writeRows(f, scenarioSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(scenarioSheet, "A1", "C1", header); err != nil {
		return fmt.Errorf("style %s: %w", scenarioSheet, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
