package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer writes the report as a single-page A4 document.
type PDFRenderer struct{}

func (PDFRenderer) ContentType() string { return "application/pdf" }

func (PDFRenderer) Extension() string { return "pdf" }

func (PDFRenderer) Render(w io.Writer, r Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(r.GeneratedAt)
	pdf.SetTitle(r.Title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(r.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated "+r.GeneratedAt.UTC().Format(time.RFC1123), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Projected change", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, d := range r.Display {
		pdf.CellFormat(50, 7, tr(d.Title), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, tr(d.Value), "1", 0, "R", false, 0, "")
		pdf.CellFormat(0, 7, tr(d.Description), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Historical and projected series", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	for _, h := range []string{"Year", "Temperature (°C)", "Precipitation (%)", "Sea level (cm)"} {
		pdf.CellFormat(45, 7, tr(h), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, p := range r.Series {
		pdf.CellFormat(45, 7, strconv.Itoa(p.Year), "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 7, formatSeriesValue(p.Temperature), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 7, formatSeriesValue(p.Precipitation), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 7, formatSeriesValue(p.SeaLevel), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Scenarios", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, s := range r.Scenarios {
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s (%d%%): %s", s.Title, s.Probability, s.Description)), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf report: %w", err)
	}
	return nil
}
