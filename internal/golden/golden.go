// Package golden builds and compares the full year-by-region projection table
// used as a regression fixture.
package golden

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/couchcryptid/climate-projection-service/internal/domain"
)

// FixedTime stamps generated tables so output is byte-for-byte reproducible.
var FixedTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Entry is one projected (year, region) cell.
type Entry struct {
	Year       int                     `json:"year"`
	Region     domain.Region           `json:"region"`
	Projection domain.ProjectionResult `json:"projection"`
}

// Table is every supported year projected for every region, year-major.
type Table struct {
	GeneratedAt time.Time                                        `json:"generated_at"`
	Entries     []Entry                                          `json:"entries"`
	Series      map[domain.Region][]domain.HistoricalSeriesPoint `json:"series"`
}

// Build computes the table from the model, stamped with domain.Now.
func Build() Table {
	regions := domain.Regions()
	t := Table{
		GeneratedAt: domain.Now(),
		Entries:     make([]Entry, 0, (domain.TargetYear-domain.BaselineYear+1)*len(regions)),
		Series:      make(map[domain.Region][]domain.HistoricalSeriesPoint, len(regions)),
	}
	for year := domain.BaselineYear; year <= domain.TargetYear; year++ {
		for _, r := range regions {
			t.Entries = append(t.Entries, Entry{Year: year, Region: r, Projection: domain.Project(year, r)})
		}
	}
	for _, r := range regions {
		t.Series[r] = domain.HistoricalSeries(r)
	}
	return t
}

// Write encodes t as indented JSON.
func Write(w io.Writer, t Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode golden table: %w", err)
	}
	return nil
}

// Read decodes a table written by Write.
func Read(r io.Reader) (Table, error) {
	var t Table
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return Table{}, fmt.Errorf("decode golden table: %w", err)
	}
	return t, nil
}

// Diff reports the projection and series differences between want and got,
// ignoring the generation timestamp. An empty string means they match.
func Diff(want, got Table) string {
	return cmp.Diff(want.Entries, got.Entries) + cmp.Diff(want.Series, got.Series)
}
