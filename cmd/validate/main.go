// Command validate checks the projection model end to end: baseline and
// target anchors, monotonic growth, regional scaling, the milestone series,
// and value formatting. With -golden it also compares the model against a
// table written by `climatectl golden`.
//
// Usage:
//
//	go run ./cmd/validate
//	go run ./cmd/validate -golden testdata/golden.json
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/climate-projection-service/internal/domain"
	"github.com/couchcryptid/climate-projection-service/internal/golden"
)

// Global anchors of the model.
var (
	baselineGlobal = metrics{temperature: 1.1}
	targetGlobal   = metrics{temperature: 1.6, precipitation: 5.3, seaLevel: 26.3, extremeEvents: 32.0}
)

// Global milestone values, before regional scaling.
var milestones = []domain.HistoricalSeriesPoint{
	{Year: 1900, Temperature: -0.2, Precipitation: 0, SeaLevel: 0},
	{Year: 1950, Temperature: 0, Precipitation: 2, SeaLevel: 5},
	{Year: 2000, Temperature: 0.5, Precipitation: 5, SeaLevel: 10},
	{Year: 2023, Temperature: 1.1, Precipitation: 8, SeaLevel: 15},
	{Year: 2030, Temperature: 1.3, Precipitation: 10, SeaLevel: 18},
	{Year: 2040, Temperature: 1.4, Precipitation: 12, SeaLevel: 22},
	{Year: 2050, Temperature: 1.6, Precipitation: 15, SeaLevel: 26},
}

var oneDecimal = regexp.MustCompile(`^-?\d+\.\d$`)

// metrics is a projection parsed back to floats.
type metrics struct {
	temperature, precipitation, seaLevel, extremeEvents float64
}

func (m metrics) values() [4]float64 {
	return [4]float64{m.temperature, m.precipitation, m.seaLevel, m.extremeEvents}
}

var metricNames = [4]string{"temperature", "precipitation", "sea_level", "extreme_events"}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	goldenPath := flag.String("golden", "", "optional golden table written by climatectl golden")
	flag.Parse()

	if code := run(*goldenPath); code != 0 {
		os.Exit(code)
	}
}

func run(goldenPath string) int {
	// Pin the clock to the golden timestamp so tables compare cleanly.
	domain.SetClock(clockwork.NewFakeClockAt(golden.FixedTime))
	defer domain.SetClock(nil)

	fmt.Println("=== Climate Projection Validation ===")
	fmt.Println()

	table := golden.Build()

	phases := []*phase{
		validateAnchors(),
		validateMonotonic(table),
		validateRegionalScaling(table),
		validateSeries(),
		validateFormatting(table),
	}

	if goldenPath != "" {
		want, err := loadGolden(goldenPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load golden table: %v\n", err)
			return 1
		}
		phases = append(phases, validateGolden(want, table))
	}

	// ── Report results ──
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Checked: %d projections across %d regions, %d series points\n",
		len(table.Entries), len(domain.Regions()), len(domain.Regions())*len(milestones))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadGolden(path string) (golden.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return golden.Table{}, err
	}
	defer f.Close()
	return golden.Read(f)
}

// ── Phases ──

// validateAnchors checks that every region starts from the scaled baseline in
// 2023 and lands on the scaled target in 2050.
func validateAnchors() *phase {
	p := &phase{name: "Phase 1: Baseline and target anchors"}

	for _, r := range domain.Regions() {
		f := factorValues(domain.Factors(r))
		base := baselineGlobal.values()
		target := targetGlobal.values()

		got, err := parse(domain.Project(domain.BaselineYear, r))
		if err != nil {
			p.errorf("%s %d: %v", r, domain.BaselineYear, err)
			continue
		}
		for i, v := range got.values() {
			if want := domain.RoundOneDecimal(base[i] * f[i]); !floatEq(v, want) {
				p.errorf("%s %d %s: got %.1f, want %.1f", r, domain.BaselineYear, metricNames[i], v, want)
			}
		}

		got, err = parse(domain.Project(domain.TargetYear, r))
		if err != nil {
			p.errorf("%s %d: %v", r, domain.TargetYear, err)
			continue
		}
		for i, v := range got.values() {
			// The scaled target may sit on a rounding boundary, so allow one step.
			if want := target[i] * f[i]; math.Abs(v-want) > 0.05+1e-9 {
				p.errorf("%s %d %s: got %.1f, want %.2f", r, domain.TargetYear, metricNames[i], v, want)
			}
		}
	}
	return p
}

// validateMonotonic checks that no metric decreases from one year to the next.
func validateMonotonic(t golden.Table) *phase {
	p := &phase{name: "Phase 2: Monotonic growth"}

	prev := make(map[domain.Region]metrics)
	for _, e := range t.Entries {
		cur, err := parse(e.Projection)
		if err != nil {
			p.errorf("%s %d: %v", e.Region, e.Year, err)
			continue
		}
		if last, ok := prev[e.Region]; ok {
			lv, cv := last.values(), cur.values()
			for i := range cv {
				if cv[i] < lv[i] {
					p.errorf("%s %d %s: %.1f below previous year's %.1f", e.Region, e.Year, metricNames[i], cv[i], lv[i])
				}
			}
		}
		prev[e.Region] = cur
	}
	return p
}

// validateRegionalScaling checks each regional value against the Global value
// for the same year times the regional factor. Both sides are rounded, so the
// tolerance is half a step on each: 0.05 * (1 + factor).
func validateRegionalScaling(t golden.Table) *phase {
	p := &phase{name: "Phase 3: Regional scaling"}

	global := make(map[int]metrics)
	for _, e := range t.Entries {
		if e.Region != domain.RegionGlobal {
			continue
		}
		m, err := parse(e.Projection)
		if err != nil {
			p.errorf("%s %d: %v", e.Region, e.Year, err)
			continue
		}
		global[e.Year] = m
	}

	for _, e := range t.Entries {
		if e.Region == domain.RegionGlobal {
			continue
		}
		g, ok := global[e.Year]
		if !ok {
			p.errorf("%d: no Global entry", e.Year)
			continue
		}
		m, err := parse(e.Projection)
		if err != nil {
			p.errorf("%s %d: %v", e.Region, e.Year, err)
			continue
		}
		f := factorValues(domain.Factors(e.Region))
		gv, mv := g.values(), m.values()
		for i := range mv {
			tol := 0.05*(1+f[i]) + 1e-9
			if diff := math.Abs(mv[i] - gv[i]*f[i]); diff > tol {
				p.errorf("%s %d %s: %.1f differs from %.1f x %.1f by %.3f", e.Region, e.Year, metricNames[i], mv[i], gv[i], f[i], diff)
			}
		}
	}
	return p
}

// validateSeries checks the milestone series for every region.
func validateSeries() *phase {
	p := &phase{name: "Phase 4: Milestone series"}

	for _, r := range domain.Regions() {
		series := domain.HistoricalSeries(r)
		if len(series) != len(milestones) {
			p.errorf("%s: %d points, want %d", r, len(series), len(milestones))
			continue
		}
		f := domain.Factors(r)
		for i, pt := range series {
			base := milestones[i]
			if pt.Year != base.Year {
				p.errorf("%s point %d: year %d, want %d", r, i, pt.Year, base.Year)
			}
			if !floatEq(pt.Temperature, base.Temperature*f.Temperature) {
				p.errorf("%s %d temperature: %g, want %g", r, pt.Year, pt.Temperature, base.Temperature*f.Temperature)
			}
			if !floatEq(pt.Precipitation, base.Precipitation*f.Precipitation) {
				p.errorf("%s %d precipitation: %g, want %g", r, pt.Year, pt.Precipitation, base.Precipitation*f.Precipitation)
			}
			if !floatEq(pt.SeaLevel, base.SeaLevel*f.SeaLevel) {
				p.errorf("%s %d sea_level: %g, want %g", r, pt.Year, pt.SeaLevel, base.SeaLevel*f.SeaLevel)
			}
		}
	}
	return p
}

// validateFormatting checks that every value carries exactly one decimal and
// that no value renders as negative zero.
func validateFormatting(t golden.Table) *phase {
	p := &phase{name: "Phase 5: One-decimal formatting"}

	for _, e := range t.Entries {
		pr := e.Projection
		for i, s := range [4]string{pr.Temperature, pr.Precipitation, pr.SeaLevel, pr.ExtremeEvents} {
			if !oneDecimal.MatchString(s) {
				p.errorf("%s %d %s: %q is not one-decimal", e.Region, e.Year, metricNames[i], s)
			}
			if s == "-0.0" {
				p.errorf("%s %d %s: negative zero", e.Region, e.Year, metricNames[i])
			}
		}
	}
	return p
}

func validateGolden(want, got golden.Table) *phase {
	p := &phase{name: "Phase 6: Golden table"}

	if len(want.Entries) != len(got.Entries) {
		p.errorf("entry count: golden %d, model %d", len(want.Entries), len(got.Entries))
	}
	if diff := golden.Diff(want, got); diff != "" {
		p.errorf("model differs from golden (-golden +model):\n%s", diff)
	}
	return p
}

// ── Helpers ──

func parse(pr domain.ProjectionResult) (metrics, error) {
	var m metrics
	dst := [4]*float64{&m.temperature, &m.precipitation, &m.seaLevel, &m.extremeEvents}
	for i, s := range [4]string{pr.Temperature, pr.Precipitation, pr.SeaLevel, pr.ExtremeEvents} {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return metrics{}, fmt.Errorf("%s: %w", metricNames[i], err)
		}
		*dst[i] = v
	}
	return m, nil
}

func factorValues(f domain.RegionalFactors) [4]float64 {
	return [4]float64{f.Temperature, f.Precipitation, f.SeaLevel, f.ExtremeEvents}
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
