// Package report groups scenario measurements by asset family and
// computes percent deltas against the best-performing scenario.
package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/measure"
)

// ScenarioResult holds one scenario's build time and asset sizes.
type ScenarioResult struct {
	Elapsed time.Duration
	Sizes   measure.SizeReport
}

// Results is an insertion-ordered collection of scenario results;
// insertion order is execution order and drives column order.
type Results struct {
	order  []string
	byName map[string]ScenarioResult
}

// NewResults creates an empty result set.
func NewResults() *Results {
	return &Results{byName: make(map[string]ScenarioResult)}
}

// Add records a scenario result under its display name. Failed
// scenarios are never added, so absence from Results means omission
// from the table.
func (r *Results) Add(name string, res ScenarioResult) {
	if _, ok := r.byName[name]; !ok {
		r.order = append(r.order, name)
	}
	r.byName[name] = res
}

// Names returns the recorded scenario names in execution order.
func (r *Results) Names() []string { return r.order }

// Get returns the result for a scenario name.
func (r *Results) Get(name string) (ScenarioResult, bool) {
	res, ok := r.byName[name]
	return res, ok
}

// Len returns the number of recorded scenarios.
func (r *Results) Len() int { return len(r.order) }

// Cell is one scenario's measurement of one asset family.
type Cell struct {
	Scenario string
	Size     int64
	Delta    float64 // percent vs the family minimum, rounded to 2 places
	Best     bool
}

// FamilyRow compares one asset family across all scenarios that
// produced it.
type FamilyRow struct {
	Family string
	Cells  []Cell
}

// Families groups all scenario sizes by asset family, drops families
// matching the hide patterns, and computes per-scenario deltas against
// the smallest producer. Rows are sorted by family key; cells follow
// execution order.
func (r *Results) Families(hide []string) []FamilyRow {
	sizes := make(map[string]map[string]int64) // family -> scenario -> size
	for _, name := range r.order {
		for path, size := range r.byName[name].Sizes {
			fam := FamilyKey(path)
			if matchAny(hide, fam) {
				continue
			}
			if sizes[fam] == nil {
				sizes[fam] = make(map[string]int64)
			}
			// A family can collapse several files of one scenario
			// (rare, e.g. duplicate hashes); sum them.
			sizes[fam][name] += size
		}
	}

	families := make([]string, 0, len(sizes))
	for fam := range sizes {
		families = append(families, fam)
	}
	sort.Strings(families)

	rows := make([]FamilyRow, 0, len(families))
	for _, fam := range families {
		perScenario := sizes[fam]

		var min int64 = -1
		for _, size := range perScenario {
			if min < 0 || size < min {
				min = size
			}
		}

		row := FamilyRow{Family: fam}
		for _, name := range r.order {
			size, ok := perScenario[name]
			if !ok {
				continue
			}
			row.Cells = append(row.Cells, Cell{
				Scenario: name,
				Size:     size,
				Delta:    PercentDelta(float64(size), float64(min)),
				Best:     size == min,
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// TimeRow compares total build time across scenarios, using the
// fastest as baseline.
func (r *Results) TimeRow() []Cell {
	var min time.Duration = -1
	for _, name := range r.order {
		if e := r.byName[name].Elapsed; min < 0 || e < min {
			min = e
		}
	}

	cells := make([]Cell, 0, len(r.order))
	for _, name := range r.order {
		e := r.byName[name].Elapsed
		cells = append(cells, Cell{
			Scenario: name,
			Size:     e.Milliseconds(),
			Delta:    PercentDelta(float64(e), float64(min)),
			Best:     e == min,
		})
	}
	return cells
}

// PercentDelta returns (value/min - 1) * 100 rounded to two decimal
// places. The minimum itself yields exactly 0.
func PercentDelta(value, min float64) float64 {
	if min <= 0 {
		return 0
	}
	return math.Round((value/min-1)*100*100) / 100
}

// FormatDelta renders a delta with an explicit sign: "+0.00%" for the
// baseline, "+100.00%" for double the minimum.
func FormatDelta(delta float64) string {
	return fmt.Sprintf("%+.2f%%", delta)
}

// FormatBytes renders a byte count for the table.
func FormatBytes(b int64) string {
	switch {
	case b >= 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(b)/(1024*1024))
	case b >= 1024:
		return fmt.Sprintf("%.1f KB", float64(b)/1024)
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if measure.MatchGlob(p, name) {
			return true
		}
	}
	return false
}
