package report

import (
	"time"

	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/output"
)

// Render writes the comparison table inside a section frame: one block
// per asset family plus a build-time block, each listing every
// recorded scenario with its measurement and delta against the best.
func Render(sec *output.Section, r *Results, hide []string, color bool) {
	if r.Len() == 0 {
		sec.Row("no scenarios completed")
		return
	}

	sec.Row("")
	sec.Row("%s", output.Colorize("build time", output.ColorBold, color))
	for _, cell := range r.TimeRow() {
		sec.Row("  %-28s%12s  %s",
			cell.Scenario,
			output.FormatElapsed(time.Duration(cell.Size)*time.Millisecond),
			deltaLabel(cell, color))
	}

	for _, row := range r.Families(hide) {
		sec.Row("")
		sec.Row("%s", output.Colorize(row.Family, output.ColorBold, color))
		for _, cell := range row.Cells {
			sec.Row("  %-28s%12s  %s",
				cell.Scenario,
				FormatBytes(cell.Size),
				deltaLabel(cell, color))
		}
	}
	sec.Row("")
}

// deltaLabel renders the signed delta, dimming the baseline and
// coloring regressions red.
func deltaLabel(cell Cell, color bool) string {
	s := FormatDelta(cell.Delta)
	if cell.Best {
		return output.Colorize(s, output.ColorGray, color)
	}
	return output.Colorize(s, output.ColorRed, color)
}
