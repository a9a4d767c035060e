package report

import (
	"testing"
	"time"

	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/measure"
)

func TestFamilyKey(t *testing.T) {
	cases := []struct {
		path, want string
	}{
		// Same logical asset under different content hashes.
		{"vendor-abc12345.js", "vendor.js"},
		{"vendor-def67890.js", "vendor.js"},
		{"vendor-d41d8cd98f00b204e9800998ecf8427e.js", "vendor.js"},
		// Compressed variants keep the full extension chain.
		{"vendor-abc12345.js.gz", "vendor.js.gz"},
		{"vendor-abc12345.js.br", "vendor.js.br"},
		// Hash after a dotted name segment.
		{"chunk.143-abc12345.js", "chunk.143.js"},
		// No hash: unchanged.
		{"app.js", "app.js"},
		{"assetMap.json", "assetMap.json"},
		// Short dash segments are names, not hashes.
		{"my-app.js", "my-app.js"},
		// Directory components are dropped.
		{"assets/vendor-abc12345.js", "vendor.js"},
	}
	for _, tc := range cases {
		if got := FamilyKey(tc.path); got != tc.want {
			t.Errorf("FamilyKey(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestFamilyKey_HashVariantsCollapse(t *testing.T) {
	a := FamilyKey("vendor-abc12345.js")
	b := FamilyKey("vendor-def67890.js")
	if a != b {
		t.Fatalf("hash variants differ: %q vs %q", a, b)
	}
}

func TestPercentDelta(t *testing.T) {
	if d := PercentDelta(100, 100); d != 0 {
		t.Errorf("min delta = %v, want 0", d)
	}
	if d := PercentDelta(200, 100); d != 100 {
		t.Errorf("double delta = %v, want 100", d)
	}
	if d := PercentDelta(1034, 1000); d != 3.4 {
		t.Errorf("delta = %v, want 3.4", d)
	}
}

func TestFormatDelta(t *testing.T) {
	if s := FormatDelta(0); s != "+0.00%" {
		t.Errorf("FormatDelta(0) = %q, want +0.00%%", s)
	}
	if s := FormatDelta(100); s != "+100.00%" {
		t.Errorf("FormatDelta(100) = %q, want +100.00%%", s)
	}
	if s := FormatDelta(-2.5); s != "-2.50%" {
		t.Errorf("FormatDelta(-2.5) = %q, want -2.50%%", s)
	}
}

func TestFamilies_DeltasAgainstBest(t *testing.T) {
	results := NewResults()
	results.Add("terser", ScenarioResult{
		Elapsed: 10 * time.Second,
		Sizes: measure.SizeReport{
			"vendor-abc12345.js": 100,
			"app-abc12345.js":    50,
		},
	})
	results.Add("esbuild", ScenarioResult{
		Elapsed: 5 * time.Second,
		Sizes: measure.SizeReport{
			"vendor-def67890.js": 200,
			"app-def67890.js":    50,
		},
	})

	rows := results.Families(nil)
	if len(rows) != 2 {
		t.Fatalf("got %d families, want 2: %v", len(rows), rows)
	}

	// Sorted by family key: app.js before vendor.js.
	app, vendor := rows[0], rows[1]
	if app.Family != "app.js" || vendor.Family != "vendor.js" {
		t.Fatalf("families = %q, %q", app.Family, vendor.Family)
	}

	// Both scenarios tie on app.js.
	for _, cell := range app.Cells {
		if cell.Delta != 0 || !cell.Best {
			t.Errorf("app.js cell %v, want delta 0 and best", cell)
		}
	}

	// vendor.js: terser is the minimum, esbuild is double.
	if c := vendor.Cells[0]; c.Scenario != "terser" || c.Delta != 0 || !c.Best {
		t.Errorf("terser cell = %+v, want delta 0, best", c)
	}
	if c := vendor.Cells[1]; c.Scenario != "esbuild" || c.Delta != 100 || c.Best {
		t.Errorf("esbuild cell = %+v, want delta 100", c)
	}
}

func TestFamilies_ScenarioMissingFamily(t *testing.T) {
	results := NewResults()
	results.Add("a", ScenarioResult{Sizes: measure.SizeReport{"vendor-abc12345.js": 100}})
	results.Add("b", ScenarioResult{Sizes: measure.SizeReport{
		"vendor-def67890.js": 120,
		"extra-def67890.css": 10,
	}})

	rows := results.Families(nil)
	for _, row := range rows {
		if row.Family == "extra.css" && len(row.Cells) != 1 {
			t.Errorf("extra.css should only have one producer: %v", row.Cells)
		}
	}
}

func TestFamilies_HideFilter(t *testing.T) {
	results := NewResults()
	results.Add("a", ScenarioResult{Sizes: measure.SizeReport{
		"vendor-abc12345.js": 100,
		"robots.txt":         10,
		"chunk.143-aabbccdd.js": 5,
	}})

	rows := results.Families([]string{"*.txt", "chunk.*"})
	if len(rows) != 1 || rows[0].Family != "vendor.js" {
		t.Fatalf("rows = %v, want only vendor.js", rows)
	}
}

func TestTimeRow(t *testing.T) {
	results := NewResults()
	results.Add("slow", ScenarioResult{Elapsed: 20 * time.Second})
	results.Add("fast", ScenarioResult{Elapsed: 10 * time.Second})

	cells := results.TimeRow()
	if len(cells) != 2 {
		t.Fatalf("got %d cells, want 2", len(cells))
	}
	// Execution order preserved, fastest is baseline.
	if cells[0].Scenario != "slow" || cells[0].Delta != 100 || cells[0].Best {
		t.Errorf("slow cell = %+v, want delta 100", cells[0])
	}
	if cells[1].Scenario != "fast" || cells[1].Delta != 0 || !cells[1].Best {
		t.Errorf("fast cell = %+v, want delta 0, best", cells[1])
	}
}

func TestResults_InsertionOrder(t *testing.T) {
	results := NewResults()
	for _, name := range []string{"c", "a", "b"} {
		results.Add(name, ScenarioResult{})
	}
	got := results.Names()
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.00 MB"},
	}
	for _, tc := range cases {
		if got := FormatBytes(tc.in); got != tc.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
