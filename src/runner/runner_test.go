package runner

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/config"
	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/manifest"
)

const testBuildConfig = `'use strict';

const EmberApp = require('ember-cli/lib/broccoli/ember-app');

module.exports = function (defaults) {
  let app = new EmberApp(defaults, {});

  return app.toTree();
};
`

const testPackageJSON = `{
  "name": "bench-app",
  "dependencies": {
    "node-sass": "^7.0.0"
  },
  "devDependencies": {
    "ember-cli": "~4.8.0",
    "ember-cli-uglify": "^3.0.0"
  }
}
`

// stubCommands runs every phase through sh so tests never need a real
// package manager.
type stubCommands struct {
	install string
	build   string
	rebuild string
}

func (s stubCommands) Install() []string { return []string{"sh", "-c", s.install} }

func (s stubCommands) Build(string, []string) []string { return []string{"sh", "-c", s.build} }

func (s stubCommands) Rebuild(pkg string) []string {
	return []string{"sh", "-c", strings.ReplaceAll(s.rebuild, "{pkg}", pkg)}
}

func newTestProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(testPackageJSON), 0o644); err != nil {
		t.Fatalf("write package.json: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ember-cli-build.js"), []byte(testBuildConfig), 0o644); err != nil {
		t.Fatalf("write build config: %v", err)
	}
	return dir
}

func newTestConfig(scenarios ...config.Scenario) *config.Config {
	cfg := &config.Config{
		Scenarios: scenarios,
		Build:     config.DefaultBuildConfig(),
		Install:   config.DefaultInstallConfig(),
		Patch:     config.DefaultPatchConfig(),
		Measure:   config.DefaultMeasureConfig(),
		Report:    config.DefaultReportConfig(),
	}
	cfg.Measure.Compress = config.CompressNone
	return cfg
}

func newTestRunner(cfg *config.Config, dir string, cmds stubCommands) *Runner {
	r := New(cfg, dir, cmds)
	r.Stderr = io.Discard
	return r
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestRunAll_EndToEnd(t *testing.T) {
	dir := newTestProject(t)
	cfg := newTestConfig(config.Scenario{
		Name:     "Default Terser",
		Minifier: "ember-cli-terser",
		Config:   map[string]any{"ember-cli-terser": map[string]any{}},
	})

	cmds := stubCommands{
		install: ": > .installed",
		build: "mkdir -p dist/assets" +
			" && head -c 100 /dev/zero > dist/assets/vendor-abc12345.js" +
			" && printf '%s' \"${EMBER_ENV:-}\" > .ember-env",
		rebuild: ": > .rebuilt-{pkg}",
	}

	results, err := newTestRunner(cfg, dir, cmds).RunAll(context.Background())
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}

	res, ok := results.Get("Default Terser")
	if !ok {
		t.Fatalf("no result recorded: %v", results.Names())
	}
	if res.Sizes["vendor-abc12345.js"] != 100 {
		t.Errorf("sizes = %v, want vendor at 100 bytes", res.Sizes)
	}
	if res.Elapsed <= 0 {
		t.Errorf("elapsed = %v, want > 0", res.Elapsed)
	}

	// Install ran, build saw the production env.
	if _, err := os.Stat(filepath.Join(dir, ".installed")); err != nil {
		t.Error("install never ran")
	}
	if got := readFile(t, filepath.Join(dir, ".ember-env")); got != "production" {
		t.Errorf("EMBER_ENV = %q, want production", got)
	}

	// node-sass is present, so the native rebuild hook ran.
	if _, err := os.Stat(filepath.Join(dir, ".rebuilt-node-sass")); err != nil {
		t.Error("rebuild hook never ran for node-sass")
	}

	// Manifest: terser added under devDependencies, prior minifier gone.
	man, err := manifest.Load(filepath.Join(dir, "package.json"))
	if err != nil {
		t.Fatalf("reload manifest: %v", err)
	}
	if got := man.DevDependencies()["ember-cli-terser"]; got != "*" {
		t.Errorf("ember-cli-terser = %q, want *", got)
	}
	if man.HasDependency("ember-cli-uglify") {
		t.Error("previous minifier still in manifest")
	}

	// Config file cleaned: the override key is present but reset to {}.
	buildConfig := readFile(t, filepath.Join(dir, "ember-cli-build.js"))
	if !strings.Contains(buildConfig, "'ember-cli-terser': {}") {
		t.Errorf("config missing reset override property:\n%s", buildConfig)
	}
}

func TestRunAll_BuildFailureSkipsRecordingAndRevertsConfig(t *testing.T) {
	dir := newTestProject(t)
	cfg := newTestConfig(config.Scenario{
		Name:     "broken",
		Minifier: "ember-cli-terser",
		Config:   map[string]any{"ember-cli-terser": map[string]any{"enabled": false}},
	})

	cmds := stubCommands{install: "true", build: "exit 1", rebuild: "true"}

	results, err := newTestRunner(cfg, dir, cmds).RunAll(context.Background())
	if err != nil {
		t.Fatalf("RunAll: %v (scenario failures must not fail the run)", err)
	}
	if results.Len() != 0 {
		t.Fatalf("results = %v, want none recorded", results.Names())
	}

	// Cleanup still ran: the non-empty override is gone.
	buildConfig := readFile(t, filepath.Join(dir, "ember-cli-build.js"))
	if strings.Contains(buildConfig, "enabled") {
		t.Errorf("override not reverted after failure:\n%s", buildConfig)
	}
	if !strings.Contains(buildConfig, "'ember-cli-terser': {}") {
		t.Errorf("override key not reset to {}:\n%s", buildConfig)
	}
}

func TestRunAll_ContinuesPastFailedScenario(t *testing.T) {
	dir := newTestProject(t)
	cfg := newTestConfig(
		config.Scenario{Name: "first", Minifier: "ember-cli-terser"},
		config.Scenario{Name: "second"},
	)

	// Fail exactly once, then build normally.
	cmds := stubCommands{
		install: "true",
		build: "if [ ! -f .failed-once ]; then : > .failed-once; exit 1; fi;" +
			" mkdir -p dist/assets && head -c 50 /dev/zero > dist/assets/app-abc12345.js",
		rebuild: "true",
	}

	results, err := newTestRunner(cfg, dir, cmds).RunAll(context.Background())
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}

	if _, ok := results.Get("first"); ok {
		t.Error("failed scenario was recorded")
	}
	if _, ok := results.Get("second"); !ok {
		t.Errorf("surviving scenario missing: %v", results.Names())
	}
}

func TestRunAll_EmptyOutputIsMeasurementError(t *testing.T) {
	dir := newTestProject(t)
	cfg := newTestConfig(config.Scenario{Name: "no-output"})

	// Build "succeeds" but writes nothing.
	cmds := stubCommands{install: "true", build: "true", rebuild: "true"}

	results, err := newTestRunner(cfg, dir, cmds).RunAll(context.Background())
	if err != nil {
		t.Fatalf("RunAll: %v (measurement errors are scenario-scoped)", err)
	}
	if results.Len() != 0 {
		t.Fatalf("results = %v, want none", results.Names())
	}
}

func TestRunAll_JobsSweepPrefixesNames(t *testing.T) {
	dir := newTestProject(t)
	cfg := newTestConfig(config.Scenario{Name: "default"})
	cfg.Build.Jobs = []int{1, 4}

	cmds := stubCommands{
		install: "true",
		build: "mkdir -p dist/assets" +
			" && head -c 10 /dev/zero > dist/assets/app-abc12345.js" +
			" && printf '%s' \"${JOBS:-}\" > .jobs",
		rebuild: "true",
	}

	results, err := newTestRunner(cfg, dir, cmds).RunAll(context.Background())
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}

	want := []string{"jobs=1 default", "jobs=4 default"}
	got := results.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
	}

	// The last pass exported JOBS=4.
	if j := readFile(t, filepath.Join(dir, ".jobs")); j != "4" {
		t.Errorf("JOBS = %q, want 4", j)
	}
}

func TestRunAll_BuiltinCompression(t *testing.T) {
	dir := newTestProject(t)
	cfg := newTestConfig(config.Scenario{Name: "compressed"})
	cfg.Measure.Compress = config.CompressBuiltin

	cmds := stubCommands{
		install: "true",
		build: "mkdir -p dist/assets" +
			" && head -c 2048 /dev/zero > dist/assets/vendor-abc12345.js",
		rebuild: "true",
	}

	results, err := newTestRunner(cfg, dir, cmds).RunAll(context.Background())
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}

	res, ok := results.Get("compressed")
	if !ok {
		t.Fatal("no result recorded")
	}
	for _, name := range []string{"vendor-abc12345.js", "vendor-abc12345.js.gz", "vendor-abc12345.js.br"} {
		if _, ok := res.Sizes[name]; !ok {
			t.Errorf("sizes missing %s: %v", name, res.Sizes)
		}
	}
	// /dev/zero compresses; the siblings must be real compressed files.
	if res.Sizes["vendor-abc12345.js.gz"] >= res.Sizes["vendor-abc12345.js"] {
		t.Errorf("gzip sibling not smaller: %v", res.Sizes)
	}
}

func TestRunAll_PatchErrorIsFatal(t *testing.T) {
	dir := newTestProject(t)
	// Break the anchor: no EmberApp call at all.
	if err := os.WriteFile(filepath.Join(dir, "ember-cli-build.js"), []byte("module.exports = {};\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := newTestConfig(
		config.Scenario{Name: "a", Config: map[string]any{"x": 1}},
		config.Scenario{Name: "b", Config: map[string]any{"x": 1}},
	)
	cmds := stubCommands{install: "true", build: "true", rebuild: "true"}

	_, err := newTestRunner(cfg, dir, cmds).RunAll(context.Background())
	if err == nil {
		t.Fatal("expected fatal error for unpatchable config")
	}
	if !strings.Contains(err.Error(), "patch") {
		t.Fatalf("err = %v, want patch error", err)
	}
}
