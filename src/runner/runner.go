// Package runner drives the scenario lifecycle: mutate the manifest and
// build config, install, build with timing, measure, record, and always
// clean up. Scenarios run strictly one at a time — they all share the
// project directory on disk.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/config"
	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/manifest"
	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/measure"
	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/patcher"
	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/project"
	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/report"
)

// Phase names a step of the scenario lifecycle, used in process errors
// and verbose logging.
type Phase string

const (
	PhasePrepare  Phase = "prepare"
	PhaseInstall  Phase = "install"
	PhaseRebuild  Phase = "rebuild"
	PhaseBuild    Phase = "build"
	PhaseCompress Phase = "compress"
	PhaseMeasure  Phase = "measure"
	PhaseClean    Phase = "clean"
)

// MeasurementError means a reported-successful build produced no
// measurable output. It fails the scenario, not the run.
type MeasurementError struct {
	Dir string
}

func (e *MeasurementError) Error() string {
	return fmt.Sprintf("no output files found under %s after a successful build", e.Dir)
}

// Runner executes every configured scenario against one project.
type Runner struct {
	Config     *config.Config
	ProjectDir string
	Commands   project.Commands
	Verbose    bool
	Stderr     io.Writer

	patch *patcher.Patcher
}

// New creates a runner for the given project directory.
func New(cfg *config.Config, projectDir string, cmds project.Commands) *Runner {
	return &Runner{
		Config:     cfg,
		ProjectDir: projectDir,
		Commands:   cmds,
		Stderr:     os.Stderr,
		patch:      patcher.New(cfg.Patch.Constructor),
	}
}

// RunAll executes the full scenario list, once per sweep value when a
// jobs sweep is configured. A failed scenario is logged and skipped;
// the run continues so earlier results still get printed. Patch errors
// abort the run — the config shape is static, every later scenario
// would fail the same way.
func (r *Runner) RunAll(ctx context.Context) (*report.Results, error) {
	results := report.NewResults()

	sweep := r.Config.Build.Jobs
	if len(sweep) == 0 {
		sweep = []int{0} // no sweep: single pass, JOBS unset
	}

	for _, jobs := range sweep {
		for _, sc := range r.Config.Scenarios {
			if err := ctx.Err(); err != nil {
				return results, err
			}

			name := sc.Name
			if jobs > 0 {
				name = fmt.Sprintf("jobs=%d %s", jobs, sc.Name)
			}

			res, err := r.runScenario(ctx, sc, jobs)
			if err != nil {
				var pe *patcher.PatchError
				if errors.As(err, &pe) {
					return results, fmt.Errorf("scenario %q: %w", name, err)
				}
				fmt.Fprintf(r.Stderr, "scenario %q failed: %v\n", name, err)
				continue
			}
			results.Add(name, res)
		}
	}

	return results, nil
}

// runScenario walks one scenario through prepare → install → build →
// measure. Cleanup always runs, also when any phase failed, so the next
// scenario starts from a clean config file.
func (r *Runner) runScenario(ctx context.Context, sc config.Scenario, jobs int) (res report.ScenarioResult, err error) {
	man, err := r.prepare(sc)
	if err != nil {
		return res, err
	}
	defer func() {
		if cerr := r.cleanup(sc); cerr != nil {
			fmt.Fprintf(r.Stderr, "scenario %q: cleanup: %v\n", sc.Name, cerr)
			if err == nil {
				err = cerr
			}
		}
	}()

	if err := r.exec(ctx, PhaseInstall, r.ProjectDir, nil, r.Commands.Install()); err != nil {
		return res, err
	}

	// Native modules need a rebuild after a fresh install, but only
	// when actually present in the manifest.
	for _, pkg := range r.Config.Install.Rebuild {
		if !man.HasDependency(pkg) {
			continue
		}
		if err := r.exec(ctx, PhaseRebuild, r.ProjectDir, nil, r.Commands.Rebuild(pkg)); err != nil {
			return res, err
		}
	}

	env := map[string]string{"EMBER_ENV": "production"}
	if jobs > 0 {
		env["JOBS"] = strconv.Itoa(jobs)
	}

	start := time.Now()
	buildArgv := r.Commands.Build(r.Config.Build.Command, r.Config.Build.Args)
	if err := r.exec(ctx, PhaseBuild, r.ProjectDir, env, buildArgv); err != nil {
		return res, err
	}
	elapsed := time.Since(start)

	sizes, err := r.measureOutput(ctx)
	if err != nil {
		return res, err
	}

	return report.ScenarioResult{Elapsed: elapsed, Sizes: sizes}, nil
}

// prepare enforces the at-most-one-minifier invariant on the manifest,
// installs the scenario's minifier, and applies its config overrides.
// The patched config is written in one WriteFile — a patch failure
// leaves the file exactly as it was.
func (r *Runner) prepare(sc config.Scenario) (*manifest.Manifest, error) {
	man, err := manifest.Load(filepath.Join(r.ProjectDir, "package.json"))
	if err != nil {
		return nil, err
	}

	man.RemoveDependencies(r.Config.KnownMinifiers())
	if name, spec := sc.MinifierSpec(); name != "" {
		man.AddDevDependency(name, spec)
	}
	if err := man.Save(); err != nil {
		return nil, err
	}

	if len(sc.Config) > 0 {
		configPath := filepath.Join(r.ProjectDir, r.Config.Patch.File)
		src, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("reading build config: %w", err)
		}
		patched, err := r.patch.ApplyOverrides(src, sc.Config)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(configPath, patched, 0o644); err != nil {
			return nil, fmt.Errorf("writing build config: %w", err)
		}
	}

	return man, nil
}

// cleanup resets the scenario's override keys in the config file to
// empty objects, guaranteeing no cross-scenario contamination.
func (r *Runner) cleanup(sc config.Scenario) error {
	keys := sc.OverrideKeys()
	if len(keys) == 0 {
		return nil
	}

	configPath := filepath.Join(r.ProjectDir, r.Config.Patch.File)
	src, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading build config: %w", err)
	}
	cleared, err := r.patch.ClearOverrides(src, keys)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, cleared, 0o644); err != nil {
		return fmt.Errorf("writing build config: %w", err)
	}
	return nil
}

// measureOutput runs the configured compression step and enumerates
// output sizes. An empty report after a successful build means the
// build lied about succeeding.
func (r *Runner) measureOutput(ctx context.Context) (measure.SizeReport, error) {
	outDir := filepath.Join(r.ProjectDir, r.Config.Measure.Dir)

	switch r.Config.Measure.Compress {
	case config.CompressBuiltin:
		if err := measure.Compress(outDir, r.Config.Measure.Patterns); err != nil {
			return nil, err
		}
	case config.CompressCommand:
		argv := []string{"sh", "-c", r.Config.Measure.CompressCommand}
		if err := r.exec(ctx, PhaseCompress, outDir, nil, argv); err != nil {
			return nil, err
		}
	}

	sizes, err := measure.Measure(outDir, r.Config.Measure.Patterns)
	if err != nil {
		return nil, err
	}
	if len(sizes) == 0 {
		return nil, &MeasurementError{Dir: outDir}
	}
	return sizes, nil
}
