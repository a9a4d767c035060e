package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/config"
	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/gitver"
	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/output"
	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/project"
	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/report"
	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/runner"
	"github.com/spf13/cobra"
)

var (
	runJobs    []int
	runManager string
	runTimeout time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run [project-dir]",
	Short: "Run all configured scenarios",
	Long: `Run every configured scenario against the project, one at a time:
mutate package.json and the build config, reinstall dependencies,
build for production with timing, measure asset sizes, then print a
comparison table with deltas against the best scenario.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScenarios,
}

func init() {
	runCmd.Flags().IntSliceVar(&runJobs, "jobs", nil, "job-count sweep, overrides build.jobs (e.g. 1,4)")
	runCmd.Flags().StringVar(&runManager, "manager", "", "force package manager: npm, yarn, or pnpm")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "per-process timeout, overrides build.timeout")

	rootCmd.AddCommand(runCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	// CLI flags win over config.
	if len(runJobs) > 0 {
		cfg.Build.Jobs = runJobs
	}
	if runManager != "" {
		cfg.Install.Manager = runManager
	}
	if runTimeout > 0 {
		cfg.Build.Timeout = config.Duration(runTimeout)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	projectDir := cfg.Project
	if len(args) > 0 {
		projectDir = args[0]
	}
	if _, err := os.Stat(projectDir); err != nil {
		return fmt.Errorf("project directory: %w", err)
	}

	manager, err := project.Detect(projectDir, cfg.Install.Manager)
	if err != nil {
		return err
	}

	git, _ := gitver.Detect(projectDir)

	w := os.Stdout
	color := output.UseColor()

	sweeps := 1
	if len(cfg.Build.Jobs) > 0 {
		sweeps = len(cfg.Build.Jobs)
	}
	output.ContextBlock(w, []output.KV{
		{Key: "project", Value: projectDir},
		{Key: "git", Value: git.Label()},
		{Key: "manager", Value: string(manager)},
		{Key: "scenarios", Value: fmt.Sprintf("%d × %d sweep", len(cfg.Scenarios), sweeps)},
	})

	r := runner.New(cfg, projectDir, manager)
	r.Verbose = verbose

	start := time.Now()
	results, runErr := r.RunAll(context.Background())
	elapsed := time.Since(start)

	// Partial results still get printed when a later scenario failed.
	output.SectionStart(w, "bst_results", "Results")
	sec := output.NewSection(w, "Results", elapsed, color)
	hide := cfg.Report.Hide
	if cfg.Report.HideChunks {
		hide = append(hide, "chunk.*")
	}
	report.Render(sec, results, hide, color)

	total := len(cfg.Scenarios) * sweeps
	status := "success"
	if results.Len() < total {
		status = "failed"
	}
	sec.Separator()
	sec.Row("%s %d/%d scenarios completed", output.StatusIcon(status, color), results.Len(), total)
	sec.Close()
	output.SectionEnd(w, "bst_results")

	if runErr != nil {
		return runErr
	}
	if results.Len() == 0 {
		return fmt.Errorf("all %d scenarios failed", len(cfg.Scenarios)*sweeps)
	}
	return nil
}
