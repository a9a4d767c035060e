package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ProcessError reports an external process that exited non-zero or was
// killed by the run timeout. It is scoped to the current scenario.
type ProcessError struct {
	Phase    Phase
	Argv     []string
	ExitCode int
	TimedOut bool
}

func (e *ProcessError) Error() string {
	cmd := strings.Join(e.Argv, " ")
	if e.TimedOut {
		return fmt.Sprintf("%s: `%s` timed out", e.Phase, cmd)
	}
	return fmt.Sprintf("%s: `%s` exited with code %d", e.Phase, cmd, e.ExitCode)
}

// exec runs an external process in dir with extra environment
// variables, bounded by the configured timeout. Output streams to
// stderr when verbose; otherwise it is captured and replayed only on
// failure.
func (r *Runner) exec(ctx context.Context, phase Phase, dir string, env map[string]string, argv []string) error {
	if timeout := r.Config.Build.Timeout.Std(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var buf bytes.Buffer
	if r.Verbose {
		fmt.Fprintf(r.Stderr, "exec: %s\n", strings.Join(argv, " "))
		cmd.Stdout = r.Stderr
		cmd.Stderr = r.Stderr
	} else {
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if !r.Verbose && buf.Len() > 0 {
		r.Stderr.Write(buf.Bytes())
	}

	perr := &ProcessError{
		Phase:    phase,
		Argv:     argv,
		ExitCode: -1,
		TimedOut: errors.Is(ctx.Err(), context.DeadlineExceeded),
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		perr.ExitCode = exitErr.ExitCode()
	}
	return perr
}
