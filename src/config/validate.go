package config

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

var managers = map[string]bool{"": true, "npm": true, "yarn": true, "pnpm": true}

// Validate checks the loaded configuration before any disk mutation
// happens. All errors are fatal to the run.
func (c *Config) Validate() error {
	if len(c.Scenarios) == 0 {
		return fmt.Errorf("config: no scenarios defined")
	}

	seen := make(map[string]bool, len(c.Scenarios))
	for i, sc := range c.Scenarios {
		if sc.Name == "" {
			return fmt.Errorf("config: scenario %d has no name", i+1)
		}
		if seen[sc.Name] {
			return fmt.Errorf("config: duplicate scenario name %q", sc.Name)
		}
		seen[sc.Name] = true

		if _, spec := sc.MinifierSpec(); spec != "" {
			if _, err := semver.NewConstraint(spec); err != nil {
				return fmt.Errorf("config: scenario %q: invalid minifier version range %q: %w", sc.Name, spec, err)
			}
		}
	}

	if !managers[c.Install.Manager] {
		return fmt.Errorf("config: unknown package manager %q (npm, yarn, pnpm)", c.Install.Manager)
	}

	switch c.Measure.Compress {
	case CompressBuiltin, CompressNone:
	case CompressCommand:
		if c.Measure.CompressCommand == "" {
			return fmt.Errorf("config: measure.compress is %q but no compress_command given", CompressCommand)
		}
	default:
		return fmt.Errorf("config: unknown compress mode %q (builtin, command, none)", c.Measure.Compress)
	}

	for _, n := range c.Build.Jobs {
		if n < 1 {
			return fmt.Errorf("config: build.jobs values must be >= 1, got %d", n)
		}
	}

	if c.Build.Command == "" {
		return fmt.Errorf("config: build.command must not be empty")
	}
	if c.Patch.File == "" || c.Patch.Constructor == "" {
		return fmt.Errorf("config: patch.file and patch.constructor must not be empty")
	}

	return nil
}
