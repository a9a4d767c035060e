package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// BuildConfig controls the production build invocation.
type BuildConfig struct {
	// Command is the build tool executable, resolved through the package
	// manager's exec wrapper (npx / yarn / pnpm exec).
	Command string   `yaml:"command" toml:"command"`
	Args    []string `yaml:"args" toml:"args"`

	// Jobs is an optional outer sweep: each value runs the full scenario
	// list with JOBS=<n> exported to the build process, and result names
	// prefixed with the job count.
	Jobs []int `yaml:"jobs" toml:"jobs"`

	// Timeout bounds each external process (install, build, rebuild,
	// compress). Zero means unbounded.
	Timeout Duration `yaml:"timeout" toml:"timeout"`
}

// DefaultBuildConfig returns the ember production build defaults.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		Command: "ember",
		Args:    []string{"build", "--environment", "production"},
	}
}

// Duration is a time.Duration that unmarshals from strings like "30m"
// in both YAML and TOML configs.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalText implements encoding.TextUnmarshaler (used by go-toml).
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}
