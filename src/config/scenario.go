package config

import (
	"sort"
	"strings"
)

// Scenario is one named combination of a minifier choice and build-config
// overrides to benchmark. Scenarios are immutable once loaded.
type Scenario struct {
	Name string `yaml:"name" toml:"name"`

	// Minifier is the package to install for this scenario, optionally
	// pinned as "name@range" (e.g. "ember-cli-terser@^4.0.0"). Empty
	// means the scenario builds with no minifier installed.
	Minifier string `yaml:"minifier" toml:"minifier"`

	// Config maps build-config option keys to JSON-serializable values
	// injected into the target constructor call.
	Config map[string]any `yaml:"config" toml:"config"`
}

// MinifierSpec splits the minifier field into package name and version
// range. The range is empty when no pin is given; scoped packages
// (@scope/name) keep their leading @.
func (s Scenario) MinifierSpec() (name, spec string) {
	m := s.Minifier
	if m == "" {
		return "", ""
	}
	// Search past index 0 so "@scope/name" is not split at its scope.
	if i := strings.LastIndex(m[1:], "@"); i >= 0 {
		return m[:i+1], m[i+2:]
	}
	return m, ""
}

// OverrideKeys returns the option keys this scenario sets, in sorted order.
func (s Scenario) OverrideKeys() []string {
	keys := make([]string, 0, len(s.Config))
	for k := range s.Config {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
