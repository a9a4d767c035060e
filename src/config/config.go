package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Default config file names, tried in order when --config is not given.
var defaultConfigFiles = []string{".scenario-tester.yml", ".scenario-tester.yaml", ".scenario-tester.toml"}

// Config is the top-level benchmark configuration.
type Config struct {
	Project   string        `yaml:"project" toml:"project"`
	Scenarios []Scenario    `yaml:"scenarios" toml:"scenarios"`
	Build     BuildConfig   `yaml:"build" toml:"build"`
	Install   InstallConfig `yaml:"install" toml:"install"`
	Patch     PatchConfig   `yaml:"patch" toml:"patch"`
	Measure   MeasureConfig `yaml:"measure" toml:"measure"`
	Report    ReportConfig  `yaml:"report" toml:"report"`
}

// Load reads configuration from a YAML or TOML file, chosen by extension.
// If path is empty, the default file names are tried in order.
// Returns defaults if no config file exists.
func Load(path string) (*Config, error) {
	if path == "" {
		for _, name := range defaultConfigFiles {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
		if path == "" {
			return defaults(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults(), nil
		}
		return nil, err
	}

	cfg := defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Project: ".",
		Build:   DefaultBuildConfig(),
		Install: DefaultInstallConfig(),
		Patch:   DefaultPatchConfig(),
		Measure: DefaultMeasureConfig(),
		Report:  DefaultReportConfig(),
	}
}

// KnownMinifiers returns the union of the built-in minifier candidate set
// and every minifier named by a configured scenario. Preparing a scenario
// removes all of these from the manifest before adding its own, which is
// what keeps at most one candidate installed during any build.
func (c *Config) KnownMinifiers() []string {
	seen := make(map[string]bool, len(c.Install.KnownMinifiers))
	var names []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}
	for _, name := range c.Install.KnownMinifiers {
		add(name)
	}
	for _, sc := range c.Scenarios {
		name, _ := sc.MinifierSpec()
		add(name)
	}
	return names
}
