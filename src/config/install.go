package config

// InstallConfig controls dependency installation.
type InstallConfig struct {
	// Manager forces a package manager (npm, yarn, pnpm). Empty means
	// auto-detect from the project's lockfile.
	Manager string `yaml:"manager" toml:"manager"`

	// Rebuild lists packages that need a native-module rebuild after a
	// fresh install, run only when the package is actually present in
	// the manifest.
	Rebuild []string `yaml:"rebuild" toml:"rebuild"`

	// KnownMinifiers is the candidate set cleared from the manifest
	// before each scenario. Scenario minifiers are merged in at runtime.
	KnownMinifiers []string `yaml:"known_minifiers" toml:"known_minifiers"`
}

// DefaultInstallConfig returns auto-detection with the ember minifier
// addons commonly swapped in benchmarks.
func DefaultInstallConfig() InstallConfig {
	return InstallConfig{
		Rebuild: []string{"node-sass"},
		KnownMinifiers: []string{
			"ember-cli-terser",
			"ember-cli-uglify",
			"ember-cli-esbuild-minifier",
		},
	}
}

// PatchConfig identifies the build-config file and the constructor call
// whose options object receives scenario overrides.
type PatchConfig struct {
	File        string `yaml:"file" toml:"file"`
	Constructor string `yaml:"constructor" toml:"constructor"`
}

// DefaultPatchConfig targets the standard ember-cli build file.
func DefaultPatchConfig() PatchConfig {
	return PatchConfig{
		File:        "ember-cli-build.js",
		Constructor: "EmberApp",
	}
}
