package config

// Compression modes for the post-build step.
const (
	CompressBuiltin = "builtin" // in-process gzip + brotli siblings
	CompressCommand = "command" // external command run in the output dir
	CompressNone    = "none"
)

// MeasureConfig controls output enumeration and compression.
type MeasureConfig struct {
	// Dir is the build output directory, relative to the project.
	Dir string `yaml:"dir" toml:"dir"`

	// Patterns are **-aware globs matched against paths relative to Dir.
	// Compressed .gz/.br siblings of matched files are measured too.
	Patterns []string `yaml:"patterns" toml:"patterns"`

	Compress string `yaml:"compress" toml:"compress"`

	// CompressCommand is run through `sh -c` in Dir when Compress is
	// "command". It must only add sibling files, never alter originals.
	CompressCommand string `yaml:"compress_command" toml:"compress_command"`
}

// DefaultMeasureConfig measures ember's fingerprinted assets with
// built-in compression.
func DefaultMeasureConfig() MeasureConfig {
	return MeasureConfig{
		Dir:      "dist/assets",
		Patterns: []string{"*.js", "*.css"},
		Compress: CompressBuiltin,
	}
}

// ReportConfig controls table presentation only; it never affects
// what gets measured or recorded.
type ReportConfig struct {
	// HideChunks suppresses secondary chunk families (chunk.*) from the
	// printed table.
	HideChunks bool `yaml:"hide_chunks" toml:"hide_chunks"`

	// Hide is a glob deny-list matched against asset family keys.
	Hide []string `yaml:"hide" toml:"hide"`
}

// DefaultReportConfig hides the noisy non-bundle artifacts ember emits
// next to its real assets.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		Hide: []string{"*.txt", "assetMap.json"},
	}
}
