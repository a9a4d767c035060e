// Package measure enumerates build output files by glob pattern and
// records their byte sizes, with optional in-process gzip/brotli
// post-processing.
package measure

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// SizeReport maps a slash-relative output file path to its byte size.
type SizeReport map[string]int64

// Total returns the summed size of all files in the report.
func (r SizeReport) Total() int64 {
	var total int64
	for _, size := range r {
		total += size
	}
	return total
}

// Measure walks dir and stats every file matching one of the patterns
// or a compressed .gz/.br sibling of one. Paths in the report are
// relative to dir. Zero matches yields an empty report, not an error —
// not every scenario produces every expected extension. A missing dir
// also yields an empty report; the caller decides whether that means a
// failed build.
func Measure(dir string, patterns []string) (SizeReport, error) {
	report := make(SizeReport)

	expanded := expandCompressed(patterns)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchAny(expanded, rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		report[rel] = info.Size()
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return report, nil
		}
		return nil, fmt.Errorf("measuring %s: %w", dir, err)
	}

	return report, nil
}

// expandCompressed adds the .gz and .br sibling patterns for every
// configured pattern, so compressed variants are measured alongside
// their originals.
func expandCompressed(patterns []string) []string {
	out := make([]string, 0, len(patterns)*3)
	for _, p := range patterns {
		out = append(out, p, p+".gz", p+".br")
	}
	return out
}
