package measure

import (
	"path/filepath"
	"strings"
)

// MatchGlob matches a glob pattern supporting ** against a
// forward-slash path. Patterns without ** delegate to filepath.Match.
func MatchGlob(pattern, path string) bool {
	if !strings.Contains(pattern, "**") {
		matched, _ := filepath.Match(pattern, path)
		return matched
	}

	idx := strings.Index(pattern, "**")
	prefix := pattern[:idx]
	suffix := strings.TrimLeft(pattern[idx+2:], "/")

	if prefix != "" {
		prefix = strings.TrimRight(prefix, "/")
		if !strings.HasPrefix(path, prefix) {
			return false
		}
		path = strings.TrimPrefix(path, prefix)
		path = strings.TrimLeft(path, "/")
	}

	// ** at the end of the pattern matches everything remaining.
	if suffix == "" {
		return true
	}

	// Match the suffix against every tail of the remaining path:
	// "a/b/c", "b/c", "c".
	parts := strings.Split(path, "/")
	for i := 0; i <= len(parts); i++ {
		if MatchGlob(suffix, strings.Join(parts[i:], "/")) {
			return true
		}
	}
	return false
}

// matchAny reports whether any pattern matches the slash-relative path.
func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if MatchGlob(p, path) {
			return true
		}
	}
	return false
}
