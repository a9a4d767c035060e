// Package manifest reads and mutates a project's package.json dependency
// lists while preserving every field it does not touch.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	depsKey    = "dependencies"
	devDepsKey = "devDependencies"

	// WildcardVersion marks "latest" for packages added without a pin.
	WildcardVersion = "*"
)

// Manifest is a loaded package.json. The root is kept as raw JSON so
// fields this tool never looks at survive the round trip untouched.
type Manifest struct {
	path string
	root map[string]json.RawMessage
}

// Load reads and parses the package.json at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	root := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &Manifest{path: path, root: root}, nil
}

// Path returns the file the manifest was loaded from.
func (m *Manifest) Path() string { return m.path }

// Save writes the manifest back to its file as 2-space-indented JSON.
func (m *Manifest) Save() error {
	data, err := json.MarshalIndent(m.root, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Dependencies returns the runtime dependency map (never nil).
func (m *Manifest) Dependencies() map[string]string { return m.depMap(depsKey) }

// DevDependencies returns the dev dependency map (never nil).
func (m *Manifest) DevDependencies() map[string]string { return m.depMap(devDepsKey) }

// RemoveDependencies drops every named package from both dependency
// maps. Names not present are ignored, so the operation is idempotent.
// Returns the number of entries removed.
func (m *Manifest) RemoveDependencies(names []string) int {
	removed := 0
	for _, key := range []string{depsKey, devDepsKey} {
		deps := m.depMap(key)
		changed := false
		for _, name := range names {
			if _, ok := deps[name]; ok {
				delete(deps, name)
				changed = true
				removed++
			}
		}
		if changed {
			m.setDepMap(key, deps)
		}
	}
	return removed
}

// AddDevDependency inserts name under devDependencies with the given
// version spec (WildcardVersion when empty), overwriting any existing
// entry.
func (m *Manifest) AddDevDependency(name, spec string) {
	if spec == "" {
		spec = WildcardVersion
	}
	deps := m.depMap(devDepsKey)
	deps[name] = spec
	m.setDepMap(devDepsKey, deps)
}

// HasDependency reports whether name appears in either dependency map.
func (m *Manifest) HasDependency(name string) bool {
	if _, ok := m.depMap(depsKey)[name]; ok {
		return true
	}
	_, ok := m.depMap(devDepsKey)[name]
	return ok
}

// depMap decodes one dependency map. Malformed or absent maps decode to
// empty; the package manager will complain about anything this tool
// cannot read, so there is nothing useful to report here.
func (m *Manifest) depMap(key string) map[string]string {
	deps := make(map[string]string)
	if raw, ok := m.root[key]; ok {
		_ = json.Unmarshal(raw, &deps)
	}
	return deps
}

func (m *Manifest) setDepMap(key string, deps map[string]string) {
	raw, err := json.Marshal(deps)
	if err != nil {
		return
	}
	m.root[key] = raw
}
