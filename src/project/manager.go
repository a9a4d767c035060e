// Package project resolves facts about the benched frontend project:
// which package manager owns it and how to invoke installs, builds,
// and native rebuilds through it.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Manager is a JavaScript package manager.
type Manager string

const (
	Npm  Manager = "npm"
	Yarn Manager = "yarn"
	Pnpm Manager = "pnpm"
)

// ErrNoLockfile means no supported lockfile was found and no manager
// was forced, so the project's dependency manager cannot be determined.
var ErrNoLockfile = errors.New("no package-lock.json, yarn.lock, or pnpm-lock.yaml found")

// lockfiles maps lockfile names to their managers, in detection order.
var lockfiles = []struct {
	file    string
	manager Manager
}{
	{"package-lock.json", Npm},
	{"yarn.lock", Yarn},
	{"pnpm-lock.yaml", Pnpm},
}

// Detect determines the package manager for dir. A non-empty override
// wins; otherwise the project's lockfile decides. No lockfile and no
// override is fatal — the caller must abort before any scenario runs.
func Detect(dir, override string) (Manager, error) {
	if override != "" {
		switch m := Manager(override); m {
		case Npm, Yarn, Pnpm:
			return m, nil
		default:
			return "", fmt.Errorf("unknown package manager %q", override)
		}
	}

	for _, lf := range lockfiles {
		if _, err := os.Stat(filepath.Join(dir, lf.file)); err == nil {
			return lf.manager, nil
		}
	}
	return "", fmt.Errorf("detecting package manager in %s: %w", dir, ErrNoLockfile)
}

// Commands resolves the argv for each external process a scenario runs.
// project.Manager is the production implementation; tests substitute
// stub commands.
type Commands interface {
	Install() []string
	Build(command string, args []string) []string
	Rebuild(pkg string) []string
}

// Install returns the dependency install argv.
func (m Manager) Install() []string {
	return []string{string(m), "install"}
}

// Build returns the argv running a project-local build tool through the
// manager's exec wrapper.
func (m Manager) Build(command string, args []string) []string {
	var argv []string
	switch m {
	case Yarn:
		argv = []string{"yarn", command}
	case Pnpm:
		argv = []string{"pnpm", "exec", command}
	default:
		argv = []string{"npx", command}
	}
	return append(argv, args...)
}

// Rebuild returns the argv recompiling a native module after install.
// Yarn classic has no rebuild subcommand; npm's operates on the same
// node_modules tree.
func (m Manager) Rebuild(pkg string) []string {
	switch m {
	case Pnpm:
		return []string{"pnpm", "rebuild", pkg}
	default:
		return []string{"npm", "rebuild", pkg}
	}
}
