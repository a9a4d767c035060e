// Package gitver resolves the benched project's git identity for the
// report header, so a table can be tied back to the exact tree it
// measured.
package gitver

import (
	"github.com/go-git/go-git/v5"
)

// Info holds the project's git identity.
type Info struct {
	Branch string
	SHA    string // short 7-char form
	Dirty  bool
}

// Detect resolves branch, short SHA, and worktree dirtiness for dir.
// A nil Info (no error) means dir is not inside a git repository —
// benchmarking an unversioned tree is fine, the header just omits the
// git fields.
func Detect(dir string) (*Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, nil
	}

	head, err := repo.Head()
	if err != nil {
		return nil, nil // unborn HEAD — treat like no repo
	}

	info := &Info{SHA: head.Hash().String()[:7]}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	// Dirtiness is best-effort: a status failure never blocks a run.
	if wt, err := repo.Worktree(); err == nil {
		if status, err := wt.Status(); err == nil {
			info.Dirty = !status.IsClean()
		}
	}

	return info, nil
}

// Label renders the identity for the context block: "main@abc1234" with
// a trailing marker when the worktree has local changes.
func (i *Info) Label() string {
	if i == nil {
		return "-"
	}
	label := i.SHA
	if i.Branch != "" {
		label = i.Branch + "@" + i.SHA
	}
	if i.Dirty {
		label += "+dirty"
	}
	return label
}
