// Package git manages worktree discovery and mutation for the main
// repository. Listing goes through the git CLI because go-git has no
// worktree support; repository introspection uses go-git directly.
package git

import (
	"context"
	"path/filepath"
	"strings"

	"ush/internal/errors"
	"ush/internal/shell"
)

// Worktree represents one linked working directory of the main repository
type Worktree struct {
	Path   string
	Branch string
	Name   string
}

// ParseWorktreeList parses `git worktree list --porcelain` output. Records
// are blank-line separated; the final record may or may not carry a trailing
// blank line. Bare records are skipped.
func ParseWorktreeList(output string) []Worktree {
	var worktrees []Worktree

	var path, branch string
	bare := false

	flush := func() {
		if path != "" && !bare {
			worktrees = append(worktrees, Worktree{
				Path:   path,
				Branch: branch,
				Name:   filepath.Base(path),
			})
		}
		path, branch, bare = "", "", false
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			flush()
			continue
		}

		switch {
		case strings.HasPrefix(line, "worktree "):
			path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "branch "):
			branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
		case line == "bare":
			bare = true
		}
	}
	flush()

	return worktrees
}

// Registry discovers worktrees of a repository. Every call re-derives from
// git; nothing is cached.
type Registry struct {
	runner shell.Runner
}

// NewRegistry creates a worktree registry
func NewRegistry(runner shell.Runner) *Registry {
	return &Registry{runner: runner}
}

// List returns the non-bare worktrees of the repository at mainRepoPath
func (r *Registry) List(ctx context.Context, mainRepoPath string) ([]Worktree, error) {
	result := r.runner.RunIn(ctx, mainRepoPath, "git", "worktree", "list", "--porcelain")
	if shell.IsBinaryMissing(result) {
		return nil, errors.Wrap(errors.ErrGitUnavailable, "git executable not found", result.Err)
	}
	if !result.Success() {
		return nil, errors.NewWithDetails(errors.ErrGitUnavailable,
			"git worktree list failed", strings.TrimSpace(result.Stderr))
	}

	return ParseWorktreeList(result.Stdout), nil
}

// ByName indexes worktrees by their derived name. Git does not guarantee
// name uniqueness across worktrees; on collision the last entry wins.
func ByName(worktrees []Worktree) map[string]Worktree {
	byName := make(map[string]Worktree, len(worktrees))
	for _, wt := range worktrees {
		byName[wt.Name] = wt
	}
	return byName
}
