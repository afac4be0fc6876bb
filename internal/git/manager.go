package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"ush/internal/errors"
	"ush/internal/shell"
	"ush/internal/validation"
)

// Manager performs worktree mutations and repository introspection
type Manager struct {
	runner   shell.Runner
	registry *Registry
}

// New creates a git manager
func New(runner shell.Runner) *Manager {
	return &Manager{
		runner:   runner,
		registry: NewRegistry(runner),
	}
}

// ListWorktrees returns all non-bare worktrees of the repository
func (m *Manager) ListWorktrees(ctx context.Context, mainRepoPath string) ([]Worktree, error) {
	return m.registry.List(ctx, mainRepoPath)
}

// AddWorktree creates a worktree at path on a new branch cut from base
func (m *Manager) AddWorktree(ctx context.Context, mainRepoPath, path, branch, base string) error {
	cleaned, err := validation.Path(path)
	if err != nil {
		return err
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidPath, "failed to resolve worktree path", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		return errors.NewWithDetails(errors.ErrConflict, "worktree path already exists", absPath)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return errors.Wrap(errors.ErrGitWorktreeFailed, "failed to create parent directory", err)
	}

	result := m.runner.RunIn(ctx, mainRepoPath, "git", "worktree", "add", absPath, "-b", branch, base)
	if shell.IsBinaryMissing(result) {
		return errors.Wrap(errors.ErrGitUnavailable, "git executable not found", result.Err)
	}
	if !result.Success() {
		return errors.NewWithDetails(errors.ErrGitWorktreeFailed,
			"git worktree add failed", strings.TrimSpace(result.Stderr))
	}

	return nil
}

// RemoveWorktree removes the worktree at path. Without force, a worktree
// with uncommitted changes is refused before git is even asked, so the
// caller gets a typed error instead of raw git stderr.
func (m *Manager) RemoveWorktree(ctx context.Context, mainRepoPath, path string, force bool) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidPath, "failed to resolve worktree path", err)
	}

	if !force {
		dirty, err := m.HasUncommittedChanges(absPath)
		if err == nil && dirty {
			return errors.NewWithDetails(errors.ErrGitUncommitted,
				"worktree has uncommitted changes", absPath)
		}
	}

	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, absPath)

	result := m.runner.RunIn(ctx, mainRepoPath, "git", args...)
	if shell.IsBinaryMissing(result) {
		return errors.Wrap(errors.ErrGitUnavailable, "git executable not found", result.Err)
	}
	if !result.Success() {
		return errors.NewWithDetails(errors.ErrGitWorktreeFailed,
			"git worktree remove failed", strings.TrimSpace(result.Stderr))
	}

	return nil
}

// CurrentBranch returns the branch currently checked out at path
func (m *Manager) CurrentBranch(ctx context.Context, path string) (string, error) {
	result := m.runner.RunIn(ctx, path, "git", "branch", "--show-current")
	if shell.IsBinaryMissing(result) {
		return "", errors.Wrap(errors.ErrGitUnavailable, "git executable not found", result.Err)
	}
	if !result.Success() {
		return "", errors.NewWithDetails(errors.ErrGitUnavailable,
			"git branch --show-current failed", strings.TrimSpace(result.Stderr))
	}
	return result.Output(), nil
}

// HasUncommittedChanges checks the working tree at path via go-git
func (m *Manager) HasUncommittedChanges(path string) (bool, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return false, errors.Wrap(errors.ErrGitUnavailable, "failed to open repository", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, errors.Wrap(errors.ErrGitUnavailable, "failed to get worktree", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, errors.Wrap(errors.ErrGitUnavailable, "failed to get status", err)
	}

	return !status.IsClean(), nil
}

// IsRepository checks if the path is a valid git repository or worktree
func (m *Manager) IsRepository(path string) bool {
	_, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	return err == nil
}
