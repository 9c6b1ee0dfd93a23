package worktree

import (
	"context"
	"fmt"
	"strings"

	"github.com/shinji-kodama/worktree-agent/internal/model"
	"github.com/shinji-kodama/worktree-agent/internal/runner"
)

// DefaultGitBinary is the git executable used when none is configured.
const DefaultGitBinary = "git"

// RefChecker reports whether a local branch exists in a repository.
// Manager implements it with `git show-ref`; GoGitRefs implements it with go-git.
type RefChecker interface {
	BranchExists(ctx context.Context, repoRoot, branch string) (bool, error)
}

// Manager provides Git worktree operations by invoking the git CLI
// through a runner.Runner.
//
// Manager holds no repository state: every method takes the directory to
// operate in, and List re-reads git's metadata on each call.
type Manager struct {
	run runner.Runner
	git string
}

// Option configures a Manager.
type Option func(*Manager)

// WithGitBinary overrides the git executable (name on PATH or absolute path).
func WithGitBinary(bin string) Option {
	return func(m *Manager) {
		if bin != "" {
			m.git = bin
		}
	}
}

// NewManager creates a Manager that runs git through r.
func NewManager(r runner.Runner, opts ...Option) *Manager {
	m := &Manager{run: r, git: DefaultGitBinary}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RepoRoot returns the top-level directory of the working tree containing dir.
//
// This is the repository check: when dir is not inside a git repository,
// RepoRoot returns a model.Error of kind KindNotRepository.
//
// For a linked worktree this returns the worktree's own root, not the main
// checkout's.
func (m *Manager) RepoRoot(ctx context.Context, dir string) (string, error) {
	out, err := m.gitRun(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	if !out.Success() || out.Stdout == "" {
		return "", model.ErrNotRepository()
	}
	return strings.TrimSpace(out.Stdout), nil
}

// CurrentBranch returns the short name of the branch checked out in dir,
// or "HEAD" when HEAD is detached.
func (m *Manager) CurrentBranch(ctx context.Context, dir string) (string, error) {
	out, err := m.gitRun(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if !out.Success() {
		return "", toolFailure(out, "rev-parse --abbrev-ref HEAD")
	}
	return strings.TrimSpace(out.Stdout), nil
}

// List returns every worktree of the repository at repoRoot, main worktree first.
//
// It runs `git worktree list --porcelain`. A non-zero exit is returned as a
// KindToolFailure error so that a failing command is not mistaken for a
// repository with no worktrees.
func (m *Manager) List(ctx context.Context, repoRoot string) ([]model.WorktreeEntry, error) {
	out, err := m.gitRun(ctx, repoRoot, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	if !out.Success() {
		return nil, toolFailure(out, "worktree list")
	}
	return ParsePorcelain(out.Stdout), nil
}

// BranchExists checks whether refs/heads/<branch> exists.
//
// `git show-ref --verify --quiet` exits 0 when the ref exists and 1 when it
// does not; anything else is a tool failure.
func (m *Manager) BranchExists(ctx context.Context, repoRoot, branch string) (bool, error) {
	out, err := m.gitRun(ctx, repoRoot, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	if err != nil {
		return false, err
	}
	switch out.ExitCode {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, toolFailure(out, "show-ref")
	}
}

// Add creates a new branch at base and checks it out into a new worktree at dir.
//
// This runs `git worktree add -b <branch> --end-of-options <dir> <base>`, so
// a dir or base starting with "-" is never read as an option. The caller is
// responsible for making sure the branch and directory do not exist yet.
func (m *Manager) Add(ctx context.Context, repoRoot, branch, dir, base string) error {
	args := []string{"worktree", "add", "-b", branch, "--end-of-options", dir}
	if base != "" {
		args = append(args, base)
	}

	out, err := m.gitRun(ctx, repoRoot, args...)
	if err != nil {
		return err
	}
	if !out.Success() {
		return toolFailure(out, "worktree add")
	}
	return nil
}

// Remove deletes the worktree at path.
//
// Without force, git refuses to remove a worktree with modified or untracked
// files; that refusal is returned as a KindDirtyWorktree error so the caller
// can offer a forced retry. Any other failure is a KindToolFailure.
func (m *Manager) Remove(ctx context.Context, repoRoot, path string, force bool) error {
	args := []string{"worktree", "remove", path}
	if force {
		args = []string{"worktree", "remove", "--force", path}
	}

	out, err := m.gitRun(ctx, repoRoot, args...)
	if err != nil {
		return err
	}
	if out.Success() {
		return nil
	}

	failure := toolFailure(out, "worktree remove")
	if !force && IsDirtyMessage(out.Message()) {
		return model.ErrDirtyWorktree(path, failure)
	}
	return failure
}

// DeleteBranch force-deletes a local branch with `git branch -D`.
func (m *Manager) DeleteBranch(ctx context.Context, repoRoot, branch string) error {
	out, err := m.gitRun(ctx, repoRoot, "branch", "-D", branch)
	if err != nil {
		return err
	}
	if !out.Success() {
		return toolFailure(out, "branch -D")
	}
	return nil
}

// dirtyMarkers are substrings of git's refusal to remove a worktree with
// local changes, matched case-insensitively.
var dirtyMarkers = []string{
	"dirty",
	"contains modified or untracked files",
	"uncommitted",
}

// IsDirtyMessage reports whether a git failure message indicates that the
// worktree has uncommitted or untracked changes.
func IsDirtyMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, marker := range dirtyMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// gitRun runs git with args in dir. A returned error means git could not be
// started at all.
func (m *Manager) gitRun(ctx context.Context, dir string, args ...string) (runner.Output, error) {
	out, err := m.run.Run(ctx, dir, append([]string{m.git}, args...)...)
	if err != nil {
		return out, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}

// toolFailure converts a failed command into a KindToolFailure error carrying
// git's own message. A command that printed nothing gets a generic message.
func toolFailure(out runner.Output, what string) *model.Error {
	msg := out.Message()
	if msg == "" {
		msg = fmt.Sprintf("git %s failed with exit code %d", what, out.ExitCode)
	}
	return model.ErrToolFailure(msg)
}
