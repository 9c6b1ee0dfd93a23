package worktree

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GoGitRefs looks up branches by reading the repository's ref storage with
// go-git instead of spawning git.
type GoGitRefs struct{}

// NewGoGitRefs creates a GoGitRefs.
func NewGoGitRefs() *GoGitRefs {
	return &GoGitRefs{}
}

// BranchExists reports whether refs/heads/<branch> exists in the repository
// containing repoRoot. Linked worktrees resolve refs through the common dir.
func (g *GoGitRefs) BranchExists(_ context.Context, repoRoot, branch string) (bool, error) {
	repo, err := git.PlainOpenWithOptions(repoRoot, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return false, fmt.Errorf("opening repository at %s: %w", repoRoot, err)
	}

	_, err = repo.Reference(plumbing.NewBranchReferenceName(branch), false)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading ref for branch %q: %w", branch, err)
	}
	return true, nil
}
