// Package service implements the worktree operations exposed to hosts:
// list, create, remove, and switch, plus Dispatch, which routes a single
// loosely-typed Request to the matching handler.
//
// Every handler re-reads git's worktree metadata; nothing is cached between
// calls. Handlers return a *model.Result on success and a *model.Error for
// precondition or git failures. Any other error means git could not be run
// at all and should be treated as fatal by the caller.
package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shinji-kodama/worktree-agent/internal/model"
	"github.com/shinji-kodama/worktree-agent/internal/worktree"
)

// Service runs worktree operations for the repository containing dir.
type Service struct {
	git    *worktree.Manager
	refs   worktree.RefChecker
	dir    string
	prefix string
	base   string
	log    zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRefChecker replaces the branch-existence check. By default the
// Manager's own `git show-ref` check is used.
func WithRefChecker(rc worktree.RefChecker) Option {
	return func(s *Service) {
		if rc != nil {
			s.refs = rc
		}
	}
}

// WithBranchPrefix overrides the prefix added to new branch names.
func WithBranchPrefix(prefix string) Option {
	return func(s *Service) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithDefaultBase overrides the start point used when create has no base.
func WithDefaultBase(base string) Option {
	return func(s *Service) {
		if base != "" {
			s.base = base
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// New creates a Service operating on the repository that contains dir.
func New(git *worktree.Manager, dir string, opts ...Option) *Service {
	s := &Service{
		git:    git,
		refs:   git,
		dir:    dir,
		prefix: worktree.DefaultBranchPrefix,
		base:   "HEAD",
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every worktree, main worktree first.
func (s *Service) List(ctx context.Context) (*model.Result, error) {
	root, err := s.git.RepoRoot(ctx, s.dir)
	if err != nil {
		return nil, err
	}

	entries, err := s.git.List(ctx, root)
	if err != nil {
		return nil, err
	}
	return &model.Result{Operation: model.OpList, Entries: entries}, nil
}

// CreateRequest holds the inputs of Create.
type CreateRequest struct {
	// Branch is required. It is prefixed with the branch prefix unless it already has it.
	Branch string

	// Base is the start point of the new branch. Empty means the default base.
	Base string

	// Path is the worktree directory. Relative paths are taken from the
	// parent of the repository root. Empty means <parent>/<branch without prefix>.
	Path string
}

// Create adds a worktree on a new branch.
//
// Preconditions are checked in order and the first failure wins. A base
// starting with "-" is rejected before git runs. The normalized branch and
// then the target directory must not exist yet. Nothing is created when a
// precondition fails.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*model.Result, error) {
	name := strings.TrimSpace(req.Branch)
	if name == "" {
		return nil, model.ErrMissingArgument("branch", model.OpCreate)
	}

	base := strings.TrimSpace(req.Base)
	if base == "" {
		base = s.base
	}
	if strings.HasPrefix(base, "-") {
		return nil, model.ErrInvalidArgument("base", fmt.Sprintf("'%s' must not start with '-'", base))
	}

	root, err := s.git.RepoRoot(ctx, s.dir)
	if err != nil {
		return nil, err
	}

	branch := worktree.NormalizeBranch(name, s.prefix)

	exists, err := s.refs.BranchExists(ctx, root, branch)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrBranchExists(branch)
	}

	dir := s.targetDir(root, name, req.Path)
	if _, err := os.Lstat(dir); err == nil {
		return nil, model.ErrPathExists(dir)
	} else if !errors.Is(err, fs.ErrNotExist) {
		s.log.Debug().Err(err).Str("path", dir).Msg("could not stat target directory")
	}

	s.log.Info().Str("branch", branch).Str("path", dir).Str("base", base).Msg("creating worktree")
	if err := s.git.Add(ctx, root, branch, dir, base); err != nil {
		return nil, err
	}

	return &model.Result{
		Operation: model.OpCreate,
		Path:      dir,
		Branch:    branch,
		Base:      s.describeBase(ctx, root, base),
	}, nil
}

// targetDir computes where a new worktree goes.
func (s *Service) targetDir(root, name, explicit string) string {
	parent := filepath.Dir(root)
	explicit = strings.TrimSpace(explicit)
	switch {
	case explicit == "":
		return filepath.Join(parent, worktree.StripBranchPrefix(name, s.prefix))
	case filepath.IsAbs(explicit):
		return filepath.Clean(explicit)
	default:
		return filepath.Join(parent, explicit)
	}
}

// describeBase names the base for the result. "HEAD" is resolved to the
// branch it points at when possible.
func (s *Service) describeBase(ctx context.Context, root, base string) string {
	if base != "HEAD" {
		return base
	}
	branch, err := s.git.CurrentBranch(ctx, root)
	if err != nil || branch == "" || branch == "HEAD" {
		return base
	}
	return branch
}

// Remove deletes the worktree target refers to.
//
// The main worktree is never removed, with or without force. A removal git
// refuses because of local changes is reported as KindDirtyWorktree when
// force was not requested. After a successful removal the worktree's branch
// is deleted on a best-effort basis.
func (s *Service) Remove(ctx context.Context, target model.Target, force bool) (*model.Result, error) {
	if target.String() == "" {
		return nil, model.ErrMissingArgument("target", model.OpRemove)
	}

	root, entry, err := s.resolve(ctx, target)
	if err != nil {
		return nil, err
	}
	if entry.IsMain {
		return nil, model.ErrMainProtected()
	}

	s.log.Info().Str("path", entry.Path).Bool("force", force).Msg("removing worktree")
	if err := s.git.Remove(ctx, root, entry.Path, force); err != nil {
		return nil, err
	}

	res := &model.Result{Operation: model.OpRemove, Path: entry.Path, Branch: entry.Branch}
	if entry.Branch != "" {
		if err := s.git.DeleteBranch(ctx, root, entry.Branch); err != nil {
			s.log.Debug().Err(err).Str("branch", entry.Branch).Msg("branch cleanup failed")
		} else {
			res.BranchDeleted = true
		}
	}
	return res, nil
}

// Switch returns the directory the host should change into.
//
// The directory is checked on disk because git's list can outlive a
// worktree deleted by hand.
func (s *Service) Switch(ctx context.Context, target model.Target) (*model.Result, error) {
	if target.String() == "" {
		return nil, model.ErrMissingArgument("target", model.OpSwitch)
	}

	_, entry, err := s.resolve(ctx, target)
	if err != nil {
		return nil, err
	}

	if info, err := os.Stat(entry.Path); err != nil || !info.IsDir() {
		return nil, model.ErrPathMissing(entry.Path)
	}

	return &model.Result{
		Operation: model.OpSwitch,
		Path:      entry.Path,
		Branch:    entry.Branch,
		ChangeDir: entry.Path,
	}, nil
}

// resolve runs the repository check, lists worktrees, and resolves target.
func (s *Service) resolve(ctx context.Context, target model.Target) (string, model.WorktreeEntry, error) {
	root, err := s.git.RepoRoot(ctx, s.dir)
	if err != nil {
		return "", model.WorktreeEntry{}, err
	}

	entries, err := s.git.List(ctx, root)
	if err != nil {
		return "", model.WorktreeEntry{}, err
	}

	entry, err := worktree.Resolve(entries, target)
	if err != nil {
		return "", model.WorktreeEntry{}, err
	}
	return root, entry, nil
}
