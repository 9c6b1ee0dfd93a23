package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/worktree-agent/internal/config"
	"github.com/shinji-kodama/worktree-agent/internal/logger"
	"github.com/shinji-kodama/worktree-agent/internal/model"
	"github.com/shinji-kodama/worktree-agent/internal/runner"
	"github.com/shinji-kodama/worktree-agent/internal/service"
	"github.com/shinji-kodama/worktree-agent/internal/worktree"
)

// session is everything a subcommand needs to run one operation.
type session struct {
	cfg *config.Config
	svc *service.Service
	log zerolog.Logger

	closer io.Closer
}

// newSession loads configuration, builds the logger, and wires the git
// runner, manager, and service for the repository at --dir.
//
// Tests replace the process runner through newRunner.
func newSession(cmd *cobra.Command) (*session, error) {
	dir, err := resolveWorkDir()
	if err != nil {
		return nil, err
	}

	cfg, cfgFile, err := config.Load(dir, configPath)
	if err != nil {
		return nil, err
	}

	log, closer := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		Verbose:    verbose,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Out:        cmd.ErrOrStderr(),
	})
	log = log.With().Str("cmd", cmd.Name()).Logger()
	if cfgFile != "" {
		log.Debug().Str("file", cfgFile).Msg("loaded config")
	}

	mgr := worktree.NewManager(
		runner.WithLogging(newRunner(), log),
		worktree.WithGitBinary(cfg.GitBinary),
	)

	opts := []service.Option{
		service.WithBranchPrefix(cfg.BranchPrefix),
		service.WithDefaultBase(cfg.DefaultBase),
		service.WithLogger(log),
	}
	if cfg.RefLookup == config.RefLookupGoGit {
		opts = append(opts, service.WithRefChecker(worktree.NewGoGitRefs()))
	}

	return &session{
		cfg:    cfg,
		svc:    service.New(mgr, dir, opts...),
		log:    log,
		closer: closer,
	}, nil
}

// newRunner returns the process runner used for git. It is a variable so
// tests can script git's responses.
var newRunner = func() runner.Runner {
	return runner.NewExec()
}

// Close releases the log file, if any.
func (s *session) Close() {
	_ = s.closer.Close()
}

// context bounds parent with the configured command timeout.
func (s *session) context(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if s.cfg.CommandTimeout > 0 {
		return context.WithTimeout(parent, s.cfg.CommandTimeout)
	}
	return context.WithCancel(parent)
}

// resolveWorkDir returns --dir as an absolute path, or the current directory.
func resolveWorkDir() (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		return wd, nil
	}

	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving --dir %s: %w", workDir, err)
	}
	return abs, nil
}

// operation is one call into the service.
type operation func(ctx context.Context, svc *service.Service) (*model.Result, error)

// runOperation sets up a session, runs op, and prints its result to the
// command's stdout. Errors are returned for Execute to print.
func runOperation(cmd *cobra.Command, op operation) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := s.context(cmd.Context())
	defer cancel()

	res, err := op(ctx, s.svc)
	if err != nil {
		s.log.Debug().Err(err).Msg("operation failed")
		return err
	}

	printResult(cmd.OutOrStdout(), res)
	return nil
}
