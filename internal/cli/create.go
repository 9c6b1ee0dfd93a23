package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/worktree-agent/internal/model"
	"github.com/shinji-kodama/worktree-agent/internal/service"
)

// createFlags holds the flag values for the create command.
type createFlags struct {
	// base is the start point of the new branch. Empty means default_base.
	base string

	// path overrides the worktree directory.
	path string
}

// NewCreateCommand creates the "create" cobra command.
func NewCreateCommand() *cobra.Command {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create <branch>",
		Short: "Create a worktree on a new branch",
		Long: `Create a new branch and check it out into a new worktree.

The branch name is prefixed with the configured branch prefix
("worktree/" by default) unless it already starts with it. Without --path
the worktree is placed next to the repository, in a directory named after
the branch without its prefix. A relative --path is taken from the
repository's parent directory.

The command fails without changing anything if the branch or the
directory already exists.

Examples:
  worktree-agent create feature-auth
  worktree-agent create feature-auth --base main
  worktree-agent create fix-123 --path ../scratch/fix-123`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.CreateRequest{Branch: args[0], Base: flags.base, Path: flags.path}
			return runOperation(cmd, func(ctx context.Context, svc *service.Service) (*model.Result, error) {
				return svc.Create(ctx, req)
			})
		},
	}

	cmd.Flags().StringVarP(&flags.base, "base", "b", "", "Start point of the new branch (default: config default_base)")
	cmd.Flags().StringVarP(&flags.path, "path", "p", "", "Worktree directory")

	return cmd
}
