package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/worktree-agent/internal/model"
	"github.com/shinji-kodama/worktree-agent/internal/service"
)

// NewListCommand creates the "list" cobra command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the worktrees of the repository",
		Long: `List every worktree of the repository, main worktree first.

Each line shows the 1-based position, the branch (or "detached"), and the
path. The position can be passed to 'remove' and 'switch'.

Examples:
  worktree-agent list
  worktree-agent list --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, func(ctx context.Context, svc *service.Service) (*model.Result, error) {
				return svc.List(ctx)
			})
		},
	}
}
