package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/worktree-agent/internal/model"
	"github.com/shinji-kodama/worktree-agent/internal/service"
)

// removeFlags holds the flag values for the remove command.
type removeFlags struct {
	// force removes the worktree even if it has local changes.
	force bool
}

// NewRemoveCommand creates the "remove" cobra command.
func NewRemoveCommand() *cobra.Command {
	flags := &removeFlags{}

	cmd := &cobra.Command{
		Use:   "remove <target>",
		Short: "Remove a worktree and its branch",
		Long: `Remove a worktree, then delete its branch.

The target is a position from 'list', a full path, or a path suffix.
The main worktree is never removed. A worktree with uncommitted or
untracked changes is only removed with --force.

Branch deletion is best effort: if it fails, the removal still succeeds.

Examples:
  worktree-agent remove 2
  worktree-agent remove feature-auth
  worktree-agent remove --force /home/me/src/feature-auth`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			target := model.ParseTarget(args[0])
			return runOperation(cmd, func(ctx context.Context, svc *service.Service) (*model.Result, error) {
				return svc.Remove(ctx, target, flags.force)
			})
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Remove even with uncommitted changes")

	return cmd
}
