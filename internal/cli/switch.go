package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/worktree-agent/internal/model"
	"github.com/shinji-kodama/worktree-agent/internal/service"
)

// NewSwitchCommand creates the "switch" cobra command.
//
// A process cannot change its parent's working directory, so switch prints
// a WORKTREE_CD=<path> line for the host (or a shell function) to act on.
func NewSwitchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <target>",
		Short: "Print the directory of a worktree to change into",
		Long: `Resolve a worktree and print the directory to change into.

The last line of output is WORKTREE_CD=<path>. A shell function can use it:

  wt() { eval "$(worktree-agent switch "$1" | sed -n 's/^WORKTREE_CD=\(.*\)/cd "\1"/p')"; }

Examples:
  worktree-agent switch 2
  worktree-agent switch feature-auth`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			target := model.ParseTarget(args[0])
			return runOperation(cmd, func(ctx context.Context, svc *service.Service) (*model.Result, error) {
				return svc.Switch(ctx, target)
			})
		},
	}
}
