// Package cli implements the cobra-based CLI commands for worktree-agent.
//
// Each subcommand (list, create, remove, switch, invoke) is defined in its
// own file within this package. This file defines the root command, which
// owns the global flags and translates errors into exit codes.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/worktree-agent/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether results and errors are printed as JSON.
	jsonOutput bool

	// verbose forces debug logging on stderr.
	verbose bool

	// workDir is the directory whose repository is operated on.
	// Empty means the current working directory.
	workDir string

	// configPath is an explicit config file. Empty means search for one.
	configPath string
)

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action. It provides help
// text and global flags; the operations are subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "worktree-agent",
		Short: "Manage Git worktrees from an assistant host",
		Long: `worktree-agent lists, creates, removes, and switches between the Git
worktrees of a repository.

Branches created by worktree-agent are namespaced under a prefix
("worktree/" by default), and new worktrees are placed next to the
repository unless a path is given. The main worktree is never removed.

Worktrees can be referred to by their 1-based position in 'list' output,
by their full path, or by a path suffix such as the directory name.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors lets Execute format errors as text or JSON.
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", "", "Run as if started in this directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: search from the repository)")

	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewCreateCommand())
	rootCmd.AddCommand(NewRemoveCommand())
	rootCmd.AddCommand(NewSwitchCommand())
	rootCmd.AddCommand(NewInvokeCommand())

	return rootCmd
}

// Execute runs the root command and exits with the code for its error.
// This is the main entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	os.Exit(int(handleError(rootCmd.ErrOrStderr(), err)))
}

// handleError prints err (unless it was already reported) and returns the
// process exit code for it.
func handleError(w io.Writer, err error) model.ExitCode {
	var reported *reportedError
	if errors.As(err, &reported) {
		return reported.code
	}

	printError(w, err)

	var modelErr *model.Error
	if errors.As(err, &modelErr) {
		return modelErr.Kind.ExitCode()
	}
	return model.ExitGeneralError
}

// printError writes err to w as "Error: ..." text or, with --json, as an
// {"error": {...}} object.
func printError(w io.Writer, err error) {
	if jsonOutput {
		writeJSON(w, errorJSON(err))
		return
	}
	fmt.Fprintln(w, RenderError(err))
}

// reportedError carries an exit code for a failure whose message has
// already been written. invoke uses it because its errors go to stdout.
type reportedError struct {
	code model.ExitCode
	err  error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }
