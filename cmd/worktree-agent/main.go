// Package main is the entry point for the worktree-agent CLI.
//
// This binary lists, creates, removes, and switches between Git worktrees.
// It delegates all functionality to the internal/cli package, which defines
// the cobra commands.
//
// Build-time variables (version, commit, date) are injected via ldflags.
// During development they default to "dev", "none", and "unknown".
package main

import (
	"github.com/shinji-kodama/worktree-agent/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	cli.Execute(cli.NewRootCommand())
}
