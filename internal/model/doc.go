// Package model defines the domain types and value objects for the
// worktree-agent CLI.
//
// This package contains pure data structures with no external dependencies.
// WorktreeEntry values are transient: they are parsed from
// `git worktree list --porcelain` on every operation and discarded when the
// operation returns. There is no persistent state file.
//
// The package also defines the typed error channel (Error with an ErrorKind)
// that operation handlers return, and the exit codes (ExitCode) the CLI maps
// those kinds onto.
package model
