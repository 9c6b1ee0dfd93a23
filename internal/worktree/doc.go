// Package worktree provides Git worktree management operations for
// the worktree-agent CLI.
//
// Git operations are performed by invoking the git binary through an
// injected runner.Runner rather than using a Git library, so the behavior
// matches what the user sees in their terminal. The one exception is the
// optional GoGitRefs branch lookup, which reads refs with go-git.
//
// The package holds the stateful core of worktree-agent: the porcelain
// parser (ParsePorcelain), the reference resolver (Resolve), branch name
// normalization, and the Manager that issues git commands.
package worktree
