package worktree

import "strings"

// DefaultBranchPrefix namespaces branches created by worktree-agent.
const DefaultBranchPrefix = "worktree/"

// NormalizeBranch prepends prefix to name unless it is already there.
// It is idempotent: NormalizeBranch(NormalizeBranch(x)) == NormalizeBranch(x).
func NormalizeBranch(name, prefix string) string {
	if strings.HasPrefix(name, prefix) {
		return name
	}
	return prefix + name
}

// StripBranchPrefix removes prefix from name if present.
func StripBranchPrefix(name, prefix string) string {
	return strings.TrimPrefix(name, prefix)
}
