package model

import (
	"strconv"
	"strings"
)

// WorktreeEntry is one worktree known to git, as parsed from a single block
// of `git worktree list --porcelain` output.
//
//	worktree /path/to/feature
//	HEAD abc123def456
//	branch refs/heads/feature
type WorktreeEntry struct {
	// Path is the absolute filesystem path of the worktree. Unique within a list.
	Path string `json:"path"`

	// Branch is the short branch name ("feature", not "refs/heads/feature").
	// Empty when the worktree has a detached HEAD.
	Branch string `json:"branch,omitempty"`

	// Commit is the commit SHA at HEAD of the worktree. Empty if git did not report one.
	Commit string `json:"commit,omitempty"`

	// IsBare marks the bare repository record rather than a working checkout.
	IsBare bool `json:"isBare"`

	// IsMain is set only on the first entry of a parsed list.
	IsMain bool `json:"isMain"`
}

// IsDetached reports whether the worktree has no branch checked out.
func (e WorktreeEntry) IsDetached() bool {
	return e.Branch == ""
}

// DisplayBranch returns the branch name, or "detached" for a detached HEAD.
func (e WorktreeEntry) DisplayBranch() string {
	if e.IsDetached() {
		return "detached"
	}
	return e.Branch
}

// Target is a caller-supplied worktree reference, parsed once at the boundary.
// It is either ByIndex (a 1-based position in the listing) or ByPath (an
// exact path or a path suffix).
//
// A ByIndex target keeps its raw text: an index outside the listing's range
// is matched against paths instead.
type Target struct {
	raw     string
	index   int
	byIndex bool
}

// ParseTarget classifies s as ByIndex when it is a base-10 integer and ByPath otherwise.
func ParseTarget(s string) Target {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return Target{raw: s, index: n, byIndex: true}
	}
	return Target{raw: s}
}

// ByIndex returns a target that refers to the n-th (1-based) worktree.
func ByIndex(n int) Target {
	return Target{raw: strconv.Itoa(n), index: n, byIndex: true}
}

// ByPath returns a target matched against worktree paths.
func ByPath(s string) Target {
	return Target{raw: s}
}

// Index returns the 1-based index and true when the target is ByIndex.
func (t Target) Index() (int, bool) {
	return t.index, t.byIndex
}

// String returns the raw reference as the caller supplied it.
func (t Target) String() string {
	return t.raw
}

// Operation names one of the four worktree operations.
type Operation string

const (
	OpList   Operation = "list"
	OpCreate Operation = "create"
	OpRemove Operation = "remove"
	OpSwitch Operation = "switch"
)

// Operations lists every valid operation in presentation order.
var Operations = []Operation{OpList, OpCreate, OpRemove, OpSwitch}

// String returns the string representation of the Operation.
func (o Operation) String() string {
	return string(o)
}

// IsValid checks whether the Operation is one of the predefined operations.
func (o Operation) IsValid() bool {
	switch o {
	case OpList, OpCreate, OpRemove, OpSwitch:
		return true
	default:
		return false
	}
}

// Result is the success payload of an operation. Which fields are set
// depends on Operation:
//
//   - list:   Entries
//   - create: Path, Branch, Base
//   - remove: Path, Branch (the branch that was cleaned up, if any)
//   - switch: Path, ChangeDir
type Result struct {
	Operation Operation       `json:"operation"`
	Entries   []WorktreeEntry `json:"entries,omitempty"`
	Path      string          `json:"path,omitempty"`
	Branch    string          `json:"branch,omitempty"`
	Base      string          `json:"base,omitempty"`

	// BranchDeleted is set by remove when the best-effort branch cleanup succeeded.
	BranchDeleted bool `json:"branchDeleted,omitempty"`

	// ChangeDir is the directory the host should switch its working directory to.
	ChangeDir string `json:"changeDir,omitempty"`
}
