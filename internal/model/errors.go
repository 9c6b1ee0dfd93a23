package model

import "fmt"

// ErrorKind classifies a failed operation. Every kind except KindToolFailure
// is a precondition failure detected before any mutating git command runs.
type ErrorKind string

const (
	KindNotRepository    ErrorKind = "not_repository"
	KindMissingArgument  ErrorKind = "missing_argument"
	KindUnknownOperation ErrorKind = "unknown_operation"
	KindInvalidArgument  ErrorKind = "invalid_argument"
	KindBranchExists     ErrorKind = "branch_exists"
	KindPathExists       ErrorKind = "path_exists"
	KindNotFound         ErrorKind = "not_found"
	KindMainProtected    ErrorKind = "main_protected"
	KindPathMissing      ErrorKind = "path_missing"

	// KindDirtyWorktree is recoverable: retrying the removal with force succeeds.
	KindDirtyWorktree ErrorKind = "dirty_worktree"

	// KindToolFailure is a non-zero exit from a git command. Message carries
	// git's own stderr (or stdout when stderr was empty).
	KindToolFailure ErrorKind = "tool_failure"
)

// String returns the string representation of the ErrorKind.
func (k ErrorKind) String() string {
	return string(k)
}

// ExitCode defines the CLI exit codes. Scripts can use them to tell
// failure classes apart without parsing the error text.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError covers spawn failures and anything unclassified.
	ExitGeneralError ExitCode = 1

	// ExitUsage indicates a missing or invalid argument or an unknown operation.
	ExitUsage ExitCode = 2

	// ExitNotRepository indicates the directory is not inside a git repository.
	ExitNotRepository ExitCode = 3

	// ExitConflict indicates the branch or target path already exists.
	ExitConflict ExitCode = 4

	// ExitGitError indicates a git command exited non-zero.
	ExitGitError ExitCode = 5

	// ExitNotFound indicates the target worktree or its directory does not exist.
	ExitNotFound ExitCode = 6

	// ExitRefused indicates a protected or dirty worktree was not removed.
	ExitRefused ExitCode = 7
)

// ExitCode maps the kind onto the process exit code used by the CLI.
func (k ErrorKind) ExitCode() ExitCode {
	switch k {
	case KindMissingArgument, KindInvalidArgument, KindUnknownOperation:
		return ExitUsage
	case KindNotRepository:
		return ExitNotRepository
	case KindBranchExists, KindPathExists:
		return ExitConflict
	case KindToolFailure:
		return ExitGitError
	case KindNotFound, KindPathMissing:
		return ExitNotFound
	case KindMainProtected, KindDirtyWorktree:
		return ExitRefused
	default:
		return ExitGeneralError
	}
}

// Error is the typed failure returned by operation handlers.
// Message is a single human-readable line without the "Error: " prefix;
// the presentation layer adds it.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Message is the human-readable description.
	Message string

	// Suggestions holds close matches for a KindNotFound target, best first.
	Suggestions []string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error of the given kind with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates an Error that wraps an underlying error.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// ErrNotRepository reports that the working directory is not inside a git repository.
func ErrNotRepository() *Error {
	return NewError(KindNotRepository, "Not a git repository")
}

// ErrMissingArgument reports a required argument that was not supplied.
func ErrMissingArgument(arg string, op Operation) *Error {
	return NewError(KindMissingArgument, "'%s' is required for %s", arg, op)
}

// ErrInvalidArgument reports an argument whose value cannot be used.
func ErrInvalidArgument(arg, reason string) *Error {
	return NewError(KindInvalidArgument, "Invalid %s: %s", arg, reason)
}

// ErrUnknownOperation reports an operation name outside Operations.
func ErrUnknownOperation(op string) *Error {
	return NewError(KindUnknownOperation,
		"Unknown operation '%s'. Valid operations: list, create, remove, switch", op)
}

// ErrBranchExists reports that the local branch for a new worktree is taken.
func ErrBranchExists(branch string) *Error {
	return NewError(KindBranchExists, "Branch '%s' already exists", branch)
}

// ErrPathExists reports that the directory for a new worktree is taken.
func ErrPathExists(path string) *Error {
	return NewError(KindPathExists, "Path '%s' already exists", path)
}

// ErrNotFound reports a target that matched no worktree.
func ErrNotFound(target Target, suggestions []string) *Error {
	e := NewError(KindNotFound,
		"Worktree '%s' not found. Use 'list' to see available worktrees.", target)
	e.Suggestions = suggestions
	return e
}

// ErrMainProtected reports an attempt to remove the main worktree.
func ErrMainProtected() *Error {
	return NewError(KindMainProtected, "Cannot remove the main worktree")
}

// ErrDirtyWorktree reports a removal git refused because of local changes.
func ErrDirtyWorktree(path string, err error) *Error {
	return WrapError(KindDirtyWorktree,
		fmt.Sprintf("Worktree '%s' has uncommitted changes. Retry with force to remove it anyway.", path), err)
}

// ErrPathMissing reports a listed worktree whose directory is gone from disk.
func ErrPathMissing(path string) *Error {
	return NewError(KindPathMissing, "Worktree path '%s' does not exist", path)
}

// ErrToolFailure reports a git command that exited non-zero. message is
// git's own output and is passed through verbatim.
func ErrToolFailure(message string) *Error {
	return &Error{Kind: KindToolFailure, Message: message}
}
