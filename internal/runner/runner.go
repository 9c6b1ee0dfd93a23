// Package runner is the process execution boundary of worktree-agent.
//
// Every git invocation goes through the Runner interface, which is passed
// explicitly to the packages that need it. Exec is the os/exec backed
// implementation, Logged decorates any Runner with debug logging, and Fake
// is a scripted Runner for tests.
//
// A Runner never returns an error for a command that ran and exited
// non-zero: the exit code is part of Output. An error means the process
// could not be started at all (or the context ended), and callers treat it
// as a hard failure.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode"
)

// Output is the captured result of one command.
type Output struct {
	// Stdout with trailing whitespace trimmed.
	Stdout string

	// Stderr with leading and trailing whitespace trimmed.
	Stderr string

	// ExitCode is the process exit status. 0 means success.
	ExitCode int
}

// Success reports whether the command exited with status 0.
func (o Output) Success() bool {
	return o.ExitCode == 0
}

// Message returns stderr, falling back to stdout when stderr is empty.
// This is the text reported to the user when a command fails.
func (o Output) Message() string {
	if o.Stderr != "" {
		return o.Stderr
	}
	return o.Stdout
}

// Runner executes an external command in a working directory.
// args[0] is the program, the rest are its arguments.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (Output, error)
}

// ErrSpawn is wrapped by every error Exec returns for a process that could not be started.
var ErrSpawn = errors.New("failed to start process")

// Exec runs commands with os/exec.
type Exec struct{}

// NewExec creates a new Exec runner.
func NewExec() *Exec {
	return &Exec{}
}

// Run starts args[0] with the remaining arguments in dir and waits for it.
//
// Cancelling ctx kills the process; Run then returns ctx's error rather than
// the kill's exit status. No timeout is applied otherwise.
func (e *Exec) Run(ctx context.Context, dir string, args ...string) (Output, error) {
	if len(args) == 0 {
		return Output{}, fmt.Errorf("%w: empty command", ErrSpawn)
	}

	// #nosec G204 -- args are built by this program, user input is only ever an argument
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{
		Stdout: strings.TrimRightFunc(stdout.String(), unicode.IsSpace),
		Stderr: strings.TrimSpace(stderr.String()),
	}
	if err == nil {
		return out, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, fmt.Errorf("%s: %w", strings.Join(args, " "), ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}

	return out, fmt.Errorf("%w %q: %w", ErrSpawn, args[0], err)
}
