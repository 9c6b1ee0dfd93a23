package runner

import (
	"context"
	"strings"
	"sync"
)

// Call records one invocation made through a Fake.
type Call struct {
	Dir  string
	Args []string
}

// String returns the command line of the call.
func (c Call) String() string {
	return strings.Join(c.Args, " ")
}

// Fake is a scripted Runner. Responses are keyed by the full command line;
// a command with no scripted response exits 127 so that an unexpected call
// fails loudly instead of silently succeeding.
type Fake struct {
	mu        sync.Mutex
	responses map[string]Output
	errs      map[string]error
	calls     []Call
}

// NewFake creates a Fake with no scripted responses.
func NewFake() *Fake {
	return &Fake{
		responses: make(map[string]Output),
		errs:      make(map[string]error),
	}
}

// Set scripts the Output returned for the command line args.
func (f *Fake) Set(out Output, args ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[strings.Join(args, " ")] = out
	return f
}

// SetError scripts a spawn failure for the command line args.
func (f *Fake) SetError(err error, args ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[strings.Join(args, " ")] = err
	return f
}

// Run records the call and returns the scripted response.
func (f *Fake) Run(_ context.Context, dir string, args ...string) (Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Dir: dir, Args: append([]string(nil), args...)})

	key := strings.Join(args, " ")
	if err, ok := f.errs[key]; ok {
		return Output{}, err
	}
	if out, ok := f.responses[key]; ok {
		return out, nil
	}
	return Output{ExitCode: 127, Stderr: "fake: unscripted command: " + key}, nil
}

// Calls returns every recorded invocation in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Commands returns the command line of every recorded invocation.
func (f *Fake) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmds := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		cmds = append(cmds, c.String())
	}
	return cmds
}

// Called reports whether the command line args was invoked.
func (f *Fake) Called(args ...string) bool {
	key := strings.Join(args, " ")
	for _, cmd := range f.Commands() {
		if cmd == key {
			return true
		}
	}
	return false
}
