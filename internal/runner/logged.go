package runner

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logged wraps a Runner and logs every command at debug level.
type Logged struct {
	next Runner
	log  zerolog.Logger
}

// WithLogging returns a Runner that logs each call made through next.
func WithLogging(next Runner, log zerolog.Logger) *Logged {
	return &Logged{next: next, log: log}
}

// Run delegates to the wrapped Runner.
func (l *Logged) Run(ctx context.Context, dir string, args ...string) (Output, error) {
	start := time.Now()
	out, err := l.next.Run(ctx, dir, args...)

	event := l.log.Debug()
	if err != nil {
		event = l.log.Warn().Err(err)
	}
	event.
		Str("dir", dir).
		Str("cmd", strings.Join(args, " ")).
		Int("exit", out.ExitCode).
		Dur("took", time.Since(start)).
		Msg("ran command")

	if err == nil && !out.Success() && out.Stderr != "" {
		l.log.Debug().Str("stderr", out.Stderr).Msg("command failed")
	}
	return out, err
}
