// Package logger builds the zerolog logger used across worktree-agent.
//
// Logs always go to stderr so they never mix with results on stdout. When
// stderr is a terminal the output is human-formatted; otherwise it is JSON.
// An optional log file is rotated with lumberjack.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn, error, disabled. Unknown values mean warn.
	Level string

	// Verbose forces debug level regardless of Level.
	Verbose bool

	// File, when set, receives a JSON copy of every log line.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	// Out overrides stderr. Used by tests.
	Out io.Writer
}

// ParseLevel converts a level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}

// New builds a logger from opts. The returned closer releases the log file
// and must be called before exit; it is a no-op when no file is configured.
func New(opts Options) (zerolog.Logger, io.Closer) {
	level := ParseLevel(opts.Level)
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	console := consoleWriter(out)

	var closer io.Closer = nopCloser{}
	writer := console
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		closer = file
		writer = zerolog.MultiLevelWriter(console, file)
	}

	log := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()
	return log, closer
}

// consoleWriter pretty-prints for terminals and passes JSON through otherwise.
func consoleWriter(out io.Writer) io.Writer {
	f, ok := out.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
