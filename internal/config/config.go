// Package config loads the optional worktree-agent configuration file.
//
// Configuration is a small YAML document. Every key has a default, so a
// missing file is not an error. The file is located in this order:
//
//  1. $WORKTREE_AGENT_CONFIG, if set
//  2. .worktree-agent.yaml in the working directory or any parent
//  3. $XDG_CONFIG_HOME/worktree-agent/config.yaml (or the OS equivalent)
//
// Environment variables WORKTREE_AGENT_GIT and WORKTREE_AGENT_LOG_LEVEL
// override the corresponding file values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the per-repository config file name.
	FileName = ".worktree-agent.yaml"

	// EnvConfig points at an explicit config file.
	EnvConfig = "WORKTREE_AGENT_CONFIG"

	// EnvGit overrides git_binary.
	EnvGit = "WORKTREE_AGENT_GIT"

	// EnvLogLevel overrides log.level.
	EnvLogLevel = "WORKTREE_AGENT_LOG_LEVEL"
)

// Ref lookup backends for the branch-exists check.
const (
	RefLookupGit   = "git"
	RefLookupGoGit = "go-git"
)

// Config holds all settings. Zero values are replaced by Default() values
// during Load.
type Config struct {
	// GitBinary is the git executable name or path.
	GitBinary string `yaml:"git_binary"`

	// BranchPrefix namespaces branches created by `create`.
	BranchPrefix string `yaml:"branch_prefix"`

	// DefaultBase is the start point for new branches when none is given.
	DefaultBase string `yaml:"default_base"`

	// RefLookup selects how branch existence is checked: "git" or "go-git".
	RefLookup string `yaml:"ref_lookup"`

	// CommandTimeout bounds a whole operation. Zero means no timeout.
	CommandTimeout time.Duration `yaml:"command_timeout"`

	Log LogConfig `yaml:"log"`
}

// LogConfig configures logging. File logging is off unless File is set.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		GitBinary:    "git",
		BranchPrefix: "worktree/",
		DefaultBase:  "HEAD",
		RefLookup:    RefLookupGit,
		Log: LogConfig{
			Level:      "warn",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Load finds and reads the config file for dir, applies defaults and
// environment overrides, and validates the result. explicit, when non-empty,
// is used instead of searching. It returns the path that was read, or ""
// when no file was found.
func Load(dir, explicit string) (*Config, string, error) {
	path := explicit
	if path == "" {
		path = Find(dir)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, "", fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config %s: %w", displayPath(path), err)
	}
	return cfg, path, nil
}

// Find returns the config file that applies to dir, or "" if there is none.
func Find(dir string) string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}

	if abs, err := filepath.Abs(dir); err == nil {
		for d := abs; ; d = filepath.Dir(d) {
			candidate := filepath.Join(d, FileName)
			if fileExists(candidate) {
				return candidate
			}
			if filepath.Dir(d) == d {
				break
			}
		}
	}

	if base, err := os.UserConfigDir(); err == nil {
		candidate := filepath.Join(base, "worktree-agent", "config.yaml")
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// Validate checks enumerated and required values.
func (c *Config) Validate() error {
	switch c.RefLookup {
	case RefLookupGit, RefLookupGoGit:
	default:
		return fmt.Errorf("ref_lookup must be %q or %q, got %q", RefLookupGit, RefLookupGoGit, c.RefLookup)
	}
	if strings.TrimSpace(c.BranchPrefix) == "" {
		return errors.New("branch_prefix must not be empty")
	}
	if c.CommandTimeout < 0 {
		return fmt.Errorf("command_timeout must not be negative, got %s", c.CommandTimeout)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, disabled, got %q", c.Log.Level)
	}
	return nil
}

// decode parses YAML into cfg, rejecting unknown keys so typos surface.
// An empty document leaves cfg untouched.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvGit); v != "" {
		cfg.GitBinary = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

// fillDefaults restores defaults for keys a file explicitly left empty.
func (c *Config) fillDefaults() {
	d := Default()
	if c.GitBinary == "" {
		c.GitBinary = d.GitBinary
	}
	if c.DefaultBase == "" {
		c.DefaultBase = d.DefaultBase
	}
	if c.RefLookup == "" {
		c.RefLookup = d.RefLookup
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func displayPath(path string) string {
	if path == "" {
		return "(defaults)"
	}
	return path
}
