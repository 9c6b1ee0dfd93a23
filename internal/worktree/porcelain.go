package worktree

import (
	"strings"

	"github.com/shinji-kodama/worktree-agent/internal/model"
)

// headsPrefix is stripped from "branch" lines to get the short branch name.
const headsPrefix = "refs/heads/"

// ParsePorcelain parses the output of `git worktree list --porcelain` into
// worktree entries, preserving git's order.
//
// Blocks are separated by blank lines. Within a block each line is a key,
// optionally followed by a space and a value:
//
//	worktree /path/to/main
//	HEAD abc123
//	branch refs/heads/main
//
//	worktree /path/to/feature
//	HEAD def456
//	detached
//
// Lines with unknown keys ("locked", "prunable", "detached", ...) are
// ignored. The first entry is the main worktree and is marked IsMain.
func ParsePorcelain(output string) []model.WorktreeEntry {
	var entries []model.WorktreeEntry

	var current *model.WorktreeEntry
	flush := func() {
		if current != nil && current.Path != "" {
			entries = append(entries, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")

		// A blank line ends the current block.
		if line == "" {
			flush()
			continue
		}

		key, value, _ := strings.Cut(line, " ")

		if key == "worktree" {
			// Output may omit the separating blank line; never drop a block.
			flush()
			current = &model.WorktreeEntry{Path: value}
			continue
		}
		if current == nil {
			continue
		}

		switch key {
		case "HEAD":
			current.Commit = value
		case "branch":
			current.Branch = strings.TrimPrefix(value, headsPrefix)
		case "bare":
			current.IsBare = true
		}
	}

	// The last block may not be followed by a blank line.
	flush()

	if len(entries) > 0 {
		entries[0].IsMain = true
	}
	return entries
}
