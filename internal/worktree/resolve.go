package worktree

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/shinji-kodama/worktree-agent/internal/model"
)

// maxSuggestions caps the paths offered when a target is not found.
const maxSuggestions = 3

// Resolve finds the entry a target refers to.
//
// A ByIndex target within [1, len(entries)] selects by 1-based position.
// Otherwise the target's text is compared with each path, in list order,
// and the first path that equals it or ends with it wins. When nothing
// matches, Resolve returns a KindNotFound error carrying fuzzy suggestions.
func Resolve(entries []model.WorktreeEntry, target model.Target) (model.WorktreeEntry, error) {
	if n, ok := target.Index(); ok && n >= 1 && n <= len(entries) {
		return entries[n-1], nil
	}

	raw := target.String()
	if raw != "" {
		for _, e := range entries {
			if e.Path == raw || strings.HasSuffix(e.Path, raw) {
				return e, nil
			}
		}
	}

	return model.WorktreeEntry{}, model.ErrNotFound(target, suggest(raw, entries))
}

// suggest returns the worktree paths that fuzzily match raw, best first.
func suggest(raw string, entries []model.WorktreeEntry) []string {
	if raw == "" || len(entries) == 0 {
		return nil
	}

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}

	matches := fuzzy.Find(raw, paths)
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}

	var out []string
	for _, m := range matches {
		out = append(out, m.Str)
	}
	return out
}
