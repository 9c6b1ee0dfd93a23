package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shinji-kodama/worktree-agent/internal/model"
)

// ChangeDirDirective prefixes the line a host parses to change its working
// directory after a successful switch.
const ChangeDirDirective = "WORKTREE_CD="

// RenderResult formats a successful result as the text a host displays.
func RenderResult(res *model.Result) string {
	switch res.Operation {
	case model.OpList:
		return renderList(res.Entries)
	case model.OpCreate:
		return fmt.Sprintf("Created worktree at %s\nBranch: %s\nBase: %s", res.Path, res.Branch, res.Base)
	case model.OpRemove:
		return "Removed worktree: " + res.Path
	case model.OpSwitch:
		return fmt.Sprintf("Switched to worktree: %s\n%s%s", res.Path, ChangeDirDirective, res.ChangeDir)
	default:
		return ""
	}
}

// renderList numbers entries from 1, the same positions Resolve accepts.
func renderList(entries []model.WorktreeEntry) string {
	if len(entries) == 0 {
		return "No worktrees found"
	}

	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		label := e.DisplayBranch()
		if e.IsMain {
			label += " (main)"
		}
		lines = append(lines, fmt.Sprintf("%d. %s - %s", i+1, label, e.Path))
	}
	return strings.Join(lines, "\n")
}

// RenderError formats err as a single "Error: ..." line. A not-found error
// with suggestions names the closest match. Multi-line messages, such as git
// output with progress before the failure, are reduced by singleLine.
func RenderError(err error) string {
	var modelErr *model.Error
	if !errors.As(err, &modelErr) {
		return "Error: " + singleLine(err.Error())
	}

	msg := "Error: " + singleLine(modelErr.Message)
	if modelErr.Kind == model.KindNotFound && len(modelErr.Suggestions) > 0 {
		msg += fmt.Sprintf(" Closest match: %s.", modelErr.Suggestions[0])
	}
	return msg
}

// causePrefixes mark the lines git uses to report why a command failed.
var causePrefixes = []string{"fatal:", "error:"}

// singleLine returns msg unchanged when it is one line. Otherwise it returns
// the last line carrying a git failure prefix, or all non-blank lines joined
// with "; " when there is none.
func singleLine(msg string) string {
	var lines []string
	for _, line := range strings.Split(msg, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) <= 1 {
		return strings.Join(lines, "")
	}

	for i := len(lines) - 1; i >= 0; i-- {
		for _, prefix := range causePrefixes {
			if strings.HasPrefix(strings.ToLower(lines[i]), prefix) {
				return lines[i]
			}
		}
	}
	return strings.Join(lines, "; ")
}

// errorJSON builds the {"error": {...}} object printed with --json.
func errorJSON(err error) map[string]any {
	obj := map[string]any{"message": err.Error()}

	var modelErr *model.Error
	if errors.As(err, &modelErr) {
		obj["kind"] = modelErr.Kind
		obj["exitCode"] = modelErr.Kind.ExitCode()
		if len(modelErr.Suggestions) > 0 {
			obj["suggestions"] = modelErr.Suggestions
		}
		if modelErr.Err != nil {
			obj["detail"] = modelErr.Err.Error()
		}
	} else {
		obj["kind"] = "internal"
		obj["exitCode"] = model.ExitGeneralError
	}

	return map[string]any{"error": obj}
}

// printResult writes res as text or, with --json, as the Result object.
func printResult(w io.Writer, res *model.Result) {
	if jsonOutput {
		writeJSON(w, res)
		return
	}
	fmt.Fprintln(w, RenderResult(res))
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "{\"error\": {\"message\": %q}}\n", err.Error())
		return
	}
	fmt.Fprintln(w, string(data))
}
