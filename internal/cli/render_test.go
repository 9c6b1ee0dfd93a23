package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/worktree-agent/internal/model"
)

// TestRenderResult verifies the text a host receives for each operation.
func TestRenderResult(t *testing.T) {
	tests := []struct {
		name string
		res  *model.Result
		want string
	}{
		{
			name: "empty list",
			res:  &model.Result{Operation: model.OpList},
			want: "No worktrees found",
		},
		{
			name: "list marks main and detached",
			res: &model.Result{Operation: model.OpList, Entries: []model.WorktreeEntry{
				{Path: "/repo", Branch: "main", IsMain: true},
				{Path: "/wt/feat", Branch: "worktree/feat"},
				{Path: "/wt/old"},
			}},
			want: "1. main (main) - /repo\n2. worktree/feat - /wt/feat\n3. detached - /wt/old",
		},
		{
			name: "create",
			res:  &model.Result{Operation: model.OpCreate, Path: "/wt/x", Branch: "worktree/x", Base: "main"},
			want: "Created worktree at /wt/x\nBranch: worktree/x\nBase: main",
		},
		{
			name: "remove",
			res:  &model.Result{Operation: model.OpRemove, Path: "/wt/x", Branch: "worktree/x", BranchDeleted: true},
			want: "Removed worktree: /wt/x",
		},
		{
			name: "switch",
			res:  &model.Result{Operation: model.OpSwitch, Path: "/wt/x", ChangeDir: "/wt/x"},
			want: "Switched to worktree: /wt/x\nWORKTREE_CD=/wt/x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderResult(tt.res))
		})
	}
}

func TestRenderError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "not repository",
			err:  model.ErrNotRepository(),
			want: "Error: Not a git repository",
		},
		{
			name: "not found without suggestions",
			err:  model.ErrNotFound(model.ParseTarget("9"), nil),
			want: "Error: Worktree '9' not found. Use 'list' to see available worktrees.",
		},
		{
			name: "not found names the closest match",
			err:  model.ErrNotFound(model.ParseTarget("fet"), []string{"/wt/feat", "/wt/fetch"}),
			want: "Error: Worktree 'fet' not found. Use 'list' to see available worktrees. Closest match: /wt/feat.",
		},
		{
			name: "dirty",
			err:  model.ErrDirtyWorktree("/wt/x", errors.New("fatal: '/wt/x' contains modified or untracked files")),
			want: "Error: Worktree '/wt/x' has uncommitted changes. Retry with force to remove it anyway.",
		},
		{
			name: "tool failure passes git's message through",
			err:  model.ErrToolFailure("fatal: invalid reference: nope"),
			want: "Error: fatal: invalid reference: nope",
		},
		{
			name: "progress before the cause keeps only the cause",
			err:  model.ErrToolFailure("Preparing worktree (new branch 'worktree/y')\nfatal: not a valid object name: 'nope'"),
			want: "Error: fatal: not a valid object name: 'nope'",
		},
		{
			name: "last failure line wins",
			err:  model.ErrToolFailure("error: first problem\r\nhint: try again\nfatal: final problem\n"),
			want: "Error: fatal: final problem",
		},
		{
			name: "lines without a failure prefix are joined",
			err:  model.ErrToolFailure("could not lock\n\nsomething else went wrong"),
			want: "Error: could not lock; something else went wrong",
		},
		{
			name: "plain error",
			err:  errors.New("git rev-parse --show-toplevel: exec: \"git\": executable file not found in $PATH"),
			want: "Error: git rev-parse --show-toplevel: exec: \"git\": executable file not found in $PATH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderError(tt.err))
		})
	}
}

// TestRenderErrorSingleLine verifies every rendered failure is one line.
func TestRenderErrorSingleLine(t *testing.T) {
	errs := []error{
		model.ErrToolFailure("Preparing worktree (new branch 'worktree/a..b')\nfatal: 'worktree/a..b' is not a valid branch name"),
		model.ErrToolFailure("line one\nline two"),
		errors.New("wrapped:\nspawn failed"),
	}
	for _, err := range errs {
		got := RenderError(err)
		assert.NotContains(t, got, "\n")
		assert.True(t, strings.HasPrefix(got, "Error: "), got)
	}
}

// TestErrorJSONKeepsFullMessage verifies --json output keeps git's verbatim text.
func TestErrorJSONKeepsFullMessage(t *testing.T) {
	msg := "Preparing worktree (new branch 'worktree/y')\nfatal: not a valid object name: 'nope'"
	got := errorJSON(model.ErrToolFailure(msg))

	obj, ok := got["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, msg, obj["message"])
}

func TestErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	writeJSON(&buf, errorJSON(model.ErrDirtyWorktree("/wt/x", errors.New("is dirty"))))

	var got struct {
		Error struct {
			Kind     string `json:"kind"`
			Message  string `json:"message"`
			Detail   string `json:"detail"`
			ExitCode int    `json:"exitCode"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "dirty_worktree", got.Error.Kind)
	assert.Contains(t, got.Error.Message, "/wt/x")
	assert.Equal(t, "is dirty", got.Error.Detail)
	assert.Equal(t, int(model.ExitRefused), got.Error.ExitCode)
}

func TestErrorJSONPlainError(t *testing.T) {
	got := errorJSON(errors.New("boom"))

	obj, ok := got["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "boom", obj["message"])
	assert.Equal(t, "internal", obj["kind"])
}

func TestHandleErrorExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want model.ExitCode
	}{
		{"model error", model.ErrMainProtected(), model.ExitRefused},
		{"wrapped model error", errors.Join(errors.New("ctx"), model.ErrNotRepository()), model.ExitNotRepository},
		{"plain error", errors.New("boom"), model.ExitGeneralError},
		{"already reported", &reportedError{code: model.ExitNotFound, err: errors.New("x")}, model.ExitNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.want, handleError(&buf, tt.err))
		})
	}
}

func TestHandleErrorSkipsReported(t *testing.T) {
	var buf bytes.Buffer
	handleError(&buf, &reportedError{code: model.ExitUsage, err: errors.New("already shown")})
	assert.Empty(t, buf.String())
}
