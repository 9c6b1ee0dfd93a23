package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/worktree-agent/internal/model"
	"github.com/shinji-kodama/worktree-agent/internal/runner"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Request
	}{
		{
			name:  "plain JSON",
			input: `{"operation": "create", "branch": "feat", "base": "main", "path": "../x"}`,
			want:  Request{Operation: "create", Branch: "feat", Base: "main", Path: "../x"},
		},
		{
			name:  "numeric target",
			input: `{"operation": "remove", "target": 2, "force": true}`,
			want:  Request{Operation: "remove", Target: "2", Force: true},
		},
		{
			name:  "string target",
			input: `{"operation": "switch", "target": "feat"}`,
			want:  Request{Operation: "switch", Target: "feat"},
		},
		{
			name:  "null target",
			input: `{"operation": "switch", "target": null}`,
			want:  Request{Operation: "switch"},
		},
		{
			name: "comments and trailing comma",
			input: `{
				// remove the second worktree
				"operation": "remove",
				"target": "2", /* by index */
			}`,
			want: Request{Operation: "remove", Target: "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRequest([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeRequestErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not an object", `[1, 2]`},
		{"fractional target", `{"target": 1.5}`},
		{"boolean target", `{"target": true}`},
		{"truncated", `{"operation": "list"`},
		{"empty", " \n\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRequest([]byte(tt.input))
			modelErr := requireKind(t, err, model.KindInvalidArgument)
			assert.True(t, strings.HasPrefix(modelErr.Message, "Invalid request: "), modelErr.Message)
		})
	}
}

func TestDispatchValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		kind    model.ErrorKind
		message string
	}{
		{
			name:    "create without branch",
			req:     Request{Operation: "create"},
			kind:    model.KindMissingArgument,
			message: "'branch' is required for create",
		},
		{
			name:    "remove without target",
			req:     Request{Operation: "remove", Force: true},
			kind:    model.KindMissingArgument,
			message: "'target' is required for remove",
		},
		{
			name:    "switch with blank target",
			req:     Request{Operation: "switch", Target: "  "},
			kind:    model.KindMissingArgument,
			message: "'target' is required for switch",
		},
		{
			name:    "unknown operation",
			req:     Request{Operation: "rename"},
			kind:    model.KindUnknownOperation,
			message: "Unknown operation 'rename'. Valid operations: list, create, remove, switch",
		},
		{
			name:    "empty operation",
			req:     Request{},
			kind:    model.KindUnknownOperation,
			message: "Unknown operation ''. Valid operations: list, create, remove, switch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.svc.Dispatch(context.Background(), tt.req)

			modelErr := requireKind(t, err, tt.kind)
			assert.Equal(t, tt.message, modelErr.Message)
			assert.Empty(t, f.fake.Commands(), "validation runs before any git command")
		})
	}
}

func TestDispatchRoutes(t *testing.T) {
	f := newFixture(t)
	linked := f.withLinked(t)

	res, err := f.svc.Dispatch(context.Background(), Request{Operation: " LIST "})
	require.NoError(t, err)
	assert.Equal(t, model.OpList, res.Operation)
	assert.Len(t, res.Entries, 2)

	res, err = f.svc.Dispatch(context.Background(), Request{Operation: "switch", Target: "2"})
	require.NoError(t, err)
	assert.Equal(t, linked, res.ChangeDir)

	f.fake.Set(runner.Output{}, "git", "worktree", "remove", "--force", linked)
	f.fake.Set(runner.Output{}, "git", "branch", "-D", "worktree/feat")
	res, err = f.svc.Dispatch(context.Background(), Request{Operation: "remove", Target: "feat", Force: true})
	require.NoError(t, err)
	assert.Equal(t, model.OpRemove, res.Operation)
	assert.Equal(t, linked, res.Path)
}

func TestDispatchCreate(t *testing.T) {
	f := newFixture(t)
	f.branchExists("worktree/feat", true)

	_, err := f.svc.Dispatch(context.Background(), Request{Operation: "create", Branch: "feat"})
	requireKind(t, err, model.KindBranchExists)
}
