package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/worktree-agent/internal/model"
)

// Request is one generic invocation from a host: an operation name plus the
// union of every handler's arguments. Arguments an operation does not use
// are ignored.
type Request struct {
	Operation string `json:"operation"`
	Branch    string `json:"branch,omitempty"`
	Base      string `json:"base,omitempty"`
	Path      string `json:"path,omitempty"`
	Target    Arg    `json:"target,omitempty"`
	Force     bool   `json:"force,omitempty"`
}

// Arg is a string argument that also accepts a JSON number, so hosts may
// send {"target": 2} as well as {"target": "2"}.
type Arg string

// UnmarshalJSON accepts a JSON string, number, or null.
func (a *Arg) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Arg(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("expected an integer index, got %s", n)
	}
	*a = Arg(n.String())
	return nil
}

// DecodeRequest parses a request object. Comments and trailing commas
// (JSONC) are accepted. Malformed input is a KindInvalidArgument error.
func DecodeRequest(data []byte) (Request, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Request{}, model.ErrInvalidArgument("request", "empty, expected a JSON object")
	}

	var req Request
	if err := json.Unmarshal(jsonc.ToJSON(data), &req); err != nil {
		invalid := model.ErrInvalidArgument("request", err.Error())
		invalid.Err = err
		return Request{}, invalid
	}
	return req, nil
}

// Dispatch validates req's required arguments and runs the matching handler.
// Missing arguments and unknown operations are returned as *model.Error.
func (s *Service) Dispatch(ctx context.Context, req Request) (*model.Result, error) {
	op := model.Operation(strings.ToLower(strings.TrimSpace(req.Operation)))

	switch op {
	case model.OpList:
		return s.List(ctx)

	case model.OpCreate:
		if strings.TrimSpace(req.Branch) == "" {
			return nil, model.ErrMissingArgument("branch", op)
		}
		return s.Create(ctx, CreateRequest{Branch: req.Branch, Base: req.Base, Path: req.Path})

	case model.OpRemove:
		target, err := requireTarget(req, op)
		if err != nil {
			return nil, err
		}
		return s.Remove(ctx, target, req.Force)

	case model.OpSwitch:
		target, err := requireTarget(req, op)
		if err != nil {
			return nil, err
		}
		return s.Switch(ctx, target)

	default:
		return nil, model.ErrUnknownOperation(req.Operation)
	}
}

func requireTarget(req Request, op model.Operation) (model.Target, error) {
	raw := strings.TrimSpace(string(req.Target))
	if raw == "" {
		return model.Target{}, model.ErrMissingArgument("target", op)
	}
	return model.ParseTarget(raw), nil
}
