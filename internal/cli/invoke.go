package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/worktree-agent/internal/model"
	"github.com/shinji-kodama/worktree-agent/internal/service"
)

// NewInvokeCommand creates the "invoke" cobra command, the entry point for
// assistant hosts. It takes one request object and always answers on stdout:
// the rendered result on success, or the "Error: ..." line for any failure,
// including a malformed request or config. The exit code still reflects the
// failure class.
func NewInvokeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "invoke [request | -]",
		Short: "Run one operation described by a JSON request",
		Long: `Run one operation described by a JSON request object.

The request is read from the argument, or from stdin when the argument is
omitted or "-". Comments and trailing commas are allowed.

  {
    "operation": "list" | "create" | "remove" | "switch",
    "branch": "...",   // create
    "base": "...",     // create, optional
    "path": "...",     // create, optional
    "target": "..." | 2, // remove, switch
    "force": true      // remove, optional
  }

Examples:
  worktree-agent invoke '{"operation": "list"}'
  echo '{"operation": "remove", "target": 2, "force": true}' | worktree-agent invoke`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoke(cmd, args)
		},
	}
}

// runInvoke prints the outcome on stdout. Failures are returned as
// reportedError so Execute only sets the exit code.
func runInvoke(cmd *cobra.Command, args []string) error {
	res, err := invoke(cmd, args)
	if err != nil {
		printError(cmd.OutOrStdout(), err)

		code := model.ExitGeneralError
		var modelErr *model.Error
		if errors.As(err, &modelErr) {
			code = modelErr.Kind.ExitCode()
		}
		return &reportedError{code: code, err: err}
	}

	printResult(cmd.OutOrStdout(), res)
	return nil
}

// invoke reads and decodes the request, then dispatches it.
func invoke(cmd *cobra.Command, args []string) (*model.Result, error) {
	data, err := readRequest(cmd.InOrStdin(), args)
	if err != nil {
		return nil, err
	}

	req, err := service.DecodeRequest(data)
	if err != nil {
		return nil, err
	}

	s, err := newSession(cmd)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	ctx, cancel := s.context(cmd.Context())
	defer cancel()

	s.log.Debug().Str("operation", req.Operation).Msg("invoke")
	return s.svc.Dispatch(ctx, req)
}

// readRequest returns the request text from args[0], or from in when no
// argument or "-" was given.
func readRequest(in io.Reader, args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		return []byte(args[0]), nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("reading request from stdin: %w", err)
	}
	return data, nil
}
