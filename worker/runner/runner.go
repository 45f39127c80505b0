package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Output captures everything one external invocation produced.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ToolError reports a tool that ran and exited non-zero. The captured stderr
// tail ends up in the job's error_message, so it is kept short.
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s exited with code %d: %s", e.Tool, e.ExitCode, tail(e.Stderr, 500))
}

// Runner executes an external tool with a discrete argument list. Arguments
// are never interpolated into a shell string.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

// ExecRunner runs tools via os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		out.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			return out, &ToolError{
				Tool:     name,
				Args:     args,
				ExitCode: out.ExitCode,
				Stderr:   out.Stderr,
			}
		}
		return out, fmt.Errorf("starting %s: %w", name, err)
	}
	return out, nil
}

func tail(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}
