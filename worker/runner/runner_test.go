package runner

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExecRunner_CapturesStdout(t *testing.T) {
	out, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo hello")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strings.TrimSpace(out.Stdout) != "hello" {
		t.Errorf("Expected stdout 'hello', got %q", out.Stdout)
	}
	if out.ExitCode != 0 {
		t.Errorf("Expected exit code 0, got %d", out.ExitCode)
	}
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	out, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	if err == nil {
		t.Fatal("Expected error for non-zero exit, got nil")
	}

	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("Expected ToolError, got %T: %v", err, err)
	}
	if toolErr.ExitCode != 3 {
		t.Errorf("Expected exit code 3, got %d", toolErr.ExitCode)
	}
	if out.ExitCode != 3 {
		t.Errorf("Expected captured exit code 3, got %d", out.ExitCode)
	}
	if !strings.Contains(toolErr.Stderr, "boom") {
		t.Errorf("Expected stderr to contain 'boom', got %q", toolErr.Stderr)
	}
	if !strings.Contains(toolErr.Error(), "exited with code 3") {
		t.Errorf("Unexpected error message: %v", toolErr)
	}
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), "definitely-not-a-real-binary")
	if err == nil {
		t.Fatal("Expected error for missing binary, got nil")
	}

	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		t.Errorf("Expected a start error, got ToolError: %v", toolErr)
	}
}
