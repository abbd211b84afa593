package agent

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPayload indicates a call was made with no messages.
	ErrEmptyPayload = errors.New("request payload cannot be empty")

	// ErrSessionActive indicates StartSession was called twice.
	ErrSessionActive = errors.New("session already active")
)

// ExecutionError wraps a backend CLI failure with its exit code.
type ExecutionError struct {
	Backend  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecutionError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s execution failed (exit %d): %s", e.Backend, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s execution failed (exit %d): %v", e.Backend, e.ExitCode, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
