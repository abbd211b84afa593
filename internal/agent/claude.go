package agent

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/uuid"
)

// ClaudeAgent invokes the Claude CLI as a subprocess. It supports persistent
// sessions: StartSession pins a session ID, the first call creates the
// backend session with --session-id, and subsequent calls resume it, so only
// incremental payloads need to be sent.
type ClaudeAgent struct {
	command string
	model   string

	sessionID string
	resumable bool // at least one call has been made against the session
}

// NewClaude creates a Claude agent with the specified command path.
// If command is empty, defaults to "claude".
func NewClaude(command, model string) *ClaudeAgent {
	if command == "" {
		command = "claude"
	}
	return &ClaudeAgent{command: command, model: model}
}

// Name returns the backend identifier.
func (a *ClaudeAgent) Name() string {
	return "claude"
}

// StartSession pins a fresh session ID for this run.
func (a *ClaudeAgent) StartSession(ctx context.Context) error {
	if a.sessionID != "" {
		return ErrSessionActive
	}
	a.sessionID = uuid.NewString()
	a.resumable = false
	return nil
}

// EndSession forgets the pinned session. The CLI keeps the transcript on
// disk; nothing needs to be torn down remotely.
func (a *ClaudeAgent) EndSession() error {
	a.sessionID = ""
	a.resumable = false
	return nil
}

// SessionActive reports whether a session ID is pinned.
func (a *ClaudeAgent) SessionActive() bool {
	return a.sessionID != ""
}

// Chat executes the Claude CLI once and returns the full response text.
func (a *ClaudeAgent) Chat(ctx context.Context, messages []Message, system string) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyPayload
	}

	args := a.buildArgs(messages, system, false)
	out, err := a.run(ctx, args)
	if err != nil {
		return "", err
	}
	a.markResumable()
	return strings.TrimSpace(out), nil
}

// ChatStream executes the Claude CLI with stream-json output, delivering
// text deltas through onChunk as they arrive.
func (a *ClaudeAgent) ChatStream(ctx context.Context, messages []Message, system string, onChunk func(string)) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyPayload
	}

	args := a.buildArgs(messages, system, true)
	cmd := exec.CommandContext(ctx, a.command, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("claude stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("claude start: %w", err)
	}

	var full strings.Builder
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		for _, chunk := range parseStreamLine(line) {
			full.WriteString(chunk)
			if onChunk != nil {
				onChunk(chunk)
			}
		}
	}
	scanErr := scanner.Err()

	if err := cmd.Wait(); err != nil {
		return "", wrapExitError("claude", err, stderr.String())
	}
	if scanErr != nil {
		return "", fmt.Errorf("claude stream read: %w", scanErr)
	}

	a.markResumable()
	return strings.TrimSpace(full.String()), nil
}

// buildArgs constructs the command-line arguments for the claude binary.
func (a *ClaudeAgent) buildArgs(messages []Message, system string, stream bool) []string {
	args := make([]string, 0, 12)
	args = append(args, "--print", "--dangerously-skip-permissions")

	if a.model != "" {
		args = append(args, "--model", a.model)
	}
	if system != "" {
		args = append(args, "--append-system-prompt", system)
	}
	if a.sessionID != "" {
		if a.resumable {
			args = append(args, "--resume", a.sessionID)
		} else {
			args = append(args, "--session-id", a.sessionID)
		}
	}
	if stream {
		args = append(args, "--output-format", "stream-json", "--verbose")
	}

	args = append(args, "-p", FlattenMessages(messages))
	return args
}

func (a *ClaudeAgent) run(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, a.command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", wrapExitError("claude", err, stderr.String())
	}
	return stdout.String(), nil
}

// markResumable records that the pinned session now exists backend-side,
// so the next call must resume rather than re-create it.
func (a *ClaudeAgent) markResumable() {
	if a.sessionID != "" {
		a.resumable = true
	}
}

func wrapExitError(backend string, err error, stderr string) error {
	exitCode := -1
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	}
	return &ExecutionError{
		Backend:  backend,
		ExitCode: exitCode,
		Stderr:   strings.TrimSpace(stderr),
		Err:      err,
	}
}
