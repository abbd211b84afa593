package agent

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// CodexAgent invokes the OpenAI Codex CLI as a subprocess. The backend has
// no persistent session support, so callers must resend full context on
// every call.
type CodexAgent struct {
	command string
	model   string
}

// NewCodex creates a Codex agent with the specified command path.
// If command is empty, defaults to "codex".
func NewCodex(command, model string) *CodexAgent {
	if command == "" {
		command = "codex"
	}
	return &CodexAgent{command: command, model: model}
}

// Name returns the backend identifier.
func (a *CodexAgent) Name() string {
	return "codex"
}

// Chat executes the Codex CLI once and returns the full response text.
func (a *CodexAgent) Chat(ctx context.Context, messages []Message, system string) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyPayload
	}

	cmd := exec.CommandContext(ctx, a.command, a.buildArgs(messages, system)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", wrapExitError("codex", err, stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}

// ChatStream degrades to a one-shot call delivered as a single chunk; the
// concatenation contract still holds.
func (a *CodexAgent) ChatStream(ctx context.Context, messages []Message, system string, onChunk func(string)) (string, error) {
	text, err := a.Chat(ctx, messages, system)
	if err != nil {
		return "", err
	}
	if onChunk != nil && text != "" {
		onChunk(text)
	}
	return text, nil
}

// buildArgs constructs the command-line arguments for the codex binary.
// Codex has no system-prompt flag, so the instruction is prepended to the
// prompt itself.
func (a *CodexAgent) buildArgs(messages []Message, system string) []string {
	args := make([]string, 0, 6)
	args = append(args, "exec", "--skip-git-repo-check")

	if a.model != "" {
		args = append(args, "--model", a.model)
	}

	prompt := FlattenMessages(messages)
	if system != "" {
		prompt = system + "\n\n" + prompt
	}
	args = append(args, prompt)
	return args
}
