package agent

import "fmt"

// Type identifies which backend CLI to use.
type Type string

const (
	// TypeClaude uses the Claude CLI (default).
	TypeClaude Type = "claude"

	// TypeCodex uses the OpenAI Codex CLI.
	TypeCodex Type = "codex"
)

// Config holds agent backend configuration.
type Config struct {
	// Type specifies which backend to use (defaults to "claude" if empty).
	Type Type

	// Command is the path to the backend CLI executable.
	// If empty, uses the default command name ("claude" or "codex").
	Command string

	// Model selects a specific model (optional).
	Model string
}

// FromConfig creates an Agent based on the configuration.
// Returns an error for unsupported backend types.
func FromConfig(cfg Config) (Agent, error) {
	backend := cfg.Type
	if backend == "" {
		backend = TypeClaude
	}

	switch backend {
	case TypeClaude:
		return NewClaude(cfg.Command, cfg.Model), nil
	case TypeCodex:
		return NewCodex(cfg.Command, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported agent type: %q", backend)
	}
}
