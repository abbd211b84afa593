package agent

import "context"

// Role identifies the author side of a message in an ordered payload.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of an ordered request payload.
type Message struct {
	Role    Role
	Content string
}

// Agent is the uniform capability every debate participant is consumed
// through: a one-shot call and a streaming variant. The concatenation of
// all chunks delivered by ChatStream equals the one-shot response.
type Agent interface {
	// Name returns the backend identifier for logging/events.
	Name() string

	// Chat sends ordered messages plus a system instruction and returns
	// the full response text.
	Chat(ctx context.Context, messages []Message, system string) (string, error)

	// ChatStream behaves like Chat but delivers the response incrementally
	// through onChunk before returning the full concatenated text.
	ChatStream(ctx context.Context, messages []Message, system string, onChunk func(chunk string)) (string, error)
}

// SessionAgent is an Agent whose backend maintains server-side conversation
// memory for the lifetime of a session. Callers probe for this interface
// once per run; a reviewer backed by an active session only needs
// incremental payloads.
type SessionAgent interface {
	Agent

	// StartSession begins a persistent backend session.
	StartSession(ctx context.Context) error

	// EndSession terminates the session. Safe to call when none is active.
	EndSession() error

	// SessionActive reports whether a session is currently active.
	SessionActive() bool
}

// UserMessage is a convenience constructor for a single-message payload.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}
