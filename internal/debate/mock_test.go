package debate

import (
	"context"
	"sync"
	"time"

	"github.com/RevCBH/parley/internal/agent"
	"github.com/RevCBH/parley/internal/events"
)

// capturedCall records one request delivered to a mock agent.
type capturedCall struct {
	Messages []agent.Message
	System   string
}

// mockAgent is a scripted stateless agent. Responses are returned in order;
// the last response repeats once the script runs out.
type mockAgent struct {
	mu        sync.Mutex
	name      string
	responses []string
	err       error
	delay     time.Duration
	calls     []capturedCall
}

func newMockAgent(name string, responses ...string) *mockAgent {
	return &mockAgent{name: name, responses: responses}
}

func (m *mockAgent) Name() string { return m.name }

func (m *mockAgent) Chat(ctx context.Context, messages []agent.Message, system string) (string, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}

	m.calls = append(m.calls, capturedCall{Messages: messages, System: system})
	i := len(m.calls) - 1
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	if i < 0 {
		return "", nil
	}
	return m.responses[i], nil
}

func (m *mockAgent) ChatStream(ctx context.Context, messages []agent.Message, system string, onChunk func(string)) (string, error) {
	text, err := m.Chat(ctx, messages, system)
	if err != nil {
		return "", err
	}
	if onChunk != nil && text != "" {
		onChunk(text)
	}
	return text, nil
}

func (m *mockAgent) capturedCalls() []capturedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]capturedCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// mockSessionAgent adds a session lifecycle so tests can exercise the
// incremental visibility path.
type mockSessionAgent struct {
	mockAgent
	active bool
	starts int
	ends   int
}

func newMockSessionAgent(name string, responses ...string) *mockSessionAgent {
	return &mockSessionAgent{mockAgent: mockAgent{name: name, responses: responses}}
}

func (m *mockSessionAgent) StartSession(ctx context.Context) error {
	if m.active {
		return agent.ErrSessionActive
	}
	m.active = true
	m.starts++
	return nil
}

func (m *mockSessionAgent) EndSession() error {
	m.active = false
	m.ends++
	return nil
}

func (m *mockSessionAgent) SessionActive() bool { return m.active }

// mockPublisher records every emitted event.
type mockPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *mockPublisher) Emit(e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *mockPublisher) ofType(t events.EventType) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// scriptedInterjections replays a fixed sequence of between-round inputs.
type scriptedInterjections struct {
	mu      sync.Mutex
	inputs  []string // "q" means quit
	nextIdx int
}

func (s *scriptedInterjections) Interjection(round int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nextIdx >= len(s.inputs) {
		return "", false
	}
	in := s.inputs[s.nextIdx]
	s.nextIdx++
	if in == "q" {
		return "", true
	}
	return in, false
}

// scriptedQuestions replays targeted questions for the Q&A phase.
type scriptedQuestions struct {
	questions [][2]string // reviewerID, question
	nextIdx   int
}

func (s *scriptedQuestions) NextQuestion(preAnalysis string) (string, string, bool) {
	if s.nextIdx >= len(s.questions) {
		return "", "", false
	}
	q := s.questions[s.nextIdx]
	s.nextIdx++
	return q[0], q[1], true
}
