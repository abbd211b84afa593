package debate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RevCBH/parley/internal/agent"
	"github.com/RevCBH/parley/internal/events"
)

func builtRequest(id string, a agent.Agent) BuiltRequest {
	return BuiltRequest{
		Reviewer: &Reviewer{ID: id, Agent: a},
		Request:  Request{Messages: agent.UserMessage("go")},
	}
}

func TestRoundRunner_ResponsesInInputOrder(t *testing.T) {
	// The slowest reviewer is listed first; input order must still win.
	slow := newMockAgent("slow", "slow answer")
	slow.delay = 50 * time.Millisecond
	fast := newMockAgent("fast", "fast answer")

	pub := &mockPublisher{}
	runner := NewRoundRunner(pub, false)

	responses, err := runner.Run(context.Background(), 1, []BuiltRequest{
		builtRequest("slow", slow),
		builtRequest("fast", fast),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"slow answer", "fast answer"}, responses)
}

func TestRoundRunner_EmitsLifecycleEvents(t *testing.T) {
	pub := &mockPublisher{}
	runner := NewRoundRunner(pub, false)

	_, err := runner.Run(context.Background(), 2, []BuiltRequest{
		builtRequest("alice", newMockAgent("a", "x")),
		builtRequest("bob", newMockAgent("b", "y")),
	})
	require.NoError(t, err)

	assert.Len(t, pub.ofType(events.ReviewerWaiting), 2)

	completed := pub.ofType(events.ReviewerCompleted)
	require.Len(t, completed, 2)
	for _, e := range completed {
		require.NotNil(t, e.Round)
		assert.Equal(t, 2, *e.Round)
	}

	// Initial snapshot plus two per reviewer (thinking, done).
	statuses := pub.ofType(events.ParallelStatus)
	assert.GreaterOrEqual(t, len(statuses), 3)

	final := statuses[len(statuses)-1].Payload.([]events.ReviewerStatus)
	require.Len(t, final, 2)
	for _, s := range final {
		assert.Equal(t, StatusDone, s.Status)
		assert.NotNil(t, s.StartedAt)
		assert.NotNil(t, s.FinishedAt)
	}
}

func TestRoundRunner_FailureFailsTheRound(t *testing.T) {
	bad := newMockAgent("bad")
	bad.err = errors.New("exit status 1")

	runner := NewRoundRunner(&mockPublisher{}, false)
	_, err := runner.Run(context.Background(), 1, []BuiltRequest{
		builtRequest("good", newMockAgent("g", "fine")),
		builtRequest("bad", bad),
	})
	assert.Error(t, err)
}

func TestRoundRunner_StreamingPublishesChunks(t *testing.T) {
	pub := &mockPublisher{}
	runner := NewRoundRunner(pub, true)

	responses, err := runner.Run(context.Background(), 1, []BuiltRequest{
		builtRequest("alice", newMockAgent("a", "streamed text")),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"streamed text"}, responses)

	chunks := pub.ofType(events.MessageChunk)
	require.NotEmpty(t, chunks)
	assert.Equal(t, "streamed text", chunks[0].Payload)
	assert.Equal(t, "alice", chunks[0].Reviewer)
}
