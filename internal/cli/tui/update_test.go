package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/RevCBH/parley/internal/events"
)

func update(m *Model, msg tea.Msg) *Model {
	next, _ := m.Update(msg)
	return next.(*Model)
}

func TestModel_RoundLifecycle(t *testing.T) {
	m := NewModel("my-branch", []string{"advocate", "skeptic"})

	m = update(m, RoundStartedMsg{Round: 1})
	assert.Equal(t, 1, m.Round)
	assert.Equal(t, "round 1", m.Phase)
	assert.Equal(t, "pending", m.Reviewers[0].Status)

	m = update(m, ReviewerStatusMsg{Reviewer: "advocate", Status: "thinking"})
	assert.Equal(t, "thinking", m.Reviewers[0].Status)
	assert.Equal(t, "pending", m.Reviewers[1].Status)

	m = update(m, ChunkMsg{Reviewer: "advocate", Chars: 12})
	m = update(m, ChunkMsg{Reviewer: "advocate", Chars: 8})
	assert.Equal(t, 20, m.Reviewers[0].Chars)

	m = update(m, TurnDoneMsg{Reviewer: "advocate", Round: 1, Chars: 120})
	assert.Equal(t, "done", m.Reviewers[0].Status)
	assert.Equal(t, 120, m.Reviewers[0].Chars)

	m = update(m, RoundDoneMsg{Round: 1, Converged: false})
	assert.Zero(t, m.Converged)

	// A new round resets per-reviewer state.
	m = update(m, RoundStartedMsg{Round: 2})
	assert.Equal(t, "pending", m.Reviewers[0].Status)
	assert.Zero(t, m.Reviewers[0].Chars)

	m = update(m, RoundDoneMsg{Round: 2, Converged: true})
	assert.Equal(t, 2, m.Converged)

	m = update(m, ConclusionMsg{Text: "ship it"})
	assert.Equal(t, "ship it", m.Conclusion)
	assert.Equal(t, "done", m.Phase)
}

func TestModel_QuitKey(t *testing.T) {
	m := NewModel("x", []string{"a", "b"})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.True(t, next.(*Model).Quitting)
	require.NotNil(t, cmd)
	assert.Empty(t, next.(*Model).View())
}

func TestEventToMsg(t *testing.T) {
	msg := eventToMsg(events.NewEvent(events.RoundStarted, "").WithRound(3))
	assert.Equal(t, RoundStartedMsg{Round: 3}, msg)

	msg = eventToMsg(events.NewEvent(events.MessageChunk, "advocate").WithRound(1).WithPayload("hello"))
	assert.Equal(t, ChunkMsg{Reviewer: "advocate", Chars: 5}, msg)

	msg = eventToMsg(events.NewEvent(events.ReviewerCompleted, "skeptic").WithRound(2).WithPayload("full response"))
	assert.Equal(t, TurnDoneMsg{Reviewer: "skeptic", Round: 2, Chars: len("full response")}, msg)

	msg = eventToMsg(events.NewEvent(events.ConvergenceChecked, "").
		WithPayload(events.ConvergencePayload{Round: 2, Verdict: "CONVERGED"}))
	assert.Equal(t, ConvergenceMsg{Round: 2, Verdict: "CONVERGED"}, msg)

	msg = eventToMsg(events.NewEvent(events.ConclusionReady, "summarizer").WithPayload("verdict"))
	assert.Equal(t, ConclusionMsg{Text: "verdict"}, msg)

	// Events without a TUI mapping are dropped.
	assert.Nil(t, eventToMsg(events.NewEvent(events.QAIgnored, "nobody")))
}
