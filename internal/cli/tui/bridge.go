package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/RevCBH/parley/internal/events"
)

// Bridge connects the event bus to the bubbletea program
type Bridge struct {
	program *tea.Program
}

// NewBridge creates a new bridge for the given program
func NewBridge(program *tea.Program) *Bridge {
	return &Bridge{program: program}
}

// Handler returns an event handler function for the event bus
func (b *Bridge) Handler() events.Handler {
	return func(evt events.Event) {
		msg := eventToMsg(evt)
		if msg != nil {
			b.program.Send(msg)
		}
	}
}

// eventToMsg converts an events.Event to a tea.Msg
func eventToMsg(evt events.Event) tea.Msg {
	switch evt.Type {
	case events.AnalysisStarted:
		return PhaseMsg{Phase: "analyzing"}

	case events.RoundStarted:
		round := 0
		if evt.Round != nil {
			round = *evt.Round
		}
		return RoundStartedMsg{Round: round}

	case events.ReviewerWaiting:
		return ReviewerStatusMsg{Reviewer: evt.Reviewer, Status: "thinking"}

	case events.MessageChunk:
		chars := 0
		if chunk, ok := evt.Payload.(string); ok {
			chars = len(chunk)
		}
		return ChunkMsg{Reviewer: evt.Reviewer, Chars: chars}

	case events.ReviewerCompleted:
		round := 0
		if evt.Round != nil {
			round = *evt.Round
		}
		chars := 0
		if content, ok := evt.Payload.(string); ok {
			chars = len(content)
		}
		return TurnDoneMsg{Reviewer: evt.Reviewer, Round: round, Chars: chars}

	case events.RoundCompleted:
		if p, ok := evt.Payload.(events.RoundCompletedPayload); ok {
			return RoundDoneMsg{Round: p.Round, Converged: p.Converged}
		}

	case events.ConvergenceChecked:
		if p, ok := evt.Payload.(events.ConvergencePayload); ok {
			return ConvergenceMsg{Round: p.Round, Verdict: p.Verdict}
		}

	case events.SummaryCollected:
		return PhaseMsg{Phase: "summarizing"}

	case events.ConclusionReady:
		text, _ := evt.Payload.(string)
		return ConclusionMsg{Text: text}

	case events.DebateFailed:
		return PhaseMsg{Phase: "failed: " + evt.Error}
	}

	return nil
}

// SendDone sends a DoneMsg to the program
func (b *Bridge) SendDone() {
	b.program.Send(DoneMsg{})
}
