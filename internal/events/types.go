package events

import (
	"fmt"
	"strings"
	"time"
)

// Event represents a single occurrence in the debate lifecycle
type Event struct {
	// Time is when the event occurred (set by the bus on emit)
	Time time.Time `json:"time"`

	// Type identifies what happened
	Type EventType `json:"type"`

	// Reviewer is the reviewer ID this event relates to (empty for debate-level events)
	Reviewer string `json:"reviewer,omitempty"`

	// Round is the debate round number (nil if not round-related)
	Round *int `json:"round,omitempty"`

	// Payload contains event-specific data (type varies by event)
	Payload any `json:"payload,omitempty"`

	// Error contains error message if this is a failure event
	Error string `json:"error,omitempty"`
}

// EventType is a string constant identifying the event category
type EventType string

// Debate lifecycle events
const (
	DebateStarted   EventType = "debate.started"
	DebateCompleted EventType = "debate.completed"
	DebateFailed    EventType = "debate.failed"

	// ContextGathered is emitted once the label/prompt pair has been
	// assembled, before the debate begins.
	ContextGathered EventType = "debate.context.gathered"
)

// Analysis phase events
const (
	AnalysisStarted   EventType = "analysis.started"
	AnalysisCompleted EventType = "analysis.completed"
)

// Post-analysis Q&A events
const (
	// QAQuestion is emitted when a human question is routed to a reviewer.
	// Payload: question (string)
	QAQuestion EventType = "qa.question"

	// QAAnswer is emitted when the targeted reviewer answers.
	// Payload: answer (string)
	QAAnswer EventType = "qa.answer"

	// QAIgnored is emitted when a question targets an unknown reviewer ID.
	QAIgnored EventType = "qa.ignored"
)

// Round events
const (
	RoundStarted EventType = "round.started"

	// RoundCompleted is emitted after a round's responses are committed.
	// Payload: RoundCompletedPayload
	RoundCompleted EventType = "round.completed"

	// ParallelStatus carries a snapshot of per-reviewer execution state.
	// Payload: []ReviewerStatus
	ParallelStatus EventType = "round.status"

	// ConvergenceChecked is emitted after the convergence judge runs.
	// Payload: ConvergencePayload
	ConvergenceChecked EventType = "round.convergence"

	// Interjection is emitted when a human interjects between rounds.
	// Payload: text (string)
	Interjection EventType = "round.interjection"
)

// Reviewer turn events
const (
	// ReviewerWaiting is emitted when the orchestrator is waiting on a reviewer.
	ReviewerWaiting EventType = "reviewer.waiting"

	// MessageChunk carries an incremental response fragment (streaming runs).
	// Payload: chunk (string)
	MessageChunk EventType = "reviewer.chunk"

	// ReviewerCompleted is emitted when a reviewer's turn resolves.
	// Payload: content (string)
	ReviewerCompleted EventType = "reviewer.completed"
)

// Closing phase events
const (
	// SummaryCollected is emitted per reviewer during the summary phase.
	// Payload: summary (string)
	SummaryCollected EventType = "summary.collected"

	// ConclusionReady is emitted when the summarizer produces the final conclusion.
	// Payload: conclusion (string)
	ConclusionReady EventType = "debate.conclusion"
)

// RoundCompletedPayload is the payload for RoundCompleted events.
type RoundCompletedPayload struct {
	Round     int  `json:"round"`
	Converged bool `json:"converged"`
}

// ConvergencePayload is the payload for ConvergenceChecked events.
type ConvergencePayload struct {
	Round   int    `json:"round"`
	Verdict string `json:"verdict"`
}

// ReviewerStatus is one entry of a ParallelStatus snapshot.
type ReviewerStatus struct {
	Reviewer   string     `json:"reviewer"`
	Status     string     `json:"status"` // pending, thinking, done
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// NewEvent creates an event with the given type and reviewer
func NewEvent(eventType EventType, reviewer string) Event {
	return Event{
		Type:     eventType,
		Reviewer: reviewer,
	}
}

// WithRound returns a copy of the event with the round number set
func (e Event) WithRound(round int) Event {
	e.Round = &round
	return e
}

// WithPayload returns a copy of the event with the payload set
func (e Event) WithPayload(payload any) Event {
	e.Payload = payload
	return e
}

// WithError returns a copy of the event with the error message set
func (e Event) WithError(err error) Event {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// IsFailure returns true if this is a failure event type
func (e Event) IsFailure() bool {
	return strings.HasSuffix(string(e.Type), ".failed")
}

// String returns a human-readable representation of the event
func (e Event) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", e.Type))

	if e.Reviewer != "" {
		parts = append(parts, e.Reviewer)
	}

	if e.Round != nil {
		parts = append(parts, fmt.Sprintf("round=%d", *e.Round))
	}

	return strings.Join(parts, " ")
}
