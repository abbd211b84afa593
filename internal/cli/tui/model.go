package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ReviewerState tracks one panel member in the TUI
type ReviewerState struct {
	ID     string
	Status string // pending, thinking, done, failed
	Chars  int    // streamed response size so far
}

// Model is the bubbletea model for the TUI
type Model struct {
	// Configuration
	Label  string
	Styles Styles

	// State
	Phase      string
	Round      int
	Reviewers  []*ReviewerState // construction order, matches commit order
	Converged  int              // round at which consensus was reached, 0 if none
	Conclusion string
	LogLines   []string
	LogLimit   int
	StartTime  time.Time
	Width      int
	Height     int

	// Control
	Quitting bool
	Done     bool
}

// NewModel creates a new TUI model
func NewModel(label string, reviewerIDs []string) *Model {
	reviewers := make([]*ReviewerState, len(reviewerIDs))
	for i, id := range reviewerIDs {
		reviewers[i] = &ReviewerState{ID: id, Status: "pending"}
	}
	return &Model{
		Label:     label,
		Styles:    DefaultStyles(),
		Phase:     "starting",
		Reviewers: reviewers,
		StartTime: time.Now(),
		LogLimit:  200,
	}
}

func (m *Model) reviewer(id string) *ReviewerState {
	for _, r := range m.Reviewers {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (m *Model) appendLog(line string) {
	m.LogLines = append(m.LogLines, line)
	if len(m.LogLines) > m.LogLimit {
		m.LogLines = m.LogLines[len(m.LogLines)-m.LogLimit:]
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

// TickMsg is sent every second to update the timer
type TickMsg time.Time

// tickCmd returns a command that sends TickMsg every second
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// DoneMsg signals the TUI should exit
type DoneMsg struct{}

// PhaseMsg announces a new debate phase (analyzing, summarizing, ...)
type PhaseMsg struct {
	Phase string
}

// RoundStartedMsg indicates a new round is building requests
type RoundStartedMsg struct {
	Round int
}

// ReviewerStatusMsg updates one reviewer's execution state
type ReviewerStatusMsg struct {
	Reviewer string
	Status   string
}

// ChunkMsg delivers a streamed response fragment
type ChunkMsg struct {
	Reviewer string
	Chars    int
}

// TurnDoneMsg indicates a reviewer's turn resolved
type TurnDoneMsg struct {
	Reviewer string
	Round    int
	Chars    int
}

// RoundDoneMsg indicates a round was committed
type RoundDoneMsg struct {
	Round     int
	Converged bool
}

// ConvergenceMsg carries the judge's verdict for a round
type ConvergenceMsg struct {
	Round   int
	Verdict string
}

// ConclusionMsg carries the final synthesized conclusion
type ConclusionMsg struct {
	Text string
}
