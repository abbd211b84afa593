package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case TickMsg:
		// Continue ticking for timer updates
		return m, tickCmd()

	case DoneMsg:
		m.Done = true
		return m, tea.Quit

	case PhaseMsg:
		m.Phase = msg.Phase
		m.appendLog(msg.Phase)

	case RoundStartedMsg:
		m.Round = msg.Round
		m.Phase = fmt.Sprintf("round %d", msg.Round)
		for _, r := range m.Reviewers {
			r.Status = "pending"
			r.Chars = 0
		}
		m.appendLog(fmt.Sprintf("round %d started", msg.Round))

	case ReviewerStatusMsg:
		if r := m.reviewer(msg.Reviewer); r != nil {
			r.Status = msg.Status
		}

	case ChunkMsg:
		if r := m.reviewer(msg.Reviewer); r != nil {
			r.Status = "thinking"
			r.Chars += msg.Chars
		}

	case TurnDoneMsg:
		if r := m.reviewer(msg.Reviewer); r != nil {
			r.Status = "done"
			r.Chars = msg.Chars
		}
		m.appendLog(fmt.Sprintf("%s finished round %d (%d chars)", msg.Reviewer, msg.Round, msg.Chars))

	case RoundDoneMsg:
		if msg.Converged {
			m.Converged = msg.Round
		}

	case ConvergenceMsg:
		m.appendLog(fmt.Sprintf("convergence check after round %d: %s", msg.Round, msg.Verdict))

	case ConclusionMsg:
		m.Conclusion = msg.Text
		m.Phase = "done"
	}

	return m, nil
}
