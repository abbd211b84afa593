package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains all lipgloss styles for the TUI
type Styles struct {
	// Header styling
	Title lipgloss.Style
	Timer lipgloss.Style
	Phase lipgloss.Style

	// Reviewer styling
	ReviewerName lipgloss.Style
	Thinking     lipgloss.Style
	Done         lipgloss.Style
	Failed       lipgloss.Style
	Pending      lipgloss.Style

	// Status and verdicts
	Converged lipgloss.Style
	Verdict   lipgloss.Style

	// Footer styling
	Footer    lipgloss.Style
	FooterKey lipgloss.Style

	// Log area styling
	LogLine lipgloss.Style
}

// DefaultStyles returns the default TUI styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Timer: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Phase: lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Italic(true),

		ReviewerName: lipgloss.NewStyle().Bold(true),
		Thinking:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Done:         lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Failed:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),

		Converged: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		Verdict:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		Footer:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginTop(1),
		FooterKey: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),

		LogLine: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Icons used in the TUI
const (
	IconThinking = "●"
	IconDone     = "✓"
	IconFailed   = "✗"
	IconPending  = "○"
)
