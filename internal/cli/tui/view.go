package tui

import (
	"fmt"
	"strings"
	"time"
)

// View implements tea.Model
func (m *Model) View() string {
	if m.Done || m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(m.renderReviewers())
	b.WriteString("\n")

	b.WriteString(m.renderLog(8))

	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the title line with timer and phase
func (m *Model) renderHeader() string {
	elapsed := time.Since(m.StartTime).Round(time.Second)
	timer := fmt.Sprintf("[%s]", formatDuration(elapsed))

	phase := m.Phase
	if m.Converged > 0 {
		phase = fmt.Sprintf("%s (converged at round %d)", phase, m.Converged)
	}

	return fmt.Sprintf("%s  %s  %s",
		m.Styles.Title.Render("parley: "+m.Label),
		m.Styles.Timer.Render(timer),
		m.Styles.Phase.Render(phase),
	)
}

// renderReviewers renders one line per panel member in commit order
func (m *Model) renderReviewers() string {
	var b strings.Builder
	for _, r := range m.Reviewers {
		var icon string
		switch r.Status {
		case "thinking":
			icon = m.Styles.Thinking.Render(IconThinking)
		case "done":
			icon = m.Styles.Done.Render(IconDone)
		case "failed":
			icon = m.Styles.Failed.Render(IconFailed)
		default:
			icon = m.Styles.Pending.Render(IconPending)
		}

		detail := r.Status
		if r.Chars > 0 {
			detail = fmt.Sprintf("%s, %d chars", r.Status, r.Chars)
		}
		fmt.Fprintf(&b, "  %s %s %s\n",
			icon,
			m.Styles.ReviewerName.Render(r.ID),
			m.Styles.Verdict.Render("("+detail+")"))
	}
	return b.String()
}

// renderLog renders the tail of the event log
func (m *Model) renderLog(n int) string {
	if len(m.LogLines) == 0 {
		return ""
	}
	start := len(m.LogLines) - n
	if start < 0 {
		start = 0
	}

	var b strings.Builder
	for _, line := range m.LogLines[start:] {
		b.WriteString(m.Styles.LogLine.Render("  " + line))
		b.WriteString("\n")
	}
	return b.String()
}

// renderFooter renders the help text
func (m *Model) renderFooter() string {
	key := m.Styles.FooterKey.Render("q")
	return m.Styles.Footer.Render(fmt.Sprintf("  Press %s to quit", key))
}

// formatDuration formats a duration as HH:MM:SS
func formatDuration(d time.Duration) string {
	h := d / time.Hour
	d -= h * time.Hour
	min := d / time.Minute
	d -= min * time.Minute
	s := d / time.Second

	return fmt.Sprintf("%02d:%02d:%02d", h, min, s)
}
