package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/RevCBH/parley/internal/debate"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	convergedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	openStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	faintStyle     = lipgloss.NewStyle().Faint(true)
)

// renderResult formats the end-of-debate summary printed after a run.
func renderResult(res *debate.Result) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Debate: %s", res.Label)))
	sb.WriteString("\n")

	if res.ConvergedAtRound > 0 {
		sb.WriteString(convergedStyle.Render(fmt.Sprintf("Converged at round %d", res.ConvergedAtRound)))
	} else {
		sb.WriteString(openStyle.Render("Did not converge"))
	}
	duration := res.CompletedAt.Sub(res.StartedAt).Round(time.Second)
	sb.WriteString(faintStyle.Render(fmt.Sprintf("  (%d turns, %s)", len(res.Turns), duration)))
	sb.WriteString("\n\n")

	sb.WriteString(titleStyle.Render("Conclusion"))
	sb.WriteString("\n")
	sb.WriteString(strings.TrimSpace(res.Conclusion))
	sb.WriteString("\n\n")

	sb.WriteString(renderUsage(res.Usage))
	return sb.String()
}

// renderUsage formats the per-participant token table, alphabetized with a
// totals row.
func renderUsage(usage map[string]debate.Usage) string {
	if len(usage) == 0 {
		return ""
	}

	ids := make([]string, 0, len(usage))
	width := len("total")
	for id := range usage {
		ids = append(ids, id)
		if len(id) > width {
			width = len(id)
		}
	}
	sort.Strings(ids)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Usage"))
	sb.WriteString("\n")

	var total debate.Usage
	for _, id := range ids {
		u := usage[id]
		fmt.Fprintf(&sb, "  %-*s  %2d calls  %8s in  %8s out  $%.4f\n",
			width, id, u.Calls,
			humanize.Comma(int64(u.InputTokens)), humanize.Comma(int64(u.OutputTokens)), u.Cost)
		total.Calls += u.Calls
		total.InputTokens += u.InputTokens
		total.OutputTokens += u.OutputTokens
		total.Cost += u.Cost
	}
	fmt.Fprintf(&sb, "  %-*s  %2d calls  %8s in  %8s out  $%.4f\n",
		width, "total", total.Calls,
		humanize.Comma(int64(total.InputTokens)), humanize.Comma(int64(total.OutputTokens)), total.Cost)
	return sb.String()
}
