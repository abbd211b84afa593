// Package report renders debate results as Markdown or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/RevCBH/parley/internal/debate"
)

// Markdown renders the full debate as a Markdown document: verdict header,
// pre-analysis, transcript by round, reviewer summaries, conclusion, and
// the usage table.
func Markdown(res *debate.Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Debate: %s\n\n", res.Label)
	fmt.Fprintf(&sb, "- Started: %s\n", res.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "- Duration: %s\n", res.CompletedAt.Sub(res.StartedAt).Round(1e9))
	if res.ConvergedAtRound > 0 {
		fmt.Fprintf(&sb, "- Converged at round %d\n", res.ConvergedAtRound)
	} else {
		sb.WriteString("- Did not converge\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Pre-analysis\n\n")
	sb.WriteString(strings.TrimSpace(res.PreAnalysis))
	sb.WriteString("\n\n")

	if len(res.Turns) > 0 {
		sb.WriteString("## Transcript\n\n")
		lastRound := -1
		for _, turn := range res.Turns {
			if turn.Round != lastRound {
				if turn.Round == 0 {
					sb.WriteString("### Q&A\n\n")
				} else {
					fmt.Fprintf(&sb, "### Round %d\n\n", turn.Round)
				}
				lastRound = turn.Round
			}
			fmt.Fprintf(&sb, "**%s**\n\n%s\n\n", turn.Author, strings.TrimSpace(turn.Content))
		}
	}

	if len(res.Summaries) > 0 {
		sb.WriteString("## Final positions\n\n")
		for _, s := range res.Summaries {
			fmt.Fprintf(&sb, "### %s\n\n%s\n\n", s.Reviewer, strings.TrimSpace(s.Summary))
		}
	}

	sb.WriteString("## Conclusion\n\n")
	sb.WriteString(strings.TrimSpace(res.Conclusion))
	sb.WriteString("\n\n")

	sb.WriteString(usageTable(res.Usage))
	return sb.String()
}

// usageTable renders per-participant token usage, alphabetized, with a
// totals row.
func usageTable(usage map[string]debate.Usage) string {
	if len(usage) == 0 {
		return ""
	}

	ids := make([]string, 0, len(usage))
	for id := range usage {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	sb.WriteString("## Usage\n\n")
	sb.WriteString("| Participant | Calls | Input | Output | Cost |\n")
	sb.WriteString("|---|---|---|---|---|\n")

	var total debate.Usage
	for _, id := range ids {
		u := usage[id]
		fmt.Fprintf(&sb, "| %s | %d | %s | %s | $%.4f |\n",
			id, u.Calls, humanize.Comma(int64(u.InputTokens)), humanize.Comma(int64(u.OutputTokens)), u.Cost)
		total.Calls += u.Calls
		total.InputTokens += u.InputTokens
		total.OutputTokens += u.OutputTokens
		total.Cost += u.Cost
	}
	fmt.Fprintf(&sb, "| **total** | %d | %s | %s | $%.4f |\n",
		total.Calls, humanize.Comma(int64(total.InputTokens)), humanize.Comma(int64(total.OutputTokens)), total.Cost)
	return sb.String()
}

// JSON renders the result as indented JSON.
func JSON(res *debate.Result) (string, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(data), nil
}
