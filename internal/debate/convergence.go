package debate

import (
	"context"
	"fmt"
	"strings"

	"github.com/RevCBH/parley/internal/agent"
)

const (
	// VerdictConverged is the only token that counts as consensus.
	VerdictConverged = "CONVERGED"

	// VerdictNotConverged is the expected negative token. Any other
	// response is treated the same way.
	VerdictNotConverged = "NOT_CONVERGED"
)

const convergenceRubric = `You are grading whether a panel of reviewers has reached consensus. Below are the statements each reviewer made in the latest round of their debate.

Consensus requires ALL of the following:
- every reviewer states the same overall verdict
- no critical issue raised by one reviewer is left unacknowledged by the others
- no reviewer explicitly disagrees with another
- no reviewer silently ignores a point addressed to them; silence is not agreement

Apply the rubric strictly. If in doubt, the panel has not converged.

Respond with exactly one word: CONVERGED or NOT_CONVERGED.`

// Judge decides whether a round's outputs represent true consensus. It
// reuses the summarizer agent for a single extra call per checked round and
// sees only that round's reviewer turns, never the full transcript.
type Judge struct {
	agent      agent.Agent
	accountant *Accountant
}

// NewJudge creates a convergence judge backed by the given agent.
func NewJudge(a agent.Agent, accountant *Accountant) *Judge {
	return &Judge{agent: a, accountant: accountant}
}

// Check grades the given round's turns. A malformed or ambiguous response
// is reported as not converged, never as an error; only the agent call
// itself can fail.
func (j *Judge) Check(ctx context.Context, turns []Turn) (converged bool, verdict string, err error) {
	var sb strings.Builder
	sb.WriteString(convergenceRubric)
	sb.WriteString("\n\n")
	for i, turn := range turns {
		fmt.Fprintf(&sb, "Reviewer %d:\n%s\n\n", i+1, turn.Content)
	}

	input := sb.String()
	response, err := j.agent.Chat(ctx, agent.UserMessage(input), "")
	if err != nil {
		return false, "", fmt.Errorf("convergence check: %w", err)
	}
	j.accountant.Record(AuthorSummarizer, input, response)

	verdict = parseVerdict(response)
	return verdict == VerdictConverged, verdict, nil
}

// parseVerdict takes the first whitespace-delimited token of the response.
// Anything other than CONVERGED collapses to NOT_CONVERGED.
func parseVerdict(response string) string {
	fields := strings.Fields(response)
	if len(fields) > 0 && fields[0] == VerdictConverged {
		return VerdictConverged
	}
	return VerdictNotConverged
}
