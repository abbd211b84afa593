package debate

import (
	"fmt"
	"strings"

	"github.com/RevCBH/parley/internal/agent"
)

// Request is a fully rendered payload for one agent call.
type Request struct {
	Messages []agent.Message
	System   string
}

const firstCallInstruction = `You are one reviewer on an independent review panel. Below is an analysis of the material under review. Give your own independent assessment: the key issues you see, their severity, and your overall verdict. Other reviewers are assessing the same material in parallel; you will see their positions in later rounds, but for now rely only on your own judgment.`

const respondInstruction = `Respond to the positions above. Address their strongest points directly, concede where they are right, and defend or revise your own assessment where they are not. State your current overall verdict.`

const continueInstruction = `Continue the debate. Refine your assessment and restate your current overall verdict.`

const summaryInstruction = `The debate is over. Summarize your final position in a few paragraphs: your verdict, the decisive arguments, and anything you changed your mind about. Do not reveal or reference your own identity or the identity of any other reviewer.`

// cursor tracks how much of the transcript one reviewer has been sent.
type cursor struct {
	// index of the last turn included in a request built for the reviewer,
	// -1 when nothing has been sent yet.
	index int

	// called is true once at least one request has been built. It is
	// distinct from index because the first request may be built against
	// an empty transcript.
	called bool
}

// PromptBuilder computes, for a target reviewer, exactly the subset of the
// transcript that reviewer is entitled to see on this call, and renders it
// as a Request. The rendering branches on whether the reviewer's backend
// keeps server-side session state:
//
//   - first call ever: the pre-analysis only, with an instruction to give
//     an independent assessment; no other reviewer's identity or content
//     leaks into round 1
//   - session-backed: only turns after the reviewer's cursor, minus the
//     reviewer's own (the backend remembers those)
//   - stateless: the full visible history rebuilt every call, the
//     reviewer's own turns rendered as assistant messages
//
// PromptBuilder owns the per-reviewer cursors; the orchestrator tells it
// when a reviewer's own turn has been committed.
type PromptBuilder struct {
	preAnalysis string
	reviewerIDs []string
	cursors     map[string]*cursor
}

// NewPromptBuilder creates a builder for the given reviewer IDs.
func NewPromptBuilder(reviewerIDs []string) *PromptBuilder {
	b := &PromptBuilder{reviewerIDs: reviewerIDs}
	b.Reset("")
	return b
}

// Reset clears all cursors and installs the pre-analysis for a new run.
func (b *PromptBuilder) Reset(preAnalysis string) {
	b.preAnalysis = preAnalysis
	b.cursors = make(map[string]*cursor, len(b.reviewerIDs))
	for _, id := range b.reviewerIDs {
		b.cursors[id] = &cursor{index: -1}
	}
}

// SetPreAnalysis installs the analyzer output after Reset.
func (b *PromptBuilder) SetPreAnalysis(text string) {
	b.preAnalysis = text
}

// Build renders the request for one reviewer against the current transcript
// and advances the reviewer's cursor to the end of the snapshot. All of a
// round's requests must be built before any of them executes; that, not
// filtering, is what makes visibility identical across the round.
func (b *PromptBuilder) Build(hist *History, reviewerID string, sessionBacked bool) Request {
	c := b.cursorFor(reviewerID)

	var req Request
	switch {
	case !c.called:
		req = b.buildFirstCall()
	case sessionBacked:
		req = b.buildIncremental(hist, reviewerID, c.index, respondInstruction)
	default:
		req = b.buildReconstruction(hist, reviewerID, respondInstruction)
	}

	c.called = true
	c.index = hist.Len() - 1
	return req
}

// BuildSummary renders the end-of-debate summary request. Visibility follows
// the same rules as Build; only the trailing instruction differs.
func (b *PromptBuilder) BuildSummary(hist *History, reviewerID string, sessionBacked bool) Request {
	c := b.cursorFor(reviewerID)

	var req Request
	switch {
	case !c.called:
		// A reviewer summarizing without ever debating only has the
		// pre-analysis to go on.
		req = Request{Messages: agent.UserMessage(
			b.preAnalysis + "\n\n" + summaryInstruction,
		)}
	case sessionBacked:
		req = b.buildIncremental(hist, reviewerID, c.index, summaryInstruction)
	default:
		req = b.buildReconstruction(hist, reviewerID, summaryInstruction)
	}

	c.called = true
	c.index = hist.Len() - 1
	return req
}

// BuildQA renders a targeted human question for one reviewer. The question
// must already be the last turn of the transcript; it is delivered inside
// the normal visibility payload so session-backed reviewers receive it
// incrementally and stateless reviewers receive it with full context.
func (b *PromptBuilder) BuildQA(hist *History, reviewerID string, sessionBacked bool, question string) Request {
	c := b.cursorFor(reviewerID)
	instruction := fmt.Sprintf("A human observer asks you directly:\n\n%s\n\nAnswer the question.", question)

	var req Request
	switch {
	case !c.called:
		req = Request{Messages: agent.UserMessage(
			firstCallInstruction + "\n\n" + b.preAnalysis + "\n\n" + instruction,
		)}
	case sessionBacked:
		req = b.buildIncremental(hist, reviewerID, c.index, instruction)
	default:
		req = b.buildReconstruction(hist, reviewerID, instruction)
	}

	c.called = true
	c.index = hist.Len() - 1
	return req
}

// CommitOwnTurn advances the reviewer's cursor past its own just-appended
// turn, but only when the cursor sits immediately before it. If other
// reviewers' turns from the same batch landed in between, the cursor stays
// put so those turns are still delivered on the next build.
func (b *PromptBuilder) CommitOwnTurn(reviewerID string, ownIndex int) {
	c := b.cursorFor(reviewerID)
	if c.index == ownIndex-1 {
		c.index = ownIndex
	}
}

// Cursor returns the reviewer's current cursor index, -1 if nothing has
// been sent.
func (b *PromptBuilder) Cursor(reviewerID string) int {
	return b.cursorFor(reviewerID).index
}

func (b *PromptBuilder) cursorFor(reviewerID string) *cursor {
	c, ok := b.cursors[reviewerID]
	if !ok {
		c = &cursor{index: -1}
		b.cursors[reviewerID] = c
	}
	return c
}

func (b *PromptBuilder) buildFirstCall() Request {
	return Request{Messages: agent.UserMessage(
		firstCallInstruction + "\n\n" + b.preAnalysis,
	)}
}

// buildIncremental sends only turns the session backend has not seen:
// everything after the cursor except the reviewer's own turns, which the
// backend already remembers. With nothing new to show, a neutral continue
// instruction is sent instead of an empty request.
func (b *PromptBuilder) buildIncremental(hist *History, reviewerID string, cursorIndex int, instruction string) Request {
	var parts []string
	for _, turn := range hist.Since(cursorIndex) {
		if turn.Author == reviewerID {
			continue
		}
		parts = append(parts, renderTurn(turn))
	}

	if len(parts) == 0 {
		if instruction == respondInstruction {
			instruction = continueInstruction
		}
		return Request{Messages: agent.UserMessage(instruction)}
	}

	body := "New statements from the other participants:\n\n" +
		strings.Join(parts, "\n\n") + "\n\n" + instruction
	return Request{Messages: agent.UserMessage(body)}
}

// buildReconstruction resends the reviewer's entire visible history: the
// debate framing, the pre-analysis, every prior turn the reviewer is
// entitled to see (own turns as the reviewer's previous responses,
// everything else as context), and the trailing instruction.
func (b *PromptBuilder) buildReconstruction(hist *History, reviewerID string, instruction string) Request {
	messages := []agent.Message{{
		Role:    agent.RoleUser,
		Content: b.framing(reviewerID) + "\n\n" + b.preAnalysis,
	}}

	for _, turn := range hist.Turns() {
		if turn.Author == reviewerID {
			messages = append(messages, agent.Message{
				Role:    agent.RoleAssistant,
				Content: turn.Content,
			})
			continue
		}
		// Round-0 Q&A exchanges are private to the questioned reviewer.
		// Session backends never receive a peer's Q&A, so a stateless
		// rebuild must not resurface it either.
		if turn.Round == 0 {
			continue
		}
		messages = append(messages, agent.Message{
			Role:    agent.RoleUser,
			Content: renderTurn(turn),
		})
	}

	messages = append(messages, agent.Message{Role: agent.RoleUser, Content: instruction})
	return Request{Messages: messages}
}

// framing names the other panel members so a stateless backend knows who
// the quoted statements belong to.
func (b *PromptBuilder) framing(reviewerID string) string {
	var others []string
	for _, id := range b.reviewerIDs {
		if id != reviewerID {
			others = append(others, id)
		}
	}
	return fmt.Sprintf(
		"You are reviewer %q in a multi-round debate with the following other reviewers: %s. "+
			"Statements from other participants are quoted with their name in brackets.",
		reviewerID, strings.Join(others, ", "))
}

func renderTurn(turn Turn) string {
	return fmt.Sprintf("[%s]: %s", turn.Author, turn.Content)
}
