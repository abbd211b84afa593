package debate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RevCBH/parley/internal/events"
)

func twoReviewerConfig(alice, bob *mockAgent, opts Options) Config {
	return Config{
		Reviewers: []*Reviewer{
			{ID: "alice", Agent: alice, System: "be thorough"},
			{ID: "bob", Agent: bob, System: "be skeptical"},
		},
		Analyzer:   newMockAgent("analyzer", "A"),
		Summarizer: newMockAgent("summarizer", "final conclusion"),
		Options:    opts,
	}
}

func TestOrchestrator_TwoRoundExample(t *testing.T) {
	alice := newMockAgent("claude", "R1a", "R2a", "summary-a")
	bob := newMockAgent("codex", "R1b", "R2b", "summary-b")
	summarizer := newMockAgent("summarizer", "final conclusion")

	cfg := twoReviewerConfig(alice, bob, Options{MaxRounds: 2})
	cfg.Summarizer = summarizer
	o, err := New(cfg)
	require.NoError(t, err)

	res, err := o.Run(context.Background(), "my-label", "the diff")
	require.NoError(t, err)

	assert.Equal(t, "my-label", res.Label)
	assert.Equal(t, "A", res.PreAnalysis)

	require.Len(t, res.Turns, 4)
	contents := make([]string, len(res.Turns))
	for i, turn := range res.Turns {
		contents[i] = turn.Content
	}
	assert.Equal(t, []string{"R1a", "R1b", "R2a", "R2b"}, contents)
	assert.Equal(t, []int{1, 1, 2, 2}, []int{res.Turns[0].Round, res.Turns[1].Round, res.Turns[2].Round, res.Turns[3].Round})

	require.Len(t, res.Summaries, 2)
	assert.Equal(t, ReviewerSummary{Reviewer: "alice", Summary: "summary-a"}, res.Summaries[0])
	assert.Equal(t, ReviewerSummary{Reviewer: "bob", Summary: "summary-b"}, res.Summaries[1])

	assert.Equal(t, "final conclusion", res.Conclusion)
	assert.Zero(t, res.ConvergedAtRound)

	// The conclusion prompt carries both summaries, numbered, with no
	// reviewer IDs.
	calls := summarizer.capturedCalls()
	require.Len(t, calls, 1)
	prompt := calls[0].Messages[0].Content
	assert.Contains(t, prompt, "Reviewer 1:\nsummary-a")
	assert.Contains(t, prompt, "Reviewer 2:\nsummary-b")
	assert.NotContains(t, prompt, "alice")
	assert.NotContains(t, prompt, "bob")
}

func TestOrchestrator_TurnCountScalesWithRounds(t *testing.T) {
	for _, maxRounds := range []int{1, 2, 4} {
		alice := newMockAgent("a", "x")
		bob := newMockAgent("b", "y")
		o, err := New(twoReviewerConfig(alice, bob, Options{MaxRounds: maxRounds}))
		require.NoError(t, err)

		res, err := o.Run(context.Background(), "label", "prompt")
		require.NoError(t, err)
		assert.Len(t, res.Turns, maxRounds*2, "maxRounds=%d", maxRounds)
	}
}

func TestOrchestrator_RoundOneIsolation(t *testing.T) {
	alice := newMockAgent("a", "alice-says-this", "r2", "s")
	bob := newMockAgent("b", "bob-says-that", "r2", "s")
	o, err := New(twoReviewerConfig(alice, bob, Options{MaxRounds: 2}))
	require.NoError(t, err)

	_, err = o.Run(context.Background(), "label", "prompt")
	require.NoError(t, err)

	// Neither reviewer's first request mentions the other's identity or
	// content; only the pre-analysis is visible.
	aliceFirst := flattenCall(alice.capturedCalls()[0])
	assert.Contains(t, aliceFirst, "A")
	assert.NotContains(t, aliceFirst, "bob")
	assert.NotContains(t, aliceFirst, "bob-says-that")

	bobFirst := flattenCall(bob.capturedCalls()[0])
	assert.NotContains(t, bobFirst, "alice")
	assert.NotContains(t, bobFirst, "alice-says-this")

	// From round 2 on, each sees the other's prior-round turn.
	assert.Contains(t, flattenCall(alice.capturedCalls()[1]), "bob-says-that")
	assert.Contains(t, flattenCall(bob.capturedCalls()[1]), "alice-says-this")
}

func flattenCall(c capturedCall) string {
	var parts []string
	for _, m := range c.Messages {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n")
}

func TestOrchestrator_ConvergenceStopsEarly(t *testing.T) {
	alice := newMockAgent("a", "r1", "r2", "summary-a")
	bob := newMockAgent("b", "r1", "r2", "summary-b")
	// The summarizer doubles as convergence judge: first call grades
	// round 2, second synthesizes the conclusion.
	summarizer := newMockAgent("summarizer", "CONVERGED", "done")

	cfg := twoReviewerConfig(alice, bob, Options{MaxRounds: 3, CheckConvergence: true})
	cfg.Summarizer = summarizer
	pub := &mockPublisher{}
	cfg.Publisher = pub

	o, err := New(cfg)
	require.NoError(t, err)
	res, err := o.Run(context.Background(), "label", "prompt")
	require.NoError(t, err)

	assert.Equal(t, 2, res.ConvergedAtRound)
	assert.Len(t, res.Turns, 4) // round 3 never ran
	assert.Equal(t, "done", res.Conclusion)

	// Exactly one check: round 1 never triggers one, round 2 converged.
	checks := pub.ofType(events.ConvergenceChecked)
	require.Len(t, checks, 1)
	payload := checks[0].Payload.(events.ConvergencePayload)
	assert.Equal(t, 2, payload.Round)
	assert.Equal(t, VerdictConverged, payload.Verdict)
}

func TestOrchestrator_ConvergenceCheckExcludesInterjections(t *testing.T) {
	alice := newMockAgent("a", "r1a", "r2a", "summary-a")
	bob := newMockAgent("b", "r1b", "r2b", "summary-b")
	summarizer := newMockAgent("summarizer", "CONVERGED", "done")

	cfg := twoReviewerConfig(alice, bob, Options{MaxRounds: 3, CheckConvergence: true})
	cfg.Summarizer = summarizer
	cfg.Interjections = &scriptedInterjections{inputs: []string{"", "steer toward the edge cases"}}

	o, err := New(cfg)
	require.NoError(t, err)
	res, err := o.Run(context.Background(), "label", "prompt")
	require.NoError(t, err)
	assert.Equal(t, 2, res.ConvergedAtRound)

	// The judge grades the round's reviewer positions only. The interjection
	// shares the round number but is not a position, and including it would
	// shift the numbering of every real one.
	judgePrompt := summarizer.capturedCalls()[0].Messages[0].Content
	assert.Contains(t, judgePrompt, "Reviewer 1:\nr2a")
	assert.Contains(t, judgePrompt, "Reviewer 2:\nr2b")
	assert.NotContains(t, judgePrompt, "steer toward the edge cases")
	assert.NotContains(t, judgePrompt, "Reviewer 3:")
}

func TestOrchestrator_FinalRoundSkipsConvergenceCheck(t *testing.T) {
	alice := newMockAgent("a", "r1", "r2", "s")
	bob := newMockAgent("b", "r1", "r2", "s")
	summarizer := newMockAgent("summarizer", "conclusion")

	cfg := twoReviewerConfig(alice, bob, Options{MaxRounds: 2, CheckConvergence: true})
	cfg.Summarizer = summarizer
	o, err := New(cfg)
	require.NoError(t, err)

	res, err := o.Run(context.Background(), "label", "prompt")
	require.NoError(t, err)

	// With maxRounds=2 no round qualifies: round 1 is too early and
	// round 2 is final. The summarizer is only called for the conclusion.
	assert.Zero(t, res.ConvergedAtRound)
	assert.Len(t, summarizer.capturedCalls(), 1)
}

func TestOrchestrator_QuitStillSummarizes(t *testing.T) {
	alice := newMockAgent("a", "r1", "summary-a")
	bob := newMockAgent("b", "r1", "summary-b")

	cfg := twoReviewerConfig(alice, bob, Options{MaxRounds: 5})
	cfg.Interjections = &scriptedInterjections{inputs: []string{"", "q"}}

	o, err := New(cfg)
	require.NoError(t, err)
	res, err := o.Run(context.Background(), "label", "prompt")
	require.NoError(t, err)

	// Quit before round 2: only round 1 committed, but summaries and
	// conclusion are still produced.
	assert.Len(t, res.Turns, 2)
	assert.Len(t, res.Summaries, 2)
	assert.Equal(t, "final conclusion", res.Conclusion)
	assert.Zero(t, res.ConvergedAtRound)
}

func TestOrchestrator_InterjectionJoinsTranscript(t *testing.T) {
	alice := newMockAgent("a", "r1", "r2", "s")
	bob := newMockAgent("b", "r1", "r2", "s")

	cfg := twoReviewerConfig(alice, bob, Options{MaxRounds: 2})
	cfg.Interjections = &scriptedInterjections{inputs: []string{"", "focus on the tests"}}

	o, err := New(cfg)
	require.NoError(t, err)
	res, err := o.Run(context.Background(), "label", "prompt")
	require.NoError(t, err)

	require.Len(t, res.Turns, 5)
	human := res.Turns[2]
	assert.Equal(t, AuthorHuman, human.Author)
	assert.Equal(t, 2, human.Round)
	assert.Equal(t, "focus on the tests", human.Content)

	// Round 2 requests include the interjection.
	assert.Contains(t, flattenCall(alice.capturedCalls()[1]), "focus on the tests")
	assert.Contains(t, flattenCall(bob.capturedCalls()[1]), "focus on the tests")
}

func TestOrchestrator_QAPhase(t *testing.T) {
	alice := newMockAgent("a", "answer!", "r1", "r2", "s")
	bob := newMockAgent("b", "r1", "r2", "s")

	cfg := twoReviewerConfig(alice, bob, Options{MaxRounds: 2})
	cfg.Questions = &scriptedQuestions{questions: [][2]string{
		{"nobody", "are you there?"},
		{"alice", "what worries you most?"},
	}}
	pub := &mockPublisher{}
	cfg.Publisher = pub

	o, err := New(cfg)
	require.NoError(t, err)
	res, err := o.Run(context.Background(), "label", "prompt")
	require.NoError(t, err)

	// Unknown target is skipped, not fatal.
	require.Len(t, pub.ofType(events.QAIgnored), 1)
	require.Len(t, pub.ofType(events.QAAnswer), 1)

	// Question and answer are round-0 turns ahead of the debate.
	require.GreaterOrEqual(t, len(res.Turns), 2)
	assert.Equal(t, AuthorHuman, res.Turns[0].Author)
	assert.Equal(t, 0, res.Turns[0].Round)
	assert.Equal(t, "alice", res.Turns[1].Author)
	assert.Equal(t, "answer!", res.Turns[1].Content)

	// Only alice was asked; bob's first call is still his round-1 turn.
	assert.Contains(t, flattenCall(alice.capturedCalls()[0]), "what worries you most?")
	assert.NotContains(t, flattenCall(bob.capturedCalls()[0]), "what worries you most?")
}

func TestOrchestrator_SessionLifecycle(t *testing.T) {
	alice := newMockSessionAgent("claude", "r1", "r2", "s")
	bob := newMockAgent("codex", "r1", "r2", "s")

	cfg := Config{
		Reviewers: []*Reviewer{
			{ID: "alice", Agent: alice},
			{ID: "bob", Agent: bob},
		},
		Analyzer:   newMockAgent("analyzer", "A"),
		Summarizer: newMockAgent("summarizer", "c"),
		Options:    Options{MaxRounds: 2},
	}
	o, err := New(cfg)
	require.NoError(t, err)

	_, err = o.Run(context.Background(), "label", "prompt")
	require.NoError(t, err)

	assert.Equal(t, 1, alice.starts)
	assert.Equal(t, 1, alice.ends)
	assert.False(t, alice.SessionActive())

	// Session-backed alice receives incremental payloads after round 1;
	// stateless bob gets the full reconstruction with framing.
	aliceR2 := flattenCall(alice.capturedCalls()[1])
	assert.NotContains(t, aliceR2, "[alice]")
	bobR2 := flattenCall(bob.capturedCalls()[1])
	assert.Contains(t, bobR2, `"bob"`)
}

func TestOrchestrator_UsageAccounting(t *testing.T) {
	alice := newMockAgent("a", "r1", "r2", "s")
	bob := newMockAgent("b", "r1", "r2", "s")
	o, err := New(twoReviewerConfig(alice, bob, Options{
		MaxRounds: 2,
		Pricing:   Pricing{InputPerMTok: 3, OutputPerMTok: 15},
	}))
	require.NoError(t, err)

	res, err := o.Run(context.Background(), "label", "prompt")
	require.NoError(t, err)

	for _, id := range []string{"alice", "bob", AuthorAnalyzer, AuthorSummarizer} {
		u, ok := res.Usage[id]
		require.True(t, ok, "missing usage for %s", id)
		assert.Positive(t, u.InputTokens, id)
		assert.Positive(t, u.OutputTokens, id)
	}

	// Two rounds plus one summary per reviewer.
	assert.Equal(t, 3, res.Usage["alice"].Calls)
	assert.Equal(t, 3, res.Usage["bob"].Calls)

	var sum Usage
	for _, u := range res.Usage {
		sum = sum.add(u)
	}
	assert.Equal(t, o.accountant.Totals(), sum)
}

func TestOrchestrator_ReviewerFailureAborts(t *testing.T) {
	alice := newMockAgent("a")
	alice.err = errors.New("exit status 1")
	bob := newMockAgent("b", "r1")

	pub := &mockPublisher{}
	cfg := twoReviewerConfig(alice, bob, Options{MaxRounds: 2})
	cfg.Publisher = pub

	o, err := New(cfg)
	require.NoError(t, err)
	_, err = o.Run(context.Background(), "label", "prompt")
	require.Error(t, err)

	failures := pub.ofType(events.DebateFailed)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Error, "exit status 1")
}

func TestNew_Validation(t *testing.T) {
	a := newMockAgent("a", "x")

	t.Run("needs two reviewers", func(t *testing.T) {
		_, err := New(Config{
			Reviewers:  []*Reviewer{{ID: "solo", Agent: a}},
			Analyzer:   a,
			Summarizer: a,
		})
		assert.Error(t, err)
	})

	t.Run("rejects reserved ids", func(t *testing.T) {
		_, err := New(Config{
			Reviewers: []*Reviewer{
				{ID: "human", Agent: a},
				{ID: "ok", Agent: a},
			},
			Analyzer:   a,
			Summarizer: a,
		})
		assert.Error(t, err)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		_, err := New(Config{
			Reviewers: []*Reviewer{
				{ID: "twin", Agent: a},
				{ID: "twin", Agent: a},
			},
			Analyzer:   a,
			Summarizer: a,
		})
		assert.Error(t, err)
	})
}
