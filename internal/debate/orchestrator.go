package debate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RevCBH/parley/internal/agent"
	"github.com/RevCBH/parley/internal/events"
)

// Reviewer is one debate participant: a stable ID, the agent backing it,
// and a fixed system instruction. Immutable for the duration of a run.
type Reviewer struct {
	ID     string
	Agent  agent.Agent
	System string

	// sessionBacked is determined once per run by probing the agent.
	sessionBacked bool
}

// Publisher receives lifecycle events as the debate progresses. Events are
// pure observations; nothing a subscriber does can change orchestration
// decisions.
type Publisher interface {
	Emit(events.Event)
}

type nopPublisher struct{}

func (nopPublisher) Emit(events.Event) {}

// InterjectionProvider supplies optional human input between rounds. It is
// consulted once before each round builds its requests. Empty text means
// continue silently; quit ends the round loop after the rounds already
// committed, still producing summaries and a conclusion.
type InterjectionProvider interface {
	Interjection(round int) (text string, quit bool)
}

// QAProvider supplies targeted questions for the post-analysis Q&A phase.
// NextQuestion is called repeatedly until ok is false. Questions name a
// single reviewer; they are never broadcast.
type QAProvider interface {
	NextQuestion(preAnalysis string) (reviewerID, question string, ok bool)
}

// Options control a debate run.
type Options struct {
	// MaxRounds caps the round loop. Defaults to 3.
	MaxRounds int

	// CheckConvergence enables the convergence judge after each
	// non-final round from round 2 on.
	CheckConvergence bool

	// Pricing converts estimated tokens to cost.
	Pricing Pricing
}

// Config assembles an orchestrator.
type Config struct {
	Reviewers  []*Reviewer
	Analyzer   agent.Agent
	Summarizer agent.Agent

	// Publisher is optional; a no-op publisher is used when nil.
	Publisher Publisher

	// Interjections is optional; nil disables between-round input.
	Interjections InterjectionProvider

	// Questions is optional; nil skips the post-analysis Q&A phase.
	Questions QAProvider

	Options Options
}

// ReviewerSummary is one reviewer's end-of-debate self-summary. Summaries
// are collected outside the shared transcript.
type ReviewerSummary struct {
	Reviewer string `json:"reviewer"`
	Summary  string `json:"summary"`
}

// Result is the immutable outcome of one debate run.
type Result struct {
	Label       string            `json:"label"`
	PreAnalysis string            `json:"pre_analysis"`
	Turns       []Turn            `json:"turns"`
	Summaries   []ReviewerSummary `json:"summaries"`
	Conclusion  string            `json:"conclusion"`
	Usage       map[string]Usage  `json:"usage"`

	// ConvergedAtRound is the round at which the judge reported consensus,
	// 0 if the debate ran to completion without converging.
	ConvergedAtRound int `json:"converged_at_round,omitempty"`

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// Orchestrator coordinates one debate at a time: analyzer pre-analysis,
// optional Q&A, the round loop, summary collection, and final conclusion.
// It exclusively owns the transcript, cursors, and token accounting for the
// duration of a run; a single instance must not serve concurrent runs.
type Orchestrator struct {
	reviewers  []*Reviewer
	analyzer   agent.Agent
	summarizer agent.Agent
	publisher  Publisher
	interject  InterjectionProvider
	questions  QAProvider
	opts       Options

	history    *History
	builder    *PromptBuilder
	accountant *Accountant
	judge      *Judge
}

// New validates the configuration and creates an orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if len(cfg.Reviewers) < 2 {
		return nil, errors.New("debate requires at least two reviewers")
	}
	if cfg.Analyzer == nil {
		return nil, errors.New("analyzer agent is required")
	}
	if cfg.Summarizer == nil {
		return nil, errors.New("summarizer agent is required")
	}

	seen := make(map[string]bool, len(cfg.Reviewers))
	ids := make([]string, 0, len(cfg.Reviewers))
	for _, r := range cfg.Reviewers {
		switch r.ID {
		case "", AuthorHuman, AuthorAnalyzer, AuthorSummarizer:
			return nil, fmt.Errorf("invalid reviewer id %q", r.ID)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("duplicate reviewer id %q", r.ID)
		}
		seen[r.ID] = true
		ids = append(ids, r.ID)
	}

	opts := cfg.Options
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = 3
	}

	publisher := cfg.Publisher
	if publisher == nil {
		publisher = nopPublisher{}
	}

	accountant := NewAccountant(opts.Pricing)
	return &Orchestrator{
		reviewers:  cfg.Reviewers,
		analyzer:   cfg.Analyzer,
		summarizer: cfg.Summarizer,
		publisher:  publisher,
		interject:  cfg.Interjections,
		questions:  cfg.Questions,
		opts:       opts,
		history:    NewHistory(),
		builder:    NewPromptBuilder(ids),
		accountant: accountant,
		judge:      NewJudge(cfg.Summarizer, accountant),
	}, nil
}

// Run executes a full debate and returns the result. Any agent failure
// aborts the run; there is no partial-result recovery at this layer.
func (o *Orchestrator) Run(ctx context.Context, label, prompt string) (*Result, error) {
	return o.run(ctx, label, prompt, false)
}

// RunStreaming behaves like Run but invokes reviewer agents through their
// streaming call, publishing MessageChunk events as text arrives. The
// result is identical to Run's.
func (o *Orchestrator) RunStreaming(ctx context.Context, label, prompt string) (*Result, error) {
	return o.run(ctx, label, prompt, true)
}

func (o *Orchestrator) run(ctx context.Context, label, prompt string, streaming bool) (result *Result, err error) {
	startedAt := time.Now()
	o.history = NewHistory()
	o.accountant.Reset()
	o.builder.Reset("")

	defer func() {
		if err != nil {
			o.publisher.Emit(events.NewEvent(events.DebateFailed, "").WithError(err))
		}
	}()

	if err := o.startSessions(ctx); err != nil {
		return nil, err
	}
	defer o.endSessions()

	o.publisher.Emit(events.NewEvent(events.DebateStarted, "").WithPayload(label))

	analysis, err := o.analyze(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if err := o.runQA(ctx, analysis); err != nil {
		return nil, err
	}

	convergedAt, err := o.runRounds(ctx, streaming)
	if err != nil {
		return nil, err
	}

	summaries, err := o.collectSummaries(ctx)
	if err != nil {
		return nil, err
	}

	conclusion, err := o.synthesize(ctx, summaries)
	if err != nil {
		return nil, err
	}

	result = &Result{
		Label:            label,
		PreAnalysis:      analysis,
		Turns:            o.history.Turns(),
		Summaries:        summaries,
		Conclusion:       conclusion,
		Usage:            o.accountant.Usage(),
		ConvergedAtRound: convergedAt,
		StartedAt:        startedAt,
		CompletedAt:      time.Now(),
	}
	o.publisher.Emit(events.NewEvent(events.DebateCompleted, "").WithPayload(result))
	return result, nil
}

// startSessions probes each reviewer's agent once for session support and
// opens a session where available. The flag is never re-evaluated mid-run.
func (o *Orchestrator) startSessions(ctx context.Context) error {
	for _, r := range o.reviewers {
		sa, ok := r.Agent.(agent.SessionAgent)
		if !ok {
			r.sessionBacked = false
			continue
		}
		if err := sa.StartSession(ctx); err != nil {
			return fmt.Errorf("start session for %s: %w", r.ID, err)
		}
		r.sessionBacked = true
	}
	return nil
}

func (o *Orchestrator) endSessions() {
	for _, r := range o.reviewers {
		if !r.sessionBacked {
			continue
		}
		if sa, ok := r.Agent.(agent.SessionAgent); ok {
			_ = sa.EndSession()
		}
		r.sessionBacked = false
	}
}

func (o *Orchestrator) analyze(ctx context.Context, prompt string) (string, error) {
	o.publisher.Emit(events.NewEvent(events.AnalysisStarted, AuthorAnalyzer))

	analysis, err := o.analyzer.Chat(ctx, agent.UserMessage(prompt), "")
	if err != nil {
		return "", fmt.Errorf("pre-analysis: %w", err)
	}
	o.accountant.Record(AuthorAnalyzer, prompt, analysis)
	o.builder.SetPreAnalysis(analysis)

	o.publisher.Emit(events.NewEvent(events.AnalysisCompleted, AuthorAnalyzer).WithPayload(analysis))
	return analysis, nil
}

// runQA routes targeted human questions to individual reviewers. Questions
// and answers join the transcript as round-0 turns; only the targeted
// reviewer's cursor moves. Unknown reviewer IDs are skipped, not fatal.
func (o *Orchestrator) runQA(ctx context.Context, analysis string) error {
	if o.questions == nil {
		return nil
	}

	for {
		reviewerID, question, ok := o.questions.NextQuestion(analysis)
		if !ok {
			return nil
		}

		reviewer := o.reviewerByID(reviewerID)
		if reviewer == nil {
			o.publisher.Emit(events.NewEvent(events.QAIgnored, reviewerID).WithPayload(question))
			continue
		}
		o.publisher.Emit(events.NewEvent(events.QAQuestion, reviewerID).WithPayload(question))

		o.history.Append(AuthorHuman, 0, fmt.Sprintf("(to %s) %s", reviewerID, question))
		req := o.builder.BuildQA(o.history, reviewerID, reviewer.sessionBacked, question)

		answer, err := reviewer.Agent.Chat(ctx, req.Messages, reviewer.System)
		if err != nil {
			return fmt.Errorf("question to %s: %w", reviewerID, err)
		}
		o.accountant.Record(reviewerID, requestText(req, reviewer.System), answer)

		idx := o.history.Append(reviewerID, 0, answer)
		o.builder.CommitOwnTurn(reviewerID, idx)
		o.publisher.Emit(events.NewEvent(events.QAAnswer, reviewerID).WithPayload(answer))
	}
}

func (o *Orchestrator) runRounds(ctx context.Context, streaming bool) (convergedAt int, err error) {
	runner := NewRoundRunner(o.publisher, streaming)

	for round := 1; round <= o.opts.MaxRounds; round++ {
		if o.checkInterjection(round) {
			return 0, nil
		}

		o.publisher.Emit(events.NewEvent(events.RoundStarted, "").WithRound(round))

		// Every request is built against the same snapshot before any
		// reviewer executes; this is what makes same-round visibility
		// identical for all participants.
		requests := make([]BuiltRequest, len(o.reviewers))
		for i, r := range o.reviewers {
			requests[i] = BuiltRequest{
				Reviewer: r,
				Request:  o.builder.Build(o.history, r.ID, r.sessionBacked),
			}
		}

		responses, err := runner.Run(ctx, round, requests)
		if err != nil {
			return 0, fmt.Errorf("round %d: %w", round, err)
		}

		// Commit in construction order, not completion order.
		for i, r := range o.reviewers {
			o.accountant.Record(r.ID, requestText(requests[i].Request, r.System), responses[i])
			idx := o.history.Append(r.ID, round, responses[i])
			o.builder.CommitOwnTurn(r.ID, idx)
		}

		converged, err := o.checkConvergence(ctx, round)
		if err != nil {
			return 0, err
		}

		o.publisher.Emit(events.NewEvent(events.RoundCompleted, "").
			WithRound(round).
			WithPayload(events.RoundCompletedPayload{Round: round, Converged: converged}))

		if converged {
			return round, nil
		}
	}
	return 0, nil
}

// checkInterjection consults the human before a round builds its requests.
// Interjections become human turns tagged with the upcoming round.
func (o *Orchestrator) checkInterjection(round int) (quit bool) {
	if o.interject == nil {
		return false
	}

	text, quit := o.interject.Interjection(round)
	if quit {
		o.publisher.Emit(events.NewEvent(events.Interjection, AuthorHuman).
			WithRound(round).
			WithPayload("quit"))
		return true
	}
	if text != "" {
		o.history.Append(AuthorHuman, round, text)
		o.publisher.Emit(events.NewEvent(events.Interjection, AuthorHuman).
			WithRound(round).
			WithPayload(text))
	}
	return false
}

// checkConvergence runs the judge against exactly this round's reviewer
// turns. Round 1 is independent opinions and can never show consensus, and
// checking the final round would save nothing, so both are skipped.
func (o *Orchestrator) checkConvergence(ctx context.Context, round int) (bool, error) {
	if !o.opts.CheckConvergence || round < 2 || round >= o.opts.MaxRounds {
		return false, nil
	}

	converged, verdict, err := o.judge.Check(ctx, o.reviewerTurns(round))
	if err != nil {
		return false, err
	}
	o.publisher.Emit(events.NewEvent(events.ConvergenceChecked, "").
		WithRound(round).
		WithPayload(events.ConvergencePayload{Round: round, Verdict: verdict}))
	return converged, nil
}

// collectSummaries asks each reviewer for a final anonymized position.
// Summaries live outside the shared transcript.
func (o *Orchestrator) collectSummaries(ctx context.Context) ([]ReviewerSummary, error) {
	summaries := make([]ReviewerSummary, 0, len(o.reviewers))
	for _, r := range o.reviewers {
		req := o.builder.BuildSummary(o.history, r.ID, r.sessionBacked)

		summary, err := r.Agent.Chat(ctx, req.Messages, r.System)
		if err != nil {
			return nil, fmt.Errorf("summary from %s: %w", r.ID, err)
		}
		o.accountant.Record(r.ID, requestText(req, r.System), summary)

		summaries = append(summaries, ReviewerSummary{Reviewer: r.ID, Summary: summary})
		o.publisher.Emit(events.NewEvent(events.SummaryCollected, r.ID).WithPayload(summary))
	}
	return summaries, nil
}

// synthesize feeds the numbered, anonymized summaries to the summarizer
// for the final conclusion. Reviewer IDs never reach the summarizer.
func (o *Orchestrator) synthesize(ctx context.Context, summaries []ReviewerSummary) (string, error) {
	var sb strings.Builder
	sb.WriteString("Several independent reviewers debated the same material. " +
		"Their final positions are below. Synthesize them into one conclusion: " +
		"the overall verdict, the points of agreement, and any remaining disagreements.\n\n")
	for i, s := range summaries {
		fmt.Fprintf(&sb, "Reviewer %d:\n%s\n\n", i+1, s.Summary)
	}

	input := sb.String()
	conclusion, err := o.summarizer.Chat(ctx, agent.UserMessage(input), "")
	if err != nil {
		return "", fmt.Errorf("final conclusion: %w", err)
	}
	o.accountant.Record(AuthorSummarizer, input, conclusion)

	o.publisher.Emit(events.NewEvent(events.ConclusionReady, AuthorSummarizer).WithPayload(conclusion))
	return conclusion, nil
}

// reviewerTurns returns the round's turns authored by panel members.
// Human interjections carry the same round number but are not positions
// to be graded.
func (o *Orchestrator) reviewerTurns(round int) []Turn {
	var out []Turn
	for _, turn := range o.history.Round(round) {
		if turn.Author != AuthorHuman {
			out = append(out, turn)
		}
	}
	return out
}

func (o *Orchestrator) reviewerByID(id string) *Reviewer {
	for _, r := range o.reviewers {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// requestText flattens a request for token estimation.
func requestText(req Request, system string) string {
	text := agent.FlattenMessages(req.Messages)
	if system != "" {
		text = system + "\n\n" + text
	}
	return text
}
