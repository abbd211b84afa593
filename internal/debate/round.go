package debate

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/RevCBH/parley/internal/events"
)

// Reviewer status values reported through ParallelStatus events.
const (
	StatusPending  = "pending"
	StatusThinking = "thinking"
	StatusDone     = "done"
	StatusFailed   = "failed"
)

// BuiltRequest pairs a reviewer with the request rendered for it. All of a
// round's requests are built before the runner starts, so every reviewer
// works from the same transcript snapshot.
type BuiltRequest struct {
	Reviewer *Reviewer
	Request  Request
}

// RoundRunner executes one round's requests concurrently and returns the
// responses in input order. Responses are buffered here, never written to
// the shared transcript; the orchestrator commits the whole batch once all
// reviewers have resolved.
type RoundRunner struct {
	publisher Publisher
	streaming bool

	mu       sync.Mutex
	statuses []events.ReviewerStatus
}

// NewRoundRunner creates a runner. When streaming is true, reviewer agents
// are invoked through their streaming call and chunks are published as
// MessageChunk events.
func NewRoundRunner(publisher Publisher, streaming bool) *RoundRunner {
	return &RoundRunner{publisher: publisher, streaming: streaming}
}

// Run executes all requests concurrently and waits for the full batch.
// The returned slice is indexed like the input. Any reviewer failure
// cancels the remaining calls and fails the round.
func (r *RoundRunner) Run(ctx context.Context, round int, requests []BuiltRequest) ([]string, error) {
	r.mu.Lock()
	r.statuses = make([]events.ReviewerStatus, len(requests))
	for i, req := range requests {
		r.statuses[i] = events.ReviewerStatus{
			Reviewer: req.Reviewer.ID,
			Status:   StatusPending,
		}
	}
	r.mu.Unlock()
	r.publishStatus(round)

	responses := make([]string, len(requests))

	g, ctx := errgroup.WithContext(ctx)
	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			r.setStatus(round, i, StatusThinking)
			r.publisher.Emit(events.NewEvent(events.ReviewerWaiting, req.Reviewer.ID).WithRound(round))

			text, err := r.execute(ctx, round, req)
			if err != nil {
				r.setStatus(round, i, StatusFailed)
				return err
			}

			responses[i] = text
			r.setStatus(round, i, StatusDone)
			r.publisher.Emit(events.NewEvent(events.ReviewerCompleted, req.Reviewer.ID).
				WithRound(round).
				WithPayload(text))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *RoundRunner) execute(ctx context.Context, round int, req BuiltRequest) (string, error) {
	if !r.streaming {
		return req.Reviewer.Agent.Chat(ctx, req.Request.Messages, req.Reviewer.System)
	}
	return req.Reviewer.Agent.ChatStream(ctx, req.Request.Messages, req.Reviewer.System,
		func(chunk string) {
			r.publisher.Emit(events.NewEvent(events.MessageChunk, req.Reviewer.ID).
				WithRound(round).
				WithPayload(chunk))
		})
}

func (r *RoundRunner) setStatus(round, i int, status string) {
	now := time.Now()

	r.mu.Lock()
	switch status {
	case StatusThinking:
		r.statuses[i].StartedAt = &now
	case StatusDone, StatusFailed:
		r.statuses[i].FinishedAt = &now
	}
	r.statuses[i].Status = status
	r.mu.Unlock()

	r.publishStatus(round)
}

// publishStatus emits a snapshot of every reviewer's state so observers can
// render a live progress table.
func (r *RoundRunner) publishStatus(round int) {
	r.mu.Lock()
	snapshot := make([]events.ReviewerStatus, len(r.statuses))
	copy(snapshot, r.statuses)
	r.mu.Unlock()

	r.publisher.Emit(events.NewEvent(events.ParallelStatus, "").
		WithRound(round).
		WithPayload(snapshot))
}
