// Package gather assembles the label and prompt a debate starts from: a
// git diff against a base branch, or a free-form discussion topic. The
// debate engine treats both as opaque text.
package gather

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes an external command and returns its stdout.
type Runner interface {
	Exec(ctx context.Context, dir string, name string, args ...string) (string, error)
}

type osRunner struct{}

func (osRunner) Exec(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Context is the assembled input for one debate.
type Context struct {
	// Label identifies the debate in reports and storage.
	Label string

	// Prompt is the text handed to the analyzer.
	Prompt string
}

// Gatherer builds debate contexts.
type Gatherer struct {
	runner Runner
}

// New creates a Gatherer that shells out to git.
func New() *Gatherer {
	return &Gatherer{runner: osRunner{}}
}

// NewWithRunner creates a Gatherer with a custom command runner.
func NewWithRunner(r Runner) *Gatherer {
	return &Gatherer{runner: r}
}

// DiffContext builds a review context from the changes on the current
// branch relative to baseBranch: the branch name as label, and the commit
// log plus full diff as prompt.
func (g *Gatherer) DiffContext(ctx context.Context, workdir, baseBranch string) (Context, error) {
	branch, err := g.runner.Exec(ctx, workdir, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return Context{}, fmt.Errorf("resolve branch: %w", err)
	}
	branch = strings.TrimSpace(branch)

	mergeBase := baseBranch + "...HEAD"
	log, err := g.runner.Exec(ctx, workdir, "git", "log", "--oneline", mergeBase)
	if err != nil {
		return Context{}, fmt.Errorf("commit log: %w", err)
	}

	diff, err := g.runner.Exec(ctx, workdir, "git", "diff", mergeBase)
	if err != nil {
		return Context{}, fmt.Errorf("diff: %w", err)
	}
	if strings.TrimSpace(diff) == "" {
		return Context{}, fmt.Errorf("no changes between %s and HEAD", baseBranch)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Review the following change on branch %q (relative to %s).\n\n", branch, baseBranch)
	if log = strings.TrimSpace(log); log != "" {
		sb.WriteString("Commits:\n")
		sb.WriteString(log)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Diff:\n```diff\n")
	sb.WriteString(strings.TrimSpace(diff))
	sb.WriteString("\n```\n")

	return Context{Label: branch, Prompt: sb.String()}, nil
}

// TopicContext builds a discussion context from a free-form topic.
func (g *Gatherer) TopicContext(topic string) (Context, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Context{}, fmt.Errorf("topic must not be empty")
	}

	label := topic
	if len(label) > 60 {
		label = label[:60]
	}
	prompt := "Analyze the following question or proposal. Lay out the " +
		"considerations on each side so a panel of reviewers can debate it.\n\n" + topic

	return Context{Label: label, Prompt: prompt}, nil
}
