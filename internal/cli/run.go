package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/RevCBH/parley/internal/agent"
	"github.com/RevCBH/parley/internal/cli/tui"
	"github.com/RevCBH/parley/internal/config"
	"github.com/RevCBH/parley/internal/debate"
	"github.com/RevCBH/parley/internal/events"
	"github.com/RevCBH/parley/internal/gather"
	"github.com/RevCBH/parley/internal/store"
)

// DebateOptions holds flags shared by the review and debate commands.
type DebateOptions struct {
	Rounds        int  // Max debate rounds (0 = use config)
	Interactive   bool // Enable Q&A and between-round interjections
	NoConvergence bool // Run all rounds even if the panel agrees early
	NoTUI         bool // Disable TUI even when stdout is a TTY
	NoSave        bool // Skip persisting the result
}

// runDebate is the shared execution path behind the review and debate
// commands: load config, wire agents and observers, run the debate, then
// persist and render the result.
func (a *App) runDebate(ctx context.Context, gctx gather.Context, opts DebateOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if opts.Rounds > 0 {
		cfg.Debate.MaxRounds = opts.Rounds
	}
	if opts.NoConvergence {
		cfg.Debate.CheckConvergence = false
	}
	if opts.Interactive {
		cfg.Debate.Interactive = true
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bus := events.NewBus()

	jsonMode := events.IsJSONMode(a.jsonOut)
	if jsonMode {
		bus.SubscribeAll(events.JSONEmitterHandler(events.NewJSONEmitter(os.Stdout)))
	}
	if a.verbose {
		bus.SubscribeAll(events.LogHandler(events.LogConfig{Writer: os.Stderr}))
	}

	// The TUI owns the terminal; interactive mode needs stdin for itself.
	useTUI := !opts.NoTUI && !jsonMode && !cfg.Debate.Interactive &&
		term.IsTerminal(int(os.Stdout.Fd()))

	var tuiProgram *tea.Program
	if useTUI {
		model := tui.NewModel(gctx.Label, reviewerIDs(cfg))
		tuiProgram = tea.NewProgram(model, tea.WithAltScreen())
		bridge := tui.NewBridge(tuiProgram)
		bus.SubscribeAll(bridge.Handler())

		go func() {
			if _, err := tuiProgram.Run(); err != nil {
				fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			}
		}()
		defer bridge.SendDone()
	}

	orch, err := buildOrchestrator(cfg, bus)
	if err != nil {
		return err
	}

	bus.Emit(events.NewEvent(events.ContextGathered, "").WithPayload(gctx.Label))

	var result *debate.Result
	if useTUI {
		result, err = orch.RunStreaming(ctx, gctx.Label, gctx.Prompt)
	} else {
		result, err = orch.Run(ctx, gctx.Label, gctx.Prompt)
	}
	if err != nil {
		return err
	}

	if !opts.NoSave && cfg.Store.Path != "" {
		id, err := saveResult(ctx, cfg.Store.Path, result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not save debate: %v\n", err)
		} else if !jsonMode {
			fmt.Fprintf(os.Stderr, "saved as %s\n", id)
		}
	}

	if !jsonMode {
		fmt.Print(renderResult(result))
	}
	return nil
}

// buildOrchestrator wires configured agents into a debate orchestrator.
func buildOrchestrator(cfg *config.Config, bus *events.Bus) (*debate.Orchestrator, error) {
	analyzer, err := agent.FromConfig(cfg.Analyzer.Backend())
	if err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}
	summarizer, err := agent.FromConfig(cfg.Summarizer.Backend())
	if err != nil {
		return nil, fmt.Errorf("summarizer: %w", err)
	}

	reviewers := make([]*debate.Reviewer, 0, len(cfg.Reviewers))
	for _, rc := range cfg.Reviewers {
		ag, err := agent.FromConfig(rc.Agent.Backend())
		if err != nil {
			return nil, fmt.Errorf("reviewer %q: %w", rc.ID, err)
		}
		reviewers = append(reviewers, &debate.Reviewer{
			ID:     rc.ID,
			Agent:  ag,
			System: rc.System,
		})
	}

	dcfg := debate.Config{
		Reviewers:  reviewers,
		Analyzer:   analyzer,
		Summarizer: summarizer,
		Publisher:  bus,
		Options: debate.Options{
			MaxRounds:        cfg.Debate.MaxRounds,
			CheckConvergence: cfg.Debate.CheckConvergence,
			Pricing: debate.Pricing{
				InputPerMTok:  cfg.Pricing.InputPerMTok,
				OutputPerMTok: cfg.Pricing.OutputPerMTok,
			},
		},
	}

	if cfg.Debate.Interactive {
		interactor := newTerminalInteractor(os.Stdin, os.Stderr, reviewerIDs(cfg))
		dcfg.Interjections = interactor
		dcfg.Questions = interactor
	}

	return debate.New(dcfg)
}

func reviewerIDs(cfg *config.Config) []string {
	ids := make([]string, len(cfg.Reviewers))
	for i, r := range cfg.Reviewers {
		ids[i] = r.ID
	}
	return ids
}

func saveResult(ctx context.Context, path string, res *debate.Result) (string, error) {
	s, err := store.Open(path)
	if err != nil {
		return "", err
	}
	defer s.Close()
	return s.Save(ctx, res)
}
