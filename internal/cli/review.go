package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RevCBH/parley/internal/gather"
)

// ReviewOptions holds flags for the review command.
type ReviewOptions struct {
	DebateOptions

	// Base is the branch the change is compared against.
	Base string

	// Workdir is the repository to review (default: current directory).
	Workdir string
}

// NewReviewCmd creates the review command
func NewReviewCmd(app *App) *cobra.Command {
	opts := ReviewOptions{Base: "main"}

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Debate the changes on the current branch",
		Long: `Review gathers the diff between the current branch and the base
branch, then runs the reviewer panel against it. The final conclusion and
full transcript are printed when the debate ends.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			workdir := opts.Workdir
			if workdir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolve working directory: %w", err)
				}
				workdir = wd
			}

			gctx, err := gather.New().DiffContext(ctx, workdir, opts.Base)
			if err != nil {
				return err
			}
			return app.runDebate(ctx, gctx, opts.DebateOptions)
		},
	}

	cmd.Flags().StringVarP(&opts.Base, "base", "b", "main", "Base branch to diff against")
	cmd.Flags().StringVar(&opts.Workdir, "workdir", "", "Repository directory (default: cwd)")
	addDebateFlags(cmd, &opts.DebateOptions)

	return cmd
}

// addDebateFlags registers the flags shared by review and debate.
func addDebateFlags(cmd *cobra.Command, opts *DebateOptions) {
	cmd.Flags().IntVarP(&opts.Rounds, "rounds", "r", 0, "Max debate rounds (overrides config)")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Enable Q&A and between-round interjections")
	cmd.Flags().BoolVar(&opts.NoConvergence, "no-convergence", false, "Run all rounds even if the panel agrees early")
	cmd.Flags().BoolVar(&opts.NoTUI, "no-tui", false, "Disable interactive TUI")
	cmd.Flags().BoolVar(&opts.NoSave, "no-save", false, "Do not persist the debate result")
}
