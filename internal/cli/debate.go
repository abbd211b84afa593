package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RevCBH/parley/internal/gather"
)

// NewDebateCmd creates the debate command
func NewDebateCmd(app *App) *cobra.Command {
	var opts DebateOptions

	cmd := &cobra.Command{
		Use:   "debate <topic>",
		Short: "Debate a free-form question or proposal",
		Long: `Debate runs the reviewer panel against an arbitrary topic instead
of a code change, e.g.:

  parley debate "should we switch the job queue to NATS?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gctx, err := gather.New().TopicContext(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return app.runDebate(context.Background(), gctx, opts)
		},
	}

	addDebateFlags(cmd, &opts)
	return cmd
}
