package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/RevCBH/parley/internal/store"
)

// NewListCmd creates the list command
func NewListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved debates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Store.Path == "" {
				return fmt.Errorf("persistence is disabled (store.path is empty)")
			}

			s, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer s.Close()

			debates, err := s.List(context.Background())
			if err != nil {
				return err
			}
			if len(debates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no saved debates")
				return nil
			}

			for _, d := range debates {
				verdict := "open"
				if d.ConvergedRound > 0 {
					verdict = fmt.Sprintf("converged r%d", d.ConvergedRound)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s  %2d turns  %-14s  %s\n",
					d.ID, verdict, d.TurnCount, humanize.Time(d.StartedAt), d.Label)
			}
			return nil
		},
	}
}
