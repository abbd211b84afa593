package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RevCBH/parley/internal/report"
	"github.com/RevCBH/parley/internal/store"
)

// NewShowCmd creates the show command
func NewShowCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <debate-id>",
		Short: "Render a saved debate as Markdown or JSON",
		Args:  cobra.ExactArgs(1),
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

			res, err := s.Get(context.Background(), args[0])
			if err != nil {
				return err
			}

			if asJSON {
				out, err := report.JSON(res)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Markdown(res))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON instead of Markdown")
	return cmd
}
