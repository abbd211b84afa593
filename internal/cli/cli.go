package cli

import (
	"github.com/spf13/cobra"

	"github.com/RevCBH/parley/internal/config"
)

// App represents the CLI application with all wired dependencies
type App struct {
	// Root command
	rootCmd *cobra.Command

	// Persistent flags
	configPath string
	verbose    bool
	jsonOut    bool

	// Version information
	version string
	commit  string
	date    string
}

// New creates a new CLI application
func New() *App {
	app := &App{}
	app.setupRootCmd()
	return app
}

// Execute runs the CLI application
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

// SetVersion sets the version string for the version command
func (a *App) SetVersion(version, commit, date string) {
	a.version = version
	a.commit = commit
	a.date = date
}

// setupRootCmd configures the root Cobra command
func (a *App) setupRootCmd() {
	a.rootCmd = &cobra.Command{
		Use:   "parley",
		Short: "Adversarial multi-agent debate over code changes and topics",
		Long: `Parley runs a structured debate among independent LLM reviewers:
an analyzer frames the material, the panel argues over several rounds,
a judge detects consensus, and a summarizer produces the final verdict.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	a.rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", ".parley.yaml",
		"Path to config file")
	a.rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"Verbose event logging to stderr")
	a.rootCmd.PersistentFlags().BoolVar(&a.jsonOut, "json", false,
		"Emit events as JSON lines on stdout")

	a.rootCmd.AddCommand(
		NewReviewCmd(a),
		NewDebateCmd(a),
		NewListCmd(a),
		NewShowCmd(a),
		NewVersionCmd(a),
	)
}

// loadConfig loads the config file named by the persistent flag.
func (a *App) loadConfig() (*config.Config, error) {
	return config.LoadConfig(a.configPath)
}
