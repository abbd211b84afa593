package config

const (
	DefaultMaxRounds     = 3
	DefaultClaudeCommand = "claude"
	DefaultCodexCommand  = "codex"
	DefaultStorePath     = ".parley/debates.db"
	DefaultLogLevel      = "info"
)

// DefaultConfig returns a Config with all default values applied: a
// two-member panel of one Claude and one Codex reviewer with opposing
// instructions, a Claude analyzer and summarizer, and convergence
// checking enabled.
func DefaultConfig() *Config {
	return &Config{
		Reviewers: []ReviewerConfig{
			{
				ID:     "advocate",
				Agent:  AgentConfig{Provider: ProviderClaude},
				System: "You look for reasons the change is acceptable. Concede real problems, but push back on nitpicks.",
			},
			{
				ID:     "skeptic",
				Agent:  AgentConfig{Provider: ProviderCodex},
				System: "You look for defects, risks, and missing tests. Concede solid work, but do not let weak arguments pass.",
			},
		},
		Analyzer:   AgentConfig{Provider: ProviderClaude},
		Summarizer: AgentConfig{Provider: ProviderClaude},
		Debate: DebateConfig{
			MaxRounds:        DefaultMaxRounds,
			CheckConvergence: true,
		},
		Store: StoreConfig{
			Path: DefaultStorePath,
		},
		LogLevel: DefaultLogLevel,
	}
}
