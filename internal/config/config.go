package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/RevCBH/parley/internal/agent"
	"github.com/RevCBH/parley/internal/debate"
)

// ProviderType represents a supported LLM backend.
type ProviderType string

const (
	ProviderClaude ProviderType = "claude"
	ProviderCodex  ProviderType = "codex"
)

// AgentConfig selects and configures one LLM backend.
type AgentConfig struct {
	// Provider is the backend type: "claude" (default) or "codex"
	Provider ProviderType `yaml:"provider"`

	// Command overrides the CLI binary path for this backend
	Command string `yaml:"command,omitempty"`

	// Model selects a specific model (optional, backend-dependent)
	Model string `yaml:"model,omitempty"`
}

// ReviewerConfig defines one debate participant.
type ReviewerConfig struct {
	// ID uniquely identifies the reviewer within the debate.
	// Must not be "human", "analyzer", or "summarizer".
	ID string `yaml:"id"`

	// Agent selects the backend for this reviewer
	Agent AgentConfig `yaml:"agent"`

	// System is the reviewer's fixed system instruction, giving it a
	// persistent perspective (e.g. security-focused, performance-focused)
	System string `yaml:"system,omitempty"`
}

// DebateConfig controls the round loop.
type DebateConfig struct {
	// MaxRounds caps the number of debate rounds
	MaxRounds int `yaml:"max_rounds"`

	// CheckConvergence enables early termination once the panel agrees
	CheckConvergence bool `yaml:"check_convergence"`

	// Interactive enables between-round interjections and post-analysis Q&A
	Interactive bool `yaml:"interactive"`
}

// PricingConfig converts estimated token counts into dollar cost.
type PricingConfig struct {
	InputPerMTok  float64 `yaml:"input_per_mtok"`
	OutputPerMTok float64 `yaml:"output_per_mtok"`
}

// StoreConfig controls debate persistence.
type StoreConfig struct {
	// Path is the SQLite database file. Empty disables persistence.
	Path string `yaml:"path"`
}

// Config holds all configuration for a debate run.
// It is immutable after creation via LoadConfig().
type Config struct {
	// Reviewers are the debate participants (at least two required)
	Reviewers []ReviewerConfig `yaml:"reviewers"`

	// Analyzer produces the pre-analysis every reviewer starts from
	Analyzer AgentConfig `yaml:"analyzer"`

	// Summarizer judges convergence and synthesizes the final conclusion
	Summarizer AgentConfig `yaml:"summarizer"`

	// Debate controls the round loop
	Debate DebateConfig `yaml:"debate"`

	// Pricing converts token estimates to cost in the usage table
	Pricing PricingConfig `yaml:"pricing"`

	// Store controls debate persistence
	Store StoreConfig `yaml:"store"`

	// LogLevel controls log verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`
}

// LoadConfig reads configuration from path, falling back to defaults when
// the file does not exist. File values are layered over defaults, then
// validated.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	// Note: missing config file is not an error (use defaults)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if len(c.Reviewers) < 2 {
		return fmt.Errorf("at least two reviewers required, got %d", len(c.Reviewers))
	}

	seen := make(map[string]bool, len(c.Reviewers))
	for _, r := range c.Reviewers {
		if r.ID == "" {
			return fmt.Errorf("reviewer id must not be empty")
		}
		switch r.ID {
		case debate.AuthorHuman, debate.AuthorAnalyzer, debate.AuthorSummarizer:
			return fmt.Errorf("reviewer id %q is reserved", r.ID)
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate reviewer id %q", r.ID)
		}
		seen[r.ID] = true

		if err := r.Agent.validate(); err != nil {
			return fmt.Errorf("reviewer %q: %w", r.ID, err)
		}
	}

	if err := c.Analyzer.validate(); err != nil {
		return fmt.Errorf("analyzer: %w", err)
	}
	if err := c.Summarizer.validate(); err != nil {
		return fmt.Errorf("summarizer: %w", err)
	}

	if c.Debate.MaxRounds < 1 {
		return fmt.Errorf("max_rounds must be at least 1, got %d", c.Debate.MaxRounds)
	}
	if c.Pricing.InputPerMTok < 0 || c.Pricing.OutputPerMTok < 0 {
		return fmt.Errorf("pricing must not be negative")
	}
	return nil
}

// Backend converts the selection into the agent factory's config.
func (a AgentConfig) Backend() agent.Config {
	provider := a.Provider
	if provider == "" {
		provider = ProviderClaude
	}
	return agent.Config{
		Type:    agent.Type(provider),
		Command: a.Command,
		Model:   a.Model,
	}
}

func (a AgentConfig) validate() error {
	switch a.Provider {
	case ProviderClaude, ProviderCodex, "":
		return nil
	default:
		return fmt.Errorf("invalid provider: %q (must be 'claude' or 'codex')", a.Provider)
	}
}
