package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RevCBH/parley/internal/config"
	"github.com/RevCBH/parley/internal/events"
)

func TestBuildOrchestrator_DefaultConfig(t *testing.T) {
	orch, err := buildOrchestrator(config.DefaultConfig(), events.NewBus())
	require.NoError(t, err)
	assert.NotNil(t, orch)
}

func TestBuildOrchestrator_BadProvider(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Analyzer.Provider = "gemini"
	_, err := buildOrchestrator(cfg, events.NewBus())
	assert.ErrorContains(t, err, "analyzer")
}

func TestReviewerIDs(t *testing.T) {
	assert.Equal(t, []string{"advocate", "skeptic"}, reviewerIDs(config.DefaultConfig()))
}

func TestVersionCmd(t *testing.T) {
	app := New()
	app.SetVersion("1.2.3", "abc123", "2026-08-01")

	var out bytes.Buffer
	cmd := NewVersionCmd(app)
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "1.2.3")
	assert.Contains(t, out.String(), "abc123")
}
