package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodexAgent_BuildArgs(t *testing.T) {
	a := NewCodex("", "")
	args := a.buildArgs(UserMessage("review this"), "")

	assert.Equal(t, []string{"exec", "--skip-git-repo-check", "review this"}, args)
}

func TestCodexAgent_BuildArgs_SystemPrepended(t *testing.T) {
	a := NewCodex("", "gpt-5")
	args := a.buildArgs(UserMessage("review this"), "you are harsh")

	assert.Contains(t, args, "--model")
	assert.Contains(t, args, "gpt-5")
	assert.Equal(t, "you are harsh\n\nreview this", args[len(args)-1])
}

func TestCodexAgent_ChatRejectsEmptyPayload(t *testing.T) {
	a := NewCodex("", "")
	_, err := a.Chat(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestFromConfig(t *testing.T) {
	t.Run("defaults to claude", func(t *testing.T) {
		a, err := FromConfig(Config{})
		assert.NoError(t, err)
		assert.IsType(t, &ClaudeAgent{}, a)
	})

	t.Run("codex", func(t *testing.T) {
		a, err := FromConfig(Config{Type: TypeCodex})
		assert.NoError(t, err)
		assert.IsType(t, &CodexAgent{}, a)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := FromConfig(Config{Type: "gemini"})
		assert.Error(t, err)
	})
}
