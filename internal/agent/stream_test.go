package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStreamLine_TextDelta(t *testing.T) {
	line := `{"type":"content_block_delta","delta":{"type":"text_delta","text":"Hello"}}`
	assert.Equal(t, []string{"Hello"}, parseStreamLine(line))
}

func TestParseStreamLine_AssistantMessage(t *testing.T) {
	line := `{"type":"assistant","message":{"content":[{"type":"text","text":"part one"},{"type":"tool_use"},{"type":"text","text":" part two"}]}}`
	assert.Equal(t, []string{"part one", " part two"}, parseStreamLine(line))
}

func TestParseStreamLine_Ignored(t *testing.T) {
	for _, line := range []string{
		"not json at all",
		`{"type":"system","subtype":"init"}`,
		`{"type":"content_block_delta","delta":{"type":"input_json_delta","partial_json":"{"}}`,
		`{"type":"result","result":"done"}`,
		`{"type":"content_block_delta"}`,
	} {
		assert.Nil(t, parseStreamLine(line), "line: %s", line)
	}
}

func TestParseStreamLine_ConcatenationMatchesFullText(t *testing.T) {
	lines := []string{
		`{"type":"content_block_delta","delta":{"type":"text_delta","text":"The answer "}}`,
		`{"type":"content_block_delta","delta":{"type":"text_delta","text":"is "}}`,
		`{"type":"content_block_delta","delta":{"type":"text_delta","text":"42."}}`,
	}
	var full strings.Builder
	for _, line := range lines {
		for _, chunk := range parseStreamLine(line) {
			full.WriteString(chunk)
		}
	}
	assert.Equal(t, "The answer is 42.", full.String())
}
