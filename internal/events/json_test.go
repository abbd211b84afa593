package events

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONEmitter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewJSONEmitter(&buf)

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	original := Event{
		Time:     now,
		Type:     RoundCompleted,
		Reviewer: "alice",
		Payload:  map[string]interface{}{"converged": true},
	}
	original = original.WithRound(2)

	require.NoError(t, emitter.Emit(original))

	reader := NewJSONLineReader(&buf)
	decoded, err := reader.Read()
	require.NoError(t, err)

	assert.Equal(t, RoundCompleted, decoded.Type)
	assert.Equal(t, "alice", decoded.Reviewer)
	assert.True(t, decoded.Time.Equal(now))
	require.NotNil(t, decoded.Round)
	assert.Equal(t, 2, *decoded.Round)

	_, err = reader.Read()
	assert.Equal(t, io.EOF, err)
}

func TestJSONEmitter_WrapsScalarPayload(t *testing.T) {
	je := ToJSONEvent(NewEvent(MessageChunk, "bob").WithPayload("hello"))
	assert.Equal(t, map[string]interface{}{"value": "hello"}, je.Payload)
}

func TestJSONLineReader_SkipsBlankLines(t *testing.T) {
	input := "\n\n{\"type\":\"debate.started\",\"timestamp\":\"2026-03-14T09:00:00Z\"}\n"
	reader := NewJSONLineReader(bytes.NewBufferString(input))

	event, err := reader.Read()
	require.NoError(t, err)
	assert.Equal(t, DebateStarted, event.Type)
}

func TestParseJSONEvent_Malformed(t *testing.T) {
	_, err := ParseJSONEvent([]byte("{not json"))
	assert.Error(t, err)
}
