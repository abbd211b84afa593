package debate

import (
	"time"

	"github.com/google/uuid"
)

// Reserved author names for non-reviewer participants. Reviewer IDs from
// configuration must not collide with these.
const (
	AuthorHuman      = "human"
	AuthorAnalyzer   = "analyzer"
	AuthorSummarizer = "summarizer"
)

// Turn is one utterance in the debate transcript.
type Turn struct {
	// ID uniquely identifies the turn.
	ID string `json:"id"`

	// Author is the reviewer ID or one of the reserved author names.
	Author string `json:"author"`

	// Round is the debate round the turn belongs to. Pre-round turns
	// (analysis, human questions and answers) use round 0.
	Round int `json:"round"`

	// Content is the full text of the utterance.
	Content string `json:"content"`

	// Timestamp records when the turn was appended.
	Timestamp time.Time `json:"timestamp"`
}

// History is the append-only transcript of a debate. Turns are never
// modified or removed once appended; readers address them by index.
// History is not safe for concurrent use; the orchestrator serializes
// all appends.
type History struct {
	turns []Turn
}

// NewHistory creates an empty transcript.
func NewHistory() *History {
	return &History{}
}

// Append adds a turn and returns its index.
func (h *History) Append(author string, round int, content string) int {
	h.turns = append(h.turns, Turn{
		ID:        uuid.NewString(),
		Author:    author,
		Round:     round,
		Content:   content,
		Timestamp: time.Now(),
	})
	return len(h.turns) - 1
}

// Len returns the number of turns.
func (h *History) Len() int {
	return len(h.turns)
}

// Turns returns a copy of the full transcript.
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// At returns the turn at index i.
func (h *History) At(i int) Turn {
	return h.turns[i]
}

// Since returns a copy of the turns after index cursor, i.e. turns
// [cursor+1, len). A cursor of -1 yields the full transcript.
func (h *History) Since(cursor int) []Turn {
	start := cursor + 1
	if start < 0 {
		start = 0
	}
	if start >= len(h.turns) {
		return nil
	}
	out := make([]Turn, len(h.turns)-start)
	copy(out, h.turns[start:])
	return out
}

// Round returns a copy of the turns belonging to round r.
func (h *History) Round(r int) []Turn {
	var out []Turn
	for _, t := range h.turns {
		if t.Round == r {
			out = append(out, t)
		}
	}
	return out
}
