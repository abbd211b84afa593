package agent

import "encoding/json"

// streamEvent is the subset of Claude's stream-json events we care about:
// text deltas and complete assistant messages. Tool events are ignored;
// debate participants are text-only.
type streamEvent struct {
	Type    string `json:"type"`
	Delta   *struct {
		Type string `json:"type"`
		Text string `json:"text,omitempty"`
	} `json:"delta,omitempty"`
	Message *struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content"`
	} `json:"message,omitempty"`
}

// parseStreamLine extracts text chunks from one stream-json line.
// Non-JSON lines and non-text events yield nothing.
func parseStreamLine(line string) []string {
	var event streamEvent
	if err := json.Unmarshal([]byte(line), &event); err != nil {
		return nil
	}

	switch event.Type {
	case "content_block_delta":
		if event.Delta != nil && event.Delta.Type == "text_delta" && event.Delta.Text != "" {
			return []string{event.Delta.Text}
		}

	case "assistant":
		if event.Message == nil {
			return nil
		}
		var chunks []string
		for _, block := range event.Message.Content {
			if block.Type == "text" && block.Text != "" {
				chunks = append(chunks, block.Text)
			}
		}
		return chunks
	}

	return nil
}
