package agent

import "strings"

// FlattenMessages renders an ordered message list as a single prompt string
// for CLI backends that accept exactly one prompt per invocation. Assistant
// messages (the agent's own prior responses) are labeled so the backend can
// distinguish them from context it is being shown.
func FlattenMessages(messages []Message) string {
	if len(messages) == 1 && messages[0].Role == RoleUser {
		return messages[0].Content
	}

	var sb strings.Builder
	for i, m := range messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		if m.Role == RoleAssistant {
			sb.WriteString("[Your previous response]\n")
		}
		sb.WriteString(m.Content)
	}
	return sb.String()
}
