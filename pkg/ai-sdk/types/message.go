package types

import "strings"

// Message represents a single prompt turn sent to a provider
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// MessageRole defines the role of a message sender
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// UserMessage wraps a raw prompt as a single user turn.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// SystemText joins the content of all system messages, for providers that
// take the system prompt outside the message list.
func SystemText(messages []Message) string {
	var parts []string
	for _, msg := range messages {
		if msg.Role == RoleSystem && msg.Content != "" {
			parts = append(parts, msg.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}
