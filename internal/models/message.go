// Package models contains the conversation data types shared by the chat loop and the backends.
package models

// Role identifies who authored a message
type Role string

// Message roles understood by every backend
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the wire name of the role
func (r Role) String() string {
	return string(r)
}

// Message is a single role-tagged entry of a conversation.
// Messages are values; once appended to a transcript they are never modified.
type Message struct {
	Role    Role
	Content string
}

// NewSystemMessage creates a system message
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// LastUserContent returns the content of the most recent user message, if any
func LastUserContent(messages []Message) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content, true
		}
	}
	return "", false
}

// SplitSystem separates a leading system message from the rest of the conversation.
// Backends that take the system prompt out of band (Gemini) use this.
func SplitSystem(messages []Message) (system string, rest []Message) {
	if len(messages) > 0 && messages[0].Role == RoleSystem {
		return messages[0].Content, messages[1:]
	}
	return "", messages
}
