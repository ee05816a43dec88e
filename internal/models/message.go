package models

// Role identifies who authored a transcript entry
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents one transcript entry
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage creates a user transcript entry
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates an assistant transcript entry
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
