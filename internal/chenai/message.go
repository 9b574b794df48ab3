package chenai

import "time"

// Role identifies the author of a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message represents a single message in a conversation
type Message struct {
	Role      Role      `json:"role"`      // "system", "user" or "assistant"
	Content   string    `json:"content"`   // Message content
	Timestamp time.Time `json:"timestamp"` // Zero for messages built for a single model call
}

// NewMessage returns a message stamped with the current time.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now()}
}

// Displayable reports whether messages of this role are shown to the user.
func (r Role) Displayable() bool {
	return r == RoleUser || r == RoleAssistant
}
