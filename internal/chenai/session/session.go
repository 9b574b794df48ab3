package session

import (
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/longkey1/chenai/internal/chenai"
)

// Session represents a conversation session.
// Messages is append-only: use AddMessage, never reslice or edit it in place.
type Session struct {
	ID        string           `json:"id"`   // UUID v4 (e.g., "550e8400-e29b-41d4-a716-446655440000")
	Name      string           `json:"name"` // Optional session name (empty by default)
	Model     string           `json:"model"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Messages  []chenai.Message `json:"messages"`
}

// NewSession creates a session seeded with the system prompt and the assistant greeting.
func NewSession(model, systemPrompt, greeting string) *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.New().String(),
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]chenai.Message, 0, 8),
	}
	s.AddMessage(chenai.RoleSystem, systemPrompt)
	if greeting != "" {
		s.AddMessage(chenai.RoleAssistant, greeting)
	}
	return s
}

// AddMessage adds a new message to the session
func (s *Session) AddMessage(role chenai.Role, content string) {
	s.Messages = append(s.Messages, chenai.NewMessage(role, content))
	s.UpdatedAt = time.Now()
}

// History returns a copy of the transcript.
func (s *Session) History() []chenai.Message {
	out := make([]chenai.Message, len(s.Messages))
	copy(out, s.Messages)
	return out
}

// SystemPrompt returns the content of the session's system message, if any.
func (s *Session) SystemPrompt() (string, bool) {
	for _, msg := range s.Messages {
		if msg.Role == chenai.RoleSystem {
			return msg.Content, true
		}
	}
	return "", false
}

// LatestUserQuery returns the content of the most recent user message.
func (s *Session) LatestUserQuery() (string, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == chenai.RoleUser {
			return s.Messages[i].Content, true
		}
	}
	return "", false
}

// Render yields the messages shown to the user. System and tool messages are
// skipped, and so is any message whose role equals the previously yielded one.
// Each call starts a fresh pass over the transcript.
func (s *Session) Render() iter.Seq[chenai.Message] {
	return func(yield func(chenai.Message) bool) {
		var previous chenai.Role
		for _, msg := range s.Messages {
			if !msg.Role.Displayable() || msg.Role == previous {
				continue
			}
			if !yield(msg) {
				return
			}
			previous = msg.Role
		}
	}
}

// GetShortID returns the shortened session ID (first 8 characters)
func (s *Session) GetShortID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}

// GetDisplayName returns the display name for the session
// If name is set, returns the name. Otherwise, returns the short ID.
func (s *Session) GetDisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.GetShortID()
}

// MessageCount returns the number of messages in the session
func (s *Session) MessageCount() int {
	return len(s.Messages)
}
