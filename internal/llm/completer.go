package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/longkey1/chenai/internal/chenai"
)

// ErrEmptyResponse is returned when the model answers without any choice.
var ErrEmptyResponse = errors.New("model returned no choices")

// Completer adapts a langchaingo model to chenai.Completer.
type Completer struct {
	model llms.Model
	opts  []llms.CallOption
}

var _ chenai.Completer = (*Completer)(nil)

// NewCompleter wraps model. opts are passed to every call.
func NewCompleter(model llms.Model, opts ...llms.CallOption) *Completer {
	return &Completer{model: model, opts: opts}
}

// Complete sends messages in one blocking request and returns the first choice.
func (c *Completer) Complete(ctx context.Context, messages []chenai.Message) (string, error) {
	resp, err := c.model.GenerateContent(ctx, convertMessages(messages), c.opts...)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}

// convertMessages converts chenai messages to langchain MessageContent.
// Tool messages carry no call id here and are dropped.
func convertMessages(messages []chenai.Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		msgType, ok := messageType(msg.Role)
		if !ok {
			continue
		}
		out = append(out, llms.TextParts(msgType, msg.Content))
	}
	return out
}

func messageType(role chenai.Role) (llms.ChatMessageType, bool) {
	switch role {
	case chenai.RoleSystem:
		return llms.ChatMessageTypeSystem, true
	case chenai.RoleUser:
		return llms.ChatMessageTypeHuman, true
	case chenai.RoleAssistant:
		return llms.ChatMessageTypeAI, true
	default:
		return "", false
	}
}

// String describes the completer for logs.
func (c *Completer) String() string {
	return fmt.Sprintf("langchaingo(%T)", c.model)
}
