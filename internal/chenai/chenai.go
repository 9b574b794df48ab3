// Package chenai provides the core abstractions shared by the routing and synthesis core.
// This package defines the backend contracts (chat completion, document search, web search)
// that the engine depends on, the Message type, and the error taxonomy of a conversation turn.
package chenai

import (
	"context"
	"fmt"
	"strings"
)

const (
	// DefaultProvider is used when a model identifier carries no provider prefix.
	DefaultProvider = "ollama"
	// DefaultModel is the model used when OLLAMA_MODEL and the config are both unset.
	DefaultModel = "llama3.2"
	// DefaultEmbeddingModel is the embedding model the document collections are indexed with.
	DefaultEmbeddingModel = "nomic-embed-text"
)

// Names of the topic-partitioned document collections.
const (
	CollectionAgent  = "Agent_Post"
	CollectionPrompt = "Prompt_Engineering_Post"
	CollectionAttack = "Adv_Attack_LLM_Post"
)

// Collections lists every document collection in routing order.
var Collections = []string{CollectionAgent, CollectionPrompt, CollectionAttack}

// Names of the backend functions, as they appear in user-visible diagnostics.
const (
	FuncSearchDB       = "search_db"
	FuncInternetSearch = "Internet_search"
	FuncChat           = "chat"
)

// ModelInfo represents information about a model installed on a backend.
type ModelInfo struct {
	ID          string // Model identifier (e.g., "llama3.2:latest")
	Description string // Human-readable description of the model
	IsDefault   bool   // Whether this is the configured model
}

// Completer is the chat completion backend.
//
// Example usage:
//
//	model, _ := llm.NewModel(ctx, cfg)
//	completer := llm.NewCompleter(model)
//	answer, err := completer.Complete(ctx, messages)
type Completer interface {
	// Complete sends the ordered messages in a single blocking request and
	// returns the content of the model's reply.
	Complete(ctx context.Context, messages []Message) (string, error)
}

// DocumentSearcher is the semantic search backend over named collections.
type DocumentSearcher interface {
	// Search returns JSON text shaped either {"Data": [...]} or {"Error": "..."}.
	Search(ctx context.Context, collection, query string, n int) (string, error)
}

// WebSearcher is the live internet search backend.
type WebSearcher interface {
	// Search returns free-form aggregated result text.
	Search(ctx context.Context, query string) (string, error)
}

// ParseModelString parses a model string in "provider:model" format.
// A string without a known provider prefix is an Ollama model name, which may
// itself contain a tag separated by a colon (e.g. "llama3.2:3b").
// Returns (provider, model, error).
//
// Example:
//
//	provider, model, err := ParseModelString("openai:gpt-4.1")
//	// provider = "openai", model = "gpt-4.1"
//	provider, model, err = ParseModelString("llama3.2")
//	// provider = "ollama", model = "llama3.2"
func ParseModelString(modelStr string) (string, string, error) {
	modelStr = strings.TrimSpace(modelStr)
	if modelStr == "" {
		return "", "", fmt.Errorf("model cannot be empty")
	}

	parts := strings.SplitN(modelStr, ":", 2)
	if len(parts) == 2 && isKnownProvider(strings.TrimSpace(parts[0])) {
		provider := strings.TrimSpace(parts[0])
		model := strings.TrimSpace(parts[1])
		if model == "" {
			return "", "", fmt.Errorf("invalid model format: %s (model name cannot be empty)", modelStr)
		}
		return provider, model, nil
	}

	if strings.HasPrefix(modelStr, ":") || strings.HasSuffix(modelStr, ":") {
		return "", "", fmt.Errorf("invalid model format: %s (expected model or provider:model, e.g., openai:gpt-4.1)", modelStr)
	}
	return DefaultProvider, modelStr, nil
}

// FormatModelString formats provider and model into "provider:model" format.
func FormatModelString(provider, model string) string {
	return fmt.Sprintf("%s:%s", provider, model)
}

// Providers lists the chat completion providers understood by ParseModelString.
var Providers = []string{"ollama", "openai", "anthropic", "gemini"}

func isKnownProvider(name string) bool {
	for _, p := range Providers {
		if p == name {
			return true
		}
	}
	return false
}
