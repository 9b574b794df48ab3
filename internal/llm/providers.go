// Package llm connects the assistant to chat completion and embedding backends.
package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/longkey1/chenai/internal/chenai/config"
)

// NewModel creates the chat model selected by cfg.Model.
func NewModel(ctx context.Context, cfg *config.Config) (llms.Model, error) {
	provider, model, err := modelParts(cfg)
	if err != nil {
		return nil, err
	}
	baseURL, err := cfg.GetBaseURL(provider)
	if err != nil {
		return nil, err
	}
	token, err := cfg.GetToken(provider)
	if err != nil {
		return nil, err
	}

	switch provider {
	case "ollama":
		return createOllamaLLM(model, baseURL)
	case "openai":
		return createOpenAILLM(model, baseURL, token)
	case "anthropic":
		return createAnthropicLLM(model, baseURL, token)
	case "gemini":
		return createGoogleLLM(ctx, model, token)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// modelParts splits cfg.Model into provider and model name.
func modelParts(cfg *config.Config) (string, string, error) {
	provider, err := cfg.GetProvider()
	if err != nil {
		return "", "", err
	}
	model, err := cfg.GetModelName()
	if err != nil {
		return "", "", err
	}
	return provider, model, nil
}

// createOllamaLLM creates an Ollama LLM instance
func createOllamaLLM(model, baseURL string) (llms.Model, error) {
	opts := []ollama.Option{
		ollama.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, ollama.WithServerURL(baseURL))
	}
	return ollama.New(opts...)
}

// createOpenAILLM creates an OpenAI LLM instance
func createOpenAILLM(model, baseURL, token string) (llms.Model, error) {
	opts := []openai.Option{
		openai.WithModel(model),
		openai.WithToken(token),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	return openai.New(opts...)
}

// createAnthropicLLM creates an Anthropic LLM instance
func createAnthropicLLM(model, baseURL, token string) (llms.Model, error) {
	opts := []anthropic.Option{
		anthropic.WithModel(model),
		anthropic.WithToken(token),
	}
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return anthropic.New(opts...)
}

// createGoogleLLM creates a Google AI LLM instance
func createGoogleLLM(ctx context.Context, model, token string) (llms.Model, error) {
	return googleai.New(ctx,
		googleai.WithDefaultModel(model),
		googleai.WithAPIKey(token),
	)
}
