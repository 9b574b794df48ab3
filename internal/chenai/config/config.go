package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/longkey1/chenai/internal/chenai"
)

// Vector store backends.
const (
	VectorStoreMemory = "memory"
	VectorStoreQdrant = "qdrant"
)

// Config holds the configuration for the assistant and its backends
type Config struct {
	Model                string              `toml:"model" mapstructure:"model"` // "provider:model" or a bare Ollama model (e.g., "llama3.2")
	OllamaBaseURL        string              `toml:"ollama_base_url" mapstructure:"ollama_base_url"`
	OpenAIBaseURL        string              `toml:"openai_base_url" mapstructure:"openai_base_url"`
	OpenAIToken          string              `toml:"openai_token" mapstructure:"openai_token"`
	AnthropicBaseURL     string              `toml:"anthropic_base_url" mapstructure:"anthropic_base_url"`
	AnthropicToken       string              `toml:"anthropic_token" mapstructure:"anthropic_token"`
	GeminiToken          string              `toml:"gemini_token" mapstructure:"gemini_token"`
	EmbeddingModel       string              `toml:"embedding_model" mapstructure:"embedding_model"`
	EmbeddingCacheSize   int                 `toml:"embedding_cache_size" mapstructure:"embedding_cache_size"` // 0 = disabled
	VectorStore          string              `toml:"vector_store" mapstructure:"vector_store"`                 // "memory" or "qdrant"
	QdrantURL            string              `toml:"qdrant_url" mapstructure:"qdrant_url"`
	QdrantAPIKey         string              `toml:"qdrant_api_key" mapstructure:"qdrant_api_key"`
	WebSearchMaxResults  int                 `toml:"web_search_max_results" mapstructure:"web_search_max_results"`
	WebSearchTimeoutSecs int                 `toml:"web_search_timeout_secs" mapstructure:"web_search_timeout_secs"`
	RouterFallback       string              `toml:"router_fallback" mapstructure:"router_fallback"` // "internet" or "none"
	PromptFile           string              `toml:"prompt_file" mapstructure:"prompt_file"`         // Empty = built-in prompts
	SessionRetentionDays int                 `toml:"session_retention_days" mapstructure:"session_retention_days"`
	Collections          map[string][]string `toml:"collections" mapstructure:"collections"` // Collection name -> glob patterns ingested at startup
}

// GetProvider extracts provider name from the model string
func (c *Config) GetProvider() (string, error) {
	provider, _, err := chenai.ParseModelString(c.Model)
	return provider, err
}

// GetModelName extracts model name from the model string
func (c *Config) GetModelName() (string, error) {
	_, model, err := chenai.ParseModelString(c.Model)
	return model, err
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		Model:                chenai.DefaultModel,
		OllamaBaseURL:        "http://localhost:11434",
		OpenAIBaseURL:        "https://api.openai.com/v1",
		OpenAIToken:          "$OPENAI_API_KEY", // Default to env var
		AnthropicBaseURL:     "https://api.anthropic.com/v1",
		AnthropicToken:       "$ANTHROPIC_API_KEY",
		GeminiToken:          "$GEMINI_API_KEY",
		EmbeddingModel:       chenai.DefaultEmbeddingModel,
		EmbeddingCacheSize:   256,
		VectorStore:          VectorStoreMemory,
		QdrantURL:            "http://localhost:6333",
		QdrantAPIKey:         "$QDRANT_API_KEY",
		WebSearchMaxResults:  5,
		WebSearchTimeoutSecs: 15,
		RouterFallback:       "internet",
		PromptFile:           "",
		SessionRetentionDays: 30, // Default: delete sessions older than 30 days
		Collections:          map[string][]string{},
	}
}

// SetDefaults registers every default value with viper.
func SetDefaults(v *viper.Viper) {
	d := NewDefaultConfig()
	v.SetDefault("model", d.Model)
	v.SetDefault("ollama_base_url", d.OllamaBaseURL)
	v.SetDefault("openai_base_url", d.OpenAIBaseURL)
	v.SetDefault("openai_token", d.OpenAIToken)
	v.SetDefault("anthropic_base_url", d.AnthropicBaseURL)
	v.SetDefault("anthropic_token", d.AnthropicToken)
	v.SetDefault("gemini_token", d.GeminiToken)
	v.SetDefault("embedding_model", d.EmbeddingModel)
	v.SetDefault("embedding_cache_size", d.EmbeddingCacheSize)
	v.SetDefault("vector_store", d.VectorStore)
	v.SetDefault("qdrant_url", d.QdrantURL)
	v.SetDefault("qdrant_api_key", d.QdrantAPIKey)
	v.SetDefault("web_search_max_results", d.WebSearchMaxResults)
	v.SetDefault("web_search_timeout_secs", d.WebSearchTimeoutSecs)
	v.SetDefault("router_fallback", d.RouterFallback)
	v.SetDefault("prompt_file", d.PromptFile)
	v.SetDefault("session_retention_days", d.SessionRetentionDays)
}

// BindEnv binds the environment variables read on top of the CHENAI_ prefix.
// OLLAMA_MODEL is honored for the model so existing Ollama setups keep working.
func BindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"model":           {"CHENAI_MODEL", "OLLAMA_MODEL"},
		"ollama_base_url": {"CHENAI_OLLAMA_BASE_URL", "OLLAMA_HOST"},
		"openai_token":    {"CHENAI_OPENAI_TOKEN"},
		"anthropic_token": {"CHENAI_ANTHROPIC_TOKEN"},
		"gemini_token":    {"CHENAI_GEMINI_TOKEN"},
		"qdrant_url":      {"CHENAI_QDRANT_URL"},
		"qdrant_api_key":  {"CHENAI_QDRANT_API_KEY"},
	}
	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("binding env for %s: %w", key, err)
		}
	}
	return nil
}

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom loads configuration from v, expanding $VAR references and resolving paths.
func LoadFrom(v *viper.Viper) (*Config, error) {
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	for _, field := range []*string{
		&config.OllamaBaseURL,
		&config.OpenAIBaseURL,
		&config.OpenAIToken,
		&config.AnthropicBaseURL,
		&config.AnthropicToken,
		&config.GeminiToken,
		&config.QdrantURL,
		&config.QdrantAPIKey,
	} {
		expanded, err := expandEnvVar(*field)
		if err != nil {
			return nil, err
		}
		*field = expanded
	}

	if config.PromptFile != "" {
		absPath, err := ResolvePath(config.PromptFile)
		if err != nil {
			return nil, fmt.Errorf("error resolving prompt file path '%s': %v", config.PromptFile, err)
		}
		config.PromptFile = absPath
	}

	// viper lowercases map keys; restore the canonical collection names
	collections := make(map[string][]string, len(config.Collections))
	for name, patterns := range config.Collections {
		canonical, ok := CanonicalCollection(name)
		if !ok {
			return nil, fmt.Errorf("unknown collection %q in [collections]", name)
		}
		for _, pattern := range patterns {
			absPath, err := ResolvePath(pattern)
			if err != nil {
				return nil, fmt.Errorf("error resolving path '%s' of collection %s: %v", pattern, canonical, err)
			}
			collections[canonical] = append(collections[canonical], absPath)
		}
	}
	config.Collections = collections

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if _, _, err := chenai.ParseModelString(c.Model); err != nil {
		return fmt.Errorf("invalid model: %w", err)
	}
	switch c.VectorStore {
	case VectorStoreMemory, VectorStoreQdrant:
	default:
		return fmt.Errorf("unsupported vector_store %q (use %q or %q)", c.VectorStore, VectorStoreMemory, VectorStoreQdrant)
	}
	switch c.RouterFallback {
	case "internet", "none", "":
	default:
		return fmt.Errorf("unsupported router_fallback %q (use \"internet\" or \"none\")", c.RouterFallback)
	}
	if c.WebSearchMaxResults < 0 || c.EmbeddingCacheSize < 0 {
		return fmt.Errorf("web_search_max_results and embedding_cache_size cannot be negative")
	}
	for name := range c.Collections {
		if _, ok := CanonicalCollection(name); !ok {
			return fmt.Errorf("unknown collection %q in [collections]", name)
		}
	}
	return nil
}

// CanonicalCollection matches name case-insensitively against the collection names.
func CanonicalCollection(name string) (string, bool) {
	for _, c := range chenai.Collections {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}
