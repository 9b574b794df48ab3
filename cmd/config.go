package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/longkey1/chenai/internal/chenai/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.

If a field name is specified, only that field's value is displayed.

Examples:
  chenai config                  # Show all configuration
  chenai config model            # Show only model
  chenai config ollama_base_url  # Show only the Ollama server URL
  chenai config collections      # Show the collections ingested at startup`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		fields := configFields(cfg)

		if len(args) > 0 {
			field := strings.ToLower(args[0])
			for _, f := range fields {
				if f.key == field {
					fmt.Println(f.value)
					return nil
				}
			}
			keys := make([]string, len(fields))
			for i, f := range fields {
				keys[i] = f.key
			}
			return fmt.Errorf("unknown field: %s\navailable fields: %s", args[0], strings.Join(keys, ", "))
		}

		for _, f := range fields {
			fmt.Printf("%s: %s\n", f.key, f.value)
		}
		return nil
	},
}

type configField struct {
	key   string
	value string
}

// configFields lists every displayable setting, with tokens masked
func configFields(cfg *config.Config) []configField {
	return []configField{
		{"configfile", viper.ConfigFileUsed()},
		{"model", cfg.Model},
		{"ollama_base_url", cfg.OllamaBaseURL},
		{"openai_base_url", cfg.OpenAIBaseURL},
		{"openai_token", maskToken(cfg.OpenAIToken)},
		{"anthropic_base_url", cfg.AnthropicBaseURL},
		{"anthropic_token", maskToken(cfg.AnthropicToken)},
		{"gemini_token", maskToken(cfg.GeminiToken)},
		{"embedding_model", cfg.EmbeddingModel},
		{"embedding_cache_size", fmt.Sprint(cfg.EmbeddingCacheSize)},
		{"vector_store", cfg.VectorStore},
		{"qdrant_url", cfg.QdrantURL},
		{"qdrant_api_key", maskToken(cfg.QdrantAPIKey)},
		{"web_search_max_results", fmt.Sprint(cfg.WebSearchMaxResults)},
		{"web_search_timeout_secs", fmt.Sprint(cfg.WebSearchTimeoutSecs)},
		{"router_fallback", cfg.RouterFallback},
		{"prompt_file", cfg.PromptFile},
		{"session_retention_days", fmt.Sprint(cfg.SessionRetentionDays)},
		{"collections", formatCollections(cfg.Collections)},
	}
}

func formatCollections(collections map[string][]string) string {
	if len(collections) == 0 {
		return "-"
	}
	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + strings.Join(collections[name], ",")
	}
	return strings.Join(parts, "; ")
}

// maskToken returns a masked version of the token for security
func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
}
