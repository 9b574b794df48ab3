/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/longkey1/chenai/internal/chenai"
	"github.com/longkey1/chenai/internal/chenai/config"
)

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models installed on the Ollama server",
	Long: `List all models installed on the configured Ollama server.
Fetches the model list directly from the server's API.

Example:
  chenai models
  OLLAMA_HOST=http://gpu-box:11434 chenai models`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		client, err := newOllamaClient(cfg)
		if err != nil {
			return err
		}

		current := ""
		if provider, _ := cfg.GetProvider(); provider == chenai.DefaultProvider {
			current, _ = cfg.GetModelName()
		}

		models, err := client.ListModels(cmd.Context(), current)
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}
		if len(models) == 0 {
			fmt.Println("No models installed.")
			fmt.Printf("\nInstall one with: ollama pull %s\n", chenai.DefaultModel)
			return nil
		}

		// Calculate column widths
		maxModelWidth := 15
		for _, model := range models {
			if len(model.ID) > maxModelWidth {
				maxModelWidth = len(model.ID)
			}
		}

		// Display header
		fmt.Printf("%-*s  %-10s  %s\n", maxModelWidth, "MODEL", "DEFAULT", "DESCRIPTION")
		fmt.Printf("%s  %s  %s\n",
			strings.Repeat("-", maxModelWidth),
			strings.Repeat("-", 10),
			strings.Repeat("-", 30))

		// Display models
		for _, model := range models {
			defaultMark := ""
			if model.IsDefault {
				defaultMark = "Yes"
			}
			fmt.Printf("%-*s  %-10s  %s\n", maxModelWidth, model.ID, defaultMark, model.Description)
		}

		// Usage hint
		fmt.Printf("\nUse a model with: chenai chat --model <model>\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
