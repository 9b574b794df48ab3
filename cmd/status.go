package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/longkey1/chenai/internal/chenai"
	"github.com/longkey1/chenai/internal/chenai/config"
	"github.com/longkey1/chenai/internal/tui"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the Ollama server and required models are available",
	Long: `Check that the Ollama server answers and that the chat and embedding
models are installed. Exits with a non-zero status when something is missing.`,
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

		provider, _ := cfg.GetProvider()
		modelName, _ := cfg.GetModelName()

		status := client.Status(cmd.Context(), modelName)
		baseURL, _ := cfg.GetBaseURL(chenai.DefaultProvider)
		if !status.Running {
			fmt.Printf("Ollama (%s): not reachable\n", baseURL)
			fmt.Fprintf(os.Stderr, "  %v\n", status.Err)
			fmt.Println("\nStart it with: ollama serve")
			return fmt.Errorf("ollama server is not running")
		}
		fmt.Printf("Ollama (%s): running, %d models installed\n", baseURL, len(status.Models))

		var missing []string
		check := func(label, name string) {
			if status.HasModel(name) {
				fmt.Printf("  %-16s %s: installed\n", label, name)
				return
			}
			fmt.Printf("  %-16s %s: missing (ollama pull %s)\n", label, name, name)
			missing = append(missing, name)
		}
		if provider == chenai.DefaultProvider {
			check("chat model", modelName)
		} else {
			fmt.Printf("  %-16s %s (served by %s)\n", "chat model", cfg.Model, provider)
		}
		check("embedding model", cfg.EmbeddingModel)

		if len(missing) > 0 {
			return fmt.Errorf("%d required models are missing", len(missing))
		}
		return nil
	},
}

// backendBadge summarizes the chat backend for the interface header.
func backendBadge(ctx context.Context, cfg *config.Config) tui.Badge {
	provider, _ := cfg.GetProvider()
	if provider != chenai.DefaultProvider {
		return tui.Badge{OK: true, Text: cfg.Model}
	}
	client, err := newOllamaClient(cfg)
	if err != nil {
		return tui.Badge{Text: "Ollama: " + err.Error()}
	}
	modelName, _ := cfg.GetModelName()
	status := client.Status(ctx, modelName)
	switch {
	case !status.Running:
		return tui.Badge{Text: "Ollama not running"}
	case !status.HasModel(modelName):
		return tui.Badge{Text: fmt.Sprintf("Ollama running, %s not installed", modelName)}
	default:
		return tui.Badge{OK: true, Text: "Ollama running"}
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
