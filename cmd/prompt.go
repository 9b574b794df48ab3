/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/longkey1/chenai/internal/chenai/config"
	"github.com/longkey1/chenai/internal/chenai/prompt"
)

var exportPrompt bool

// promptCmd represents the prompt command
var promptCmd = &cobra.Command{
	Use:   "prompt [field]",
	Short: "Show the prompt templates in use",
	Long: `Show the prompt templates the assistant is primed with.

The templates come from prompt_file when it is set, and from the built-in
defaults otherwise. Fields missing from prompt_file keep their default text.

Available fields: system, greeting, evidence_system_suffix, capabilities_suffix,
collection_evidence, internet_evidence

Use --export to print the templates as TOML, ready to be edited and used as
prompt_file:
  chenai prompt --export > ~/.config/chenai/prompt.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		templates := prompt.Default()
		source := "built-in"
		if cfg.PromptFile != "" {
			templates, err = prompt.LoadPrompt(cfg.PromptFile)
			if err != nil {
				return fmt.Errorf("loading prompt file: %w", err)
			}
			source = cfg.PromptFile
		}

		if exportPrompt {
			return toml.NewEncoder(os.Stdout).Encode(templates)
		}

		fields := []struct {
			name  string
			value string
		}{
			{"system", templates.System},
			{"greeting", templates.Greeting},
			{"evidence_system_suffix", templates.EvidenceSystemSuffix},
			{"capabilities_suffix", templates.CapabilitiesSuffix},
			{"collection_evidence", templates.CollectionEvidence},
			{"internet_evidence", templates.InternetEvidence},
		}

		if len(args) > 0 {
			field := strings.ToLower(args[0])
			for _, f := range fields {
				if f.name == field {
					fmt.Println(f.value)
					return nil
				}
			}
			return fmt.Errorf("unknown field: %s", args[0])
		}

		fmt.Printf("Source: %s\n", source)
		if err := templates.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		for _, f := range fields {
			fmt.Printf("\n[%s]\n%s\n", f.name, f.value)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)
	promptCmd.Flags().BoolVar(&exportPrompt, "export", false, "Print the templates as TOML")
}
