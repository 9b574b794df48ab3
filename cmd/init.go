package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/longkey1/chenai/internal/chenai/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration file",
	Long: `Initialize the configuration file with default settings.
The config file will be created at $HOME/.config/chenai/config.toml by default.
You can specify a different location using the --config option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %v", err)
		}

		configFile := filepath.Join(home, ".config", "chenai", "config.toml")
		if cfgFile != "" {
			configFile = cfgFile
		}

		configDir := filepath.Dir(configFile)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %v", err)
		}

		// Check if config file already exists
		if _, err := os.Stat(configFile); err == nil {
			return fmt.Errorf("config file already exists at: %s", configFile)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("failed to create config file: %v", err)
		}
		defer f.Close()

		if err := toml.NewEncoder(f).Encode(config.NewDefaultConfig()); err != nil {
			return fmt.Errorf("failed to encode config: %v", err)
		}

		sessionsDir := filepath.Join(configDir, "sessions")
		if err := os.MkdirAll(sessionsDir, 0755); err != nil {
			return fmt.Errorf("failed to create sessions directory: %v", err)
		}

		fmt.Printf("Configuration file created at: %s\n", configFile)
		fmt.Printf("Sessions directory created at: %s\n", sessionsDir)
		fmt.Println("\nList document files under [collections] to search them, for example:")
		fmt.Println("  [collections]")
		fmt.Println("  Agent_Post = [\"~/notes/agents/*.md\"]")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
