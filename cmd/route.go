package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/longkey1/chenai/internal/chenai/config"
	"github.com/longkey1/chenai/internal/chenai/router"
)

var routeOutput string

// routeCmd represents the route command
var routeCmd = &cobra.Command{
	Use:   "route <query>",
	Short: "Show where a query would be routed",
	Long: `Show the routing decision for a query without calling any backend.

Examples:
  chenai route "what is few-shot prompting"
  chenai route "latest AI news today" --output json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		fallback, err := router.ParseTarget(cfg.RouterFallback)
		if err != nil {
			return err
		}

		decision, err := router.New(router.WithFallback(fallback)).Route(strings.Join(args, " "))
		if err != nil {
			return err
		}

		switch strings.ToLower(routeOutput) {
		case "yaml", "yml":
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(decision)
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(decision)
		default:
			return fmt.Errorf("unsupported output format: %s (use yaml or json)", routeOutput)
		}
	},
}

func init() {
	rootCmd.AddCommand(routeCmd)
	routeCmd.Flags().StringVarP(&routeOutput, "output", "o", "yaml", "Output format (yaml or json)")
}
