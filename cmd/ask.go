package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/longkey1/chenai/internal/chenai/config"
	"github.com/longkey1/chenai/internal/chenai/engine"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Ask a single question",
	Long: `Ask a single question in a fresh conversation and print the answer.

If no message is provided as an argument, it reads from stdin.

Examples:
  chenai ask "What is chain-of-thought prompting?"
  echo "latest AI news today" | chenai ask`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		var message string
		if len(args) > 0 {
			message = strings.Join(args, " ")
		} else {
			input, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
			message = strings.TrimSpace(string(input))
		}

		eng, err := newEngine(ctx, cfg, engine.WithSearchHook(func(hint string) {
			if verbose {
				fmt.Fprintln(os.Stderr, hint)
			}
		}))
		if err != nil {
			return err
		}

		sess := eng.InitializeSession()
		fmt.Println(eng.ProcessTurn(ctx, sess, message))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
