/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/longkey1/chenai/internal/chenai/config"
	"github.com/longkey1/chenai/internal/chenai/engine"
	"github.com/longkey1/chenai/internal/chenai/session"
	"github.com/longkey1/chenai/internal/tui"
)

var (
	plainMode   bool
	sessionID   string
	saveSession bool
	sessionName string
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation with the assistant.

Each question is routed to one of the document collections (agents, prompt
engineering, adversarial attacks) or to a web search, and the answer is
synthesized from what was found.

The full-screen interface is used by default. Use --plain for a simple line
based prompt, which also works when the output is not a terminal.

Examples:
  chenai chat                      # New conversation, not saved
  chenai chat --save               # New conversation, saved after each turn
  chenai chat --session latest     # Continue the most recent saved conversation
  chenai chat --plain              # Line based prompt`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		store, err := session.NewDefaultStore()
		if err != nil {
			return fmt.Errorf("opening session store: %w", err)
		}

		var sess *session.Session
		if sessionID != "" {
			sess, err = store.FindByPrefix(sessionID)
			if err != nil {
				return fmt.Errorf("finding session: %w", err)
			}
			// Use session's model
			cfg.Model = sess.Model
			if verbose {
				fmt.Fprintf(os.Stderr, "Continuing session: %s\n", sess.GetShortID())
			}
		}

		// Resumed sessions are always saved
		var saveTo *session.Store
		if saveSession || sess != nil {
			saveTo = store
		}

		if plainMode {
			spin := newSpinner()
			eng, err := newEngine(ctx, cfg, engine.WithSearchHook(spin.SetText))
			if err != nil {
				return err
			}
			if sess == nil {
				sess = newNamedSession(eng, sessionName)
			}
			return runInteractiveMode(ctx, eng, sess, saveTo, spin)
		}

		progress := tui.NewProgress()
		eng, err := newEngine(ctx, cfg, engine.WithSearchHook(progress.Hook))
		if err != nil {
			return err
		}
		if sess == nil {
			sess = newNamedSession(eng, sessionName)
		}
		if err := tui.Run(ctx, eng, sess, tui.Options{
			Store:    saveTo,
			Progress: progress,
			Badge:    backendBadge(ctx, cfg),
		}); err != nil {
			return fmt.Errorf("running chat interface: %w", err)
		}
		if saveTo != nil {
			fmt.Fprintf(os.Stderr, "Session saved: %s\n", sess.GetShortID())
			fmt.Fprintf(os.Stderr, "Continue with:\n  chenai chat --session %s\n", sess.GetShortID())
		}
		return nil
	},
}

func newNamedSession(eng *engine.Engine, name string) *session.Session {
	sess := eng.InitializeSession()
	sess.Name = name
	return sess
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().BoolVar(&plainMode, "plain", false, "Use the line based prompt instead of the full-screen interface")
	chatCmd.Flags().StringVarP(&sessionID, "session", "s", "", "Continue a saved session (short or full UUID, or 'latest')")
	chatCmd.Flags().BoolVar(&saveSession, "save", false, "Save the conversation after each turn")
	chatCmd.Flags().StringVar(&sessionName, "session-name", "", "Name for the new session (optional)")
}
