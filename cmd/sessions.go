package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/longkey1/chenai/internal/chenai"
	"github.com/longkey1/chenai/internal/chenai/config"
	"github.com/longkey1/chenai/internal/chenai/session"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved conversations",
	Long: `Manage saved conversations including listing, viewing, and deleting them.

Conversations are saved with 'chenai chat --save' and continued with
'chenai chat --session <id>'.`,
}

// openStore opens the default session store
func openStore() (*session.Store, error) {
	store, err := session.NewDefaultStore()
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	return store, nil
}

// findSession opens the default store and resolves id in it
func findSession(id string) (*session.Store, *session.Session, error) {
	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	sess, err := store.FindByPrefix(id)
	if err != nil {
		return nil, nil, fmt.Errorf("finding session: %w", err)
	}
	return store, sess, nil
}

// sessionsListCmd represents the sessions list command
var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	Long:  `List all saved conversations sorted by most recently updated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		sessions, err := store.List()
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			fmt.Println("\nSave a conversation with:")
			fmt.Println("  chenai chat --save")
			return nil
		}

		// Print table header
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tMODEL\tUPDATED\tMESSAGES\tNAME")
		fmt.Fprintln(w, "--\t-----\t-------\t--------\t----")

		for _, sess := range sessions {
			name := sess.Name
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				sess.GetShortID(),
				sess.Model,
				sess.UpdatedAt.Format("2006-01-02 15:04"),
				sess.MessageCount(),
				name,
			)
		}
		w.Flush()

		fmt.Println("\nUse 'chenai sessions show <id>' to view session details.")
		return nil
	},
}

// sessionsShowCmd represents the sessions show command
var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show session details and history",
	Long: `Show detailed information about a session including its conversation.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent session.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, sess, err := findSession(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Session: %s\n", sess.ID)
		if sess.Name != "" {
			fmt.Printf("Name: %s\n", sess.Name)
		}
		fmt.Printf("Model: %s\n", sess.Model)
		fmt.Printf("Created: %s\n", sess.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Updated: %s\n", sess.UpdatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Messages: %d\n", sess.MessageCount())
		fmt.Println()

		fmt.Println("Conversation:")
		fmt.Println("-------------")
		i := 0
		for msg := range sess.Render() {
			i++
			roleLabel := "You"
			if msg.Role == chenai.RoleAssistant {
				roleLabel = "ChenAi"
			}
			fmt.Printf("\n[%d] %s (%s):\n%s\n", i, roleLabel, msg.Timestamp.Format("2006-01-02 15:04:05"), msg.Content)
		}
		if i == 0 {
			fmt.Println("No messages in this session.")
		}

		fmt.Printf("\nContinue this session with:\n  chenai chat --session %s\n", sess.GetShortID())
		return nil
	},
}

// sessionsDeleteCmd represents the sessions delete command
var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session",
	Long: `Delete a saved conversation permanently.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent session.

Warning: This action cannot be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, sess, err := findSession(args[0])
		if err != nil {
			return err
		}

		if !confirm(fmt.Sprintf("Are you sure you want to delete session %s?", sess.GetShortID())) {
			fmt.Println("Deletion cancelled.")
			return nil
		}

		if err := store.Delete(sess.ID); err != nil {
			return fmt.Errorf("deleting session: %w", err)
		}

		fmt.Printf("Session %s deleted successfully.\n", sess.GetShortID())
		return nil
	},
}

// sessionsRenameCmd represents the sessions rename command
var sessionsRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a session",
	Long: `Rename a saved conversation.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent session.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, sess, err := findSession(args[0])
		if err != nil {
			return err
		}

		sess.Name = args[1]
		if err := store.Save(sess); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Printf("Session %s renamed to \"%s\".\n", sess.GetShortID(), sess.Name)
		return nil
	},
}

// sessionsClearCmd represents the sessions clear command
var sessionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete old sessions",
	Long: `Delete old conversations permanently.

By default, deletes sessions created more than session_retention_days (30) days ago.
Use --before to specify a different date, or --all to delete all sessions.

Warning: This action cannot be undone.

Examples:
  chenai sessions clear                      # Delete sessions older than the retention period
  chenai sessions clear --before 2024-01-01  # Delete sessions created before 2024-01-01
  chenai sessions clear --before 2024-12     # Delete sessions created before 2024-12-01
  chenai sessions clear --all                # Delete all sessions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		beforeDateStr, _ := cmd.Flags().GetString("before")
		deleteAll, _ := cmd.Flags().GetBool("all")

		store, err := openStore()
		if err != nil {
			return err
		}
		sessions, err := store.List()
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions to delete.")
			return nil
		}

		var beforeDate time.Time
		var question string
		switch {
		case deleteAll:
			question = fmt.Sprintf("Are you sure you want to delete all %d sessions?", len(sessions))
		case beforeDateStr != "":
			beforeDate, err = parseDate(beforeDateStr)
			if err != nil {
				return fmt.Errorf("parsing date: %w", err)
			}
		default:
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			beforeDate = time.Now().AddDate(0, 0, -cfg.SessionRetentionDays)
		}

		toDelete := sessions
		if !deleteAll {
			toDelete = sessionsCreatedBefore(sessions, beforeDate)
			if len(toDelete) == 0 {
				fmt.Printf("No sessions found created before %s.\n", beforeDate.Format("2006-01-02"))
				return nil
			}
			question = fmt.Sprintf("Are you sure you want to delete %d sessions created before %s?",
				len(toDelete), beforeDate.Format("2006-01-02"))
		}

		if !confirm(question) {
			fmt.Println("Deletion cancelled.")
			return nil
		}

		deleted := 0
		failed := 0
		for _, sess := range toDelete {
			if err := store.Delete(sess.ID); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to delete session %s: %v\n", sess.GetShortID(), err)
				failed++
			} else {
				deleted++
			}
		}

		fmt.Printf("Successfully deleted %d sessions", deleted)
		if failed > 0 {
			fmt.Printf(" (%d failed)", failed)
		}
		fmt.Println(".")
		return nil
	},
}

// sessionsCreatedBefore returns the sessions created strictly before t
func sessionsCreatedBefore(sessions []session.Session, t time.Time) []session.Session {
	var out []session.Session
	for _, sess := range sessions {
		if sess.CreatedAt.Before(t) {
			out = append(out, sess)
		}
	}
	return out
}

// confirm asks a yes/no question on stdout and reads the answer from stdin
func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	var response string
	fmt.Scanln(&response)
	return response == "y" || response == "Y"
}

// parseDate parses a date string in various formats and returns a time.Time
// Supported formats: YYYY-MM-DD, YYYY-MM, YYYY
func parseDate(dateStr string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD, YYYY-MM, or YYYY)", dateStr)
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsRenameCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)

	// sessionsClearCmd flags
	sessionsClearCmd.Flags().String("before", "", "Delete only sessions created before this date (format: YYYY-MM-DD, YYYY-MM, or YYYY)")
	sessionsClearCmd.Flags().Bool("all", false, "Delete all sessions (overrides retention days setting)")
}
