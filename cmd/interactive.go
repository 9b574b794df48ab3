package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/longkey1/chenai/internal/chenai"
	"github.com/longkey1/chenai/internal/chenai/engine"
	"github.com/longkey1/chenai/internal/chenai/session"
)

// runInteractiveMode runs the line based conversation loop.
// store may be nil, in which case nothing is saved.
func runInteractiveMode(ctx context.Context, eng *engine.Engine, sess *session.Session, store *session.Store, spin *lineSpinner) error {
	// Print session header
	fmt.Fprintf(os.Stderr, "\n=== ChenAi [%s] ===\n", sess.GetShortID())
	fmt.Fprintf(os.Stderr, "Model: %s\n", sess.Model)
	fmt.Fprintf(os.Stderr, "Type '/help' for commands, '/exit' or 'Ctrl+D' to quit\n")
	fmt.Fprintf(os.Stderr, "======================\n\n")

	// Replay the visible transcript, which holds the greeting for new sessions
	for msg := range sess.Render() {
		printMessage(msg)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "You> ",
		HistoryFile:     historyFile(store),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stderr:          os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("initializing prompt: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				fmt.Fprintln(os.Stderr, "Goodbye!")
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(os.Stderr, "\nGoodbye!")
			return nil
		}
		if err != nil {
			return fmt.Errorf("input error: %w", err)
		}

		input := strings.TrimSpace(line)

		// Handle special commands
		if strings.HasPrefix(input, "/") {
			if handleSpecialCommand(input, sess) {
				continue
			}
			return nil
		}

		spin.Start()
		answer := eng.ProcessTurn(ctx, sess, input)
		spin.Stop()

		if input != "" && store != nil {
			if err := store.Save(sess); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save session: %v\n", err)
			}
		}

		fmt.Printf("\nChenAi> %s\n\n", answer)
	}
}

func printMessage(msg chenai.Message) {
	label := "ChenAi"
	if msg.Role == chenai.RoleUser {
		label = "You"
	}
	fmt.Printf("%s> %s\n\n", label, msg.Content)
}

// historyFile keeps the prompt history next to the saved sessions.
func historyFile(store *session.Store) string {
	if store == nil {
		return ""
	}
	return filepath.Join(filepath.Dir(store.Dir()), "history")
}

// handleSpecialCommand processes special commands in interactive mode
// Returns true to continue the loop, false to exit
func handleSpecialCommand(command string, sess *session.Session) bool {
	command = strings.ToLower(strings.TrimSpace(command))

	switch command {
	case "/help", "/h":
		fmt.Fprintln(os.Stderr, "\nAvailable commands:")
		fmt.Fprintln(os.Stderr, "  /help, /h     - Show this help message")
		fmt.Fprintln(os.Stderr, "  /info, /i     - Show session information")
		fmt.Fprintln(os.Stderr, "  /clear, /c    - Clear screen (Unix/Linux only)")
		fmt.Fprintln(os.Stderr, "  /exit, /quit  - Exit interactive mode")
		fmt.Fprintln(os.Stderr, "  Ctrl+D        - Exit interactive mode")
		fmt.Fprintln(os.Stderr, "")
		return true

	case "/info", "/i":
		fmt.Fprintln(os.Stderr, "\nSession Information:")
		fmt.Fprintf(os.Stderr, "  ID: %s\n", sess.GetShortID())
		fmt.Fprintf(os.Stderr, "  Full ID: %s\n", sess.ID)
		if sess.Name != "" {
			fmt.Fprintf(os.Stderr, "  Name: %s\n", sess.Name)
		}
		fmt.Fprintf(os.Stderr, "  Model: %s\n", sess.Model)
		fmt.Fprintf(os.Stderr, "  Messages: %d\n", sess.MessageCount())
		fmt.Fprintf(os.Stderr, "  Created: %s\n", sess.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintln(os.Stderr, "")
		return true

	case "/clear", "/c":
		// Clear screen (Unix/Linux)
		fmt.Print("\033[H\033[2J")
		return true

	case "/exit", "/quit", "/q":
		fmt.Fprintln(os.Stderr, "Goodbye!")
		return false

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s (type '/help' for available commands)\n", command)
		return true
	}
}

// lineSpinner draws a progress line on stderr while a turn is in flight.
// The text can be changed from another goroutine, which is how the engine
// reports what it is searching.
type lineSpinner struct {
	mu   sync.Mutex
	text string
	done chan struct{}
	wg   sync.WaitGroup
}

func newSpinner() *lineSpinner {
	return &lineSpinner{}
}

// SetText matches engine.SearchHook.
func (s *lineSpinner) SetText(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
}

func (s *lineSpinner) currentText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Start begins the animation with the default text.
func (s *lineSpinner) Start() {
	s.SetText("Waiting for response...")
	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.run(s.done)
}

// Stop ends the animation and clears the line.
func (s *lineSpinner) Stop() {
	close(s.done)
	s.wg.Wait()
}

func (s *lineSpinner) run(done <-chan struct{}) {
	defer s.wg.Done()
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()
	for i := 0; ; i = (i + 1) % len(frames) {
		fmt.Fprintf(os.Stderr, "\r\033[K%s %s", frames[i], s.currentText())
		select {
		case <-done:
			// Clear the spinner line
			fmt.Fprint(os.Stderr, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}
