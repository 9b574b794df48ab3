package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// AmbiguousIDError is returned when multiple sessions match a prefix
type AmbiguousIDError struct {
	Prefix  string
	Matches []Session
}

func (e *AmbiguousIDError) Error() string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Ambiguous session ID %q. Multiple matches found:", e.Prefix))
	for _, match := range e.Matches {
		lines = append(lines, fmt.Sprintf("- %s (%s, %s, %d messages)",
			match.GetShortID(),
			match.Model,
			match.CreatedAt.Format("2006-01-02"),
			match.MessageCount()))
	}
	lines = append(lines, "")
	lines = append(lines, "Please use a longer prefix or run 'chenai sessions list'.")
	return strings.Join(lines, "\n")
}

// Store persists sessions as one JSON file per session in a directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// NewDefaultStore returns a store rooted at GetSessionDir.
func NewDefaultStore() (*Store, error) {
	dir, err := GetSessionDir()
	if err != nil {
		return nil, err
	}
	return NewStore(dir), nil
}

// Dir returns the directory the store writes to.
func (st *Store) Dir() string {
	return st.dir
}

// Path returns the file a session is stored in.
func (st *Store) Path(id string) string {
	return filepath.Join(st.dir, id+".json")
}

// GetSessionDir returns the directory where sessions are stored
// If a config file is used, sessions are stored in the same directory as the config file.
// Otherwise, defaults to $HOME/.config/chenai/sessions
func GetSessionDir() (string, error) {
	configFile := viper.ConfigFileUsed()

	if configFile != "" {
		configDir := filepath.Dir(configFile)

		if !filepath.IsAbs(configDir) {
			cwd, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("failed to get current working directory: %w", err)
			}
			configDir = filepath.Join(cwd, configDir)
		}

		return filepath.Join(configDir, "sessions"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "chenai", "sessions"), nil
}

// Save writes a session to disk
func (st *Store) Save(session *Session) error {
	if err := os.MkdirAll(st.dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	if err := os.WriteFile(st.Path(session.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load reads a session from disk by full ID
func (st *Store) Load(id string) (*Session, error) {
	data, err := os.ReadFile(st.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("session not found: %s\n\nRun 'chenai sessions list' to see available sessions.", id)
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w\n\nThe session file may be corrupted.", err)
	}

	return &session, nil
}

// Delete removes a session from disk by full ID
func (st *Store) Delete(id string) error {
	if err := os.Remove(st.Path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("session not found: %s", id)
		}
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// List returns all sessions sorted by UpdatedAt (newest first)
func (st *Store) List() ([]Session, error) {
	entries, err := os.ReadDir(st.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	var sessions []Session
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		session, err := st.Load(id)
		if err != nil {
			// Skip corrupted session files
			continue
		}
		sessions = append(sessions, *session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	return sessions, nil
}

// FindByPrefix finds a session by short ID prefix (minimum 4 characters)
// Returns error if multiple matches are found (AmbiguousIDError)
// Special case: "latest" returns the most recently updated session
func (st *Store) FindByPrefix(prefix string) (*Session, error) {
	if prefix == "latest" {
		return st.Latest()
	}

	if len(prefix) < 4 {
		return nil, fmt.Errorf("session ID prefix must be at least 4 characters (got %d)", len(prefix))
	}

	// Full UUID (36 characters with 4 dashes)
	if len(prefix) == 36 && strings.Count(prefix, "-") == 4 {
		return st.Load(prefix)
	}

	sessions, err := st.List()
	if err != nil {
		return nil, err
	}

	var matches []Session
	for _, session := range sessions {
		if strings.HasPrefix(session.ID, prefix) {
			matches = append(matches, session)
		}
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("session not found: %s\n\nRun 'chenai sessions list' to see available sessions.", prefix)
	}

	if len(matches) > 1 {
		return nil, &AmbiguousIDError{
			Prefix:  prefix,
			Matches: matches,
		}
	}

	return &matches[0], nil
}

// Latest returns the most recently updated session
func (st *Store) Latest() (*Session, error) {
	sessions, err := st.List()
	if err != nil {
		return nil, err
	}

	if len(sessions) == 0 {
		return nil, fmt.Errorf("no sessions found\n\nStart a saved conversation with: chenai chat --save")
	}

	return &sessions[0], nil
}
