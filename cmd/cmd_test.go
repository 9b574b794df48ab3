package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longkey1/chenai/internal/chenai/config"
	"github.com/longkey1/chenai/internal/chenai/session"
	"github.com/longkey1/chenai/internal/vectorstore/memory"
	"github.com/longkey1/chenai/internal/vectorstore/qdrant"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"2024-12", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), false},
		{"2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"15/03/2024", time.Time{}, true},
		{"", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "", maskToken(""))
	assert.Equal(t, "********", maskToken("short"))
	assert.Equal(t, "sk-a...wxyz", maskToken("sk-abcdefghijklmnopqrstuvwxyz"))
}

func TestSessionsCreatedBefore(t *testing.T) {
	cutoff := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sessions := []session.Session{
		{ID: "old", CreatedAt: cutoff.Add(-time.Hour)},
		{ID: "edge", CreatedAt: cutoff},
		{ID: "new", CreatedAt: cutoff.Add(time.Hour)},
	}

	got := sessionsCreatedBefore(sessions, cutoff)
	require.Len(t, got, 1)
	assert.Equal(t, "old", got[0].ID)
}

func TestFormatCollections(t *testing.T) {
	assert.Equal(t, "-", formatCollections(nil))
	assert.Equal(t,
		"Agent_Post=a/*.md; Prompt_Engineering_Post=p1.md,p2.md",
		formatCollections(map[string][]string{
			"Prompt_Engineering_Post": {"p1.md", "p2.md"},
			"Agent_Post":              {"a/*.md"},
		}))
}

func TestHistoryFile(t *testing.T) {
	assert.Empty(t, historyFile(nil))

	dir := t.TempDir()
	store := session.NewStore(filepath.Join(dir, "sessions"))
	assert.Equal(t, filepath.Join(dir, "history"), historyFile(store))
}

func TestNewVectorStore(t *testing.T) {
	cfg := config.NewDefaultConfig()
	assert.IsType(t, &memory.Storage{}, newVectorStore(cfg))

	cfg.VectorStore = config.VectorStoreQdrant
	assert.IsType(t, &qdrant.Storage{}, newVectorStore(cfg))
}

func TestLineSpinnerText(t *testing.T) {
	s := newSpinner()
	s.Start()
	s.SetText("Searching internet...")
	assert.Equal(t, "Searching internet...", s.currentText())
	s.Stop()

	// Start resets the text left over from the previous turn
	s.Start()
	assert.Equal(t, "Waiting for response...", s.currentText())
	s.Stop()
}
