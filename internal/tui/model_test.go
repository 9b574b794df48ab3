package tui

import (
	"context"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longkey1/chenai/internal/chenai"
	"github.com/longkey1/chenai/internal/chenai/session"
)

type echoTurner struct {
	calls int
}

func (e *echoTurner) ProcessTurn(_ context.Context, sess *session.Session, text string) string {
	e.calls++
	if text == "" {
		return chenai.NoQueryMessage
	}
	sess.AddMessage(chenai.RoleUser, text)
	answer := "echo: " + text
	sess.AddMessage(chenai.RoleAssistant, answer)
	return answer
}

func newTestModel(t *testing.T, store *session.Store) (Model, *echoTurner) {
	t.Helper()
	turner := &echoTurner{}
	sess := session.NewSession("llama3.2", "system prompt", "Hello there")
	m := New(context.Background(), turner, sess, Options{Store: store, Badge: Badge{OK: true, Text: "Ollama running"}})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model), turner
}

func TestSubmitRunsTurn(t *testing.T) {
	store := session.NewStore(t.TempDir())
	m, turner := newTestModel(t, store)
	m.input.SetValue("what is an agent")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.Equal(t, "what is an agent", m.pending)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), defaultHint)

	// Enter is ignored while a turn is in flight.
	_, cmd2 := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd2)

	msg := m.runTurn("what is an agent")()
	done, ok := msg.(turnDoneMsg)
	require.True(t, ok)
	assert.Equal(t, "echo: what is an agent", done.answer)
	assert.NoError(t, done.saveErr)
	assert.Equal(t, 1, turner.calls)

	updated, _ = m.Update(done)
	m = updated.(Model)
	assert.False(t, m.loading)
	assert.Empty(t, m.pending)
	assert.Contains(t, m.transcript, "what is an agent")
	assert.Contains(t, m.transcript, "echo")

	_, err := os.Stat(store.Path(m.sess.ID))
	assert.NoError(t, err)
}

func TestBlankSubmitShowsNotice(t *testing.T) {
	m, _ := newTestModel(t, nil)
	before := m.sess.MessageCount()

	updated, _ := m.Update(turnDoneMsg{text: "  ", answer: chenai.NoQueryMessage})
	m = updated.(Model)

	assert.Equal(t, chenai.NoQueryMessage, m.status)
	assert.Equal(t, before, m.sess.MessageCount())
}

func TestHintShownWhileLoading(t *testing.T) {
	m, _ := newTestModel(t, nil)

	updated, _ := m.Update(hintMsg("Searching Agent_Post..."))
	m = updated.(Model)
	assert.Empty(t, m.hint)

	m.loading = true
	updated, _ = m.Update(hintMsg("Searching Agent_Post..."))
	m = updated.(Model)
	assert.Contains(t, m.View(), "Searching Agent_Post...")
}

func TestTranscriptSkipsSystemPrompt(t *testing.T) {
	m, _ := newTestModel(t, nil)
	assert.Contains(t, m.transcript, "Hello there")
	assert.NotContains(t, m.transcript, "system prompt")
	assert.Contains(t, m.View(), "Ollama running")
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t, nil)
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc} {
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestViewBeforeResize(t *testing.T) {
	sess := session.NewSession("llama3.2", "s", "")
	m := New(context.Background(), &echoTurner{}, sess, Options{})
	assert.Equal(t, "Loading...", m.View())
}
