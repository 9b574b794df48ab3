// Package tui implements the full-screen chat interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/longkey1/chenai/internal/chenai"
	"github.com/longkey1/chenai/internal/chenai/session"
	"github.com/longkey1/chenai/internal/logger"
)

const defaultHint = "Thinking..."

// Turner processes one conversation turn.
type Turner interface {
	ProcessTurn(ctx context.Context, sess *session.Session, text string) string
}

// Badge is the backend status shown in the header.
type Badge struct {
	OK   bool
	Text string
}

// Options configures the chat interface.
type Options struct {
	Store    *session.Store // nil disables saving
	Progress *Progress
	Badge    Badge
}

// Progress forwards retrieval hints from the engine to the running program.
type Progress struct {
	program atomic.Pointer[tea.Program]
}

// NewProgress returns a Progress not yet attached to a program.
func NewProgress() *Progress {
	return &Progress{}
}

// Hook matches engine.SearchHook.
func (p *Progress) Hook(hint string) {
	if prog := p.program.Load(); prog != nil {
		prog.Send(hintMsg(hint))
	}
}

type (
	hintMsg     string
	turnDoneMsg struct {
		text    string
		answer  string
		saveErr error
	}
)

// Model is the Bubble Tea model for the chat interface.
type Model struct {
	ctx      context.Context
	turner   Turner
	sess     *session.Session
	opts     Options
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	// transcript caches the rendered session. The session is only read
	// between turns, never while a turn command owns it.
	transcript string
	pending    string
	hint       string
	status     string
	loading    bool
	ready      bool
	width      int
}

// New creates the chat model for sess.
func New(ctx context.Context, turner Turner, sess *session.Session, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about agents, prompting, attacks on LLMs, or anything else"
	ti.Focus()
	ti.CharLimit = 4096
	ti.PromptStyle = promptStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := Model{
		ctx:      ctx,
		turner:   turner,
		sess:     sess,
		opts:     opts,
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		status:   "Enter to send, Ctrl+C to exit",
		width:    80,
	}
	m.transcript = m.renderSession()
	m.viewport.SetContent(m.transcript)
	return m
}

// Run starts the interface and blocks until the user quits.
func Run(ctx context.Context, turner Turner, sess *session.Session, opts Options) error {
	m := New(ctx, turner, sess, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if opts.Progress != nil {
		opts.Progress.program.Store(p)
		defer opts.Progress.program.Store(nil)
	}
	_, err := p.Run()
	return err
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key, window and turn events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			return m.submit()
		}
		if !m.loading {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		_, fh := viewportStyle.GetFrameSize()
		reserved := 2 + 1 + 1 + fh // header, input, status, frame
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, msg.Height-reserved)
		m.input.Width = max(10, msg.Width-4)
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(max(20, msg.Width-8)),
		)
		if err != nil {
			logger.Warn("markdown renderer unavailable", "error", err)
		} else {
			m.renderer = r
		}
		if !m.loading {
			m.transcript = m.renderSession()
		}
		m.refresh()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case hintMsg:
		if m.loading {
			m.hint = string(msg)
		}
		return m, nil

	case turnDoneMsg:
		m.loading = false
		m.pending = ""
		m.hint = ""
		if strings.TrimSpace(msg.text) == "" {
			m.status = msg.answer
			return m, nil
		}
		m.status = fmt.Sprintf("%d messages", m.sess.MessageCount())
		if msg.saveErr != nil {
			m.status = "Warning: failed to save session: " + msg.saveErr.Error()
		}
		m.transcript = m.renderSession()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	m.input.Reset()
	m.loading = true
	m.hint = defaultHint
	if strings.TrimSpace(text) != "" {
		m.pending = strings.TrimSpace(text)
		m.refresh()
	}
	return m, tea.Batch(m.spinner.Tick, m.runTurn(text))
}

// runTurn processes text on a background goroutine and saves the session afterwards.
func (m Model) runTurn(text string) tea.Cmd {
	ctx, turner, sess, store := m.ctx, m.turner, m.sess, m.opts.Store
	return func() tea.Msg {
		answer := turner.ProcessTurn(ctx, sess, text)
		done := turnDoneMsg{text: text, answer: answer}
		if store != nil && strings.TrimSpace(text) != "" {
			done.saveErr = store.Save(sess)
		}
		return done
	}
}

func (m *Model) refresh() {
	content := m.transcript
	if m.pending != "" {
		content += m.renderMessage(chenai.RoleUser, m.pending)
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m Model) renderSession() string {
	var sb strings.Builder
	for msg := range m.sess.Render() {
		sb.WriteString(m.renderMessage(msg.Role, msg.Content))
	}
	return sb.String()
}

func (m Model) renderMessage(role chenai.Role, content string) string {
	label := assistantLabelStyle.Render("ChenAi")
	if role == chenai.RoleUser {
		label = userLabelStyle.Render("You")
	}
	body := content
	if m.renderer != nil && role == chenai.RoleAssistant {
		if out, err := m.renderer.Render(content); err == nil {
			body = strings.Trim(out, "\n")
		}
	}
	return label + "\n" + body + "\n\n"
}

// View renders the header, transcript, input and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := titleStyle.Render("ChenAi") + "  " + m.badge()
	subtitle := subtitleStyle.Render(fmt.Sprintf("model %s  session %s", m.sess.Model, m.sess.GetShortID()))

	status := statusStyle.Render(m.status)
	if m.loading {
		status = m.spinner.View() + " " + hintStyle.Render(m.hint)
	}

	return header + "\n" +
		subtitle + "\n" +
		viewportStyle.Render(m.viewport.View()) + "\n" +
		m.input.View() + "\n" +
		status
}

func (m Model) badge() string {
	b := m.opts.Badge
	if b.Text == "" {
		return ""
	}
	if b.OK {
		return badgeOKStyle.Render("● " + b.Text)
	}
	return badgeErrStyle.Render("● " + b.Text)
}
