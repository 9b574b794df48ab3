// Package engine processes conversation turns: it routes the latest user query,
// calls the selected retrieval backend, assembles the evidence and asks the
// language model for the final answer.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/longkey1/chenai/internal/chenai"
	"github.com/longkey1/chenai/internal/chenai/assembler"
	"github.com/longkey1/chenai/internal/chenai/prompt"
	"github.com/longkey1/chenai/internal/chenai/router"
	"github.com/longkey1/chenai/internal/chenai/session"
	"github.com/longkey1/chenai/internal/logger"
)

var (
	errNoDocumentSearch = errors.New("no document search backend configured")
	errNoWebSearch      = errors.New("no web search backend configured")
)

// SearchHook is called with a progress hint right before a retrieval call.
type SearchHook func(hint string)

// Engine wires the router, the retrieval backends, the assembler and the completer.
// It processes one turn at a time and holds no per-session state.
type Engine struct {
	completer chenai.Completer
	docs      chenai.DocumentSearcher
	web       chenai.WebSearcher
	router    *router.Router
	templates *prompt.Templates
	assembler *assembler.Assembler
	model     string
	onSearch  SearchHook
}

// Option configures an Engine.
type Option func(*Engine)

// WithRouter replaces the default router.
func WithRouter(r *router.Router) Option {
	return func(e *Engine) {
		e.router = r
	}
}

// WithTemplates replaces the built-in prompt templates.
func WithTemplates(t *prompt.Templates) Option {
	return func(e *Engine) {
		e.templates = t
	}
}

// WithModel sets the model identifier recorded in sessions and error remediation.
func WithModel(model string) Option {
	return func(e *Engine) {
		e.model = model
	}
}

// WithSearchHook registers a callback for retrieval progress hints.
func WithSearchHook(hook SearchHook) Option {
	return func(e *Engine) {
		e.onSearch = hook
	}
}

// New returns an engine. docs and web may be nil, in which case turns routed to
// them fail with a backend error.
func New(completer chenai.Completer, docs chenai.DocumentSearcher, web chenai.WebSearcher, opts ...Option) *Engine {
	e := &Engine{
		completer: completer,
		docs:      docs,
		web:       web,
		model:     chenai.DefaultModel,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.router == nil {
		e.router = router.New()
	}
	if e.templates == nil {
		e.templates = prompt.Default()
	}
	e.assembler = assembler.New(e.templates)
	return e
}

// Model returns the configured model identifier.
func (e *Engine) Model() string {
	return e.model
}

// InitializeSession creates a session seeded with the system prompt and the greeting.
func (e *Engine) InitializeSession() *session.Session {
	return session.NewSession(e.model, e.templates.System, e.templates.Greeting)
}

// ProcessTurn appends text as a user message, answers it and appends the answer.
// Errors never escape: they are rendered into the returned assistant message.
// Blank text is rejected without touching the session or any backend.
func (e *Engine) ProcessTurn(ctx context.Context, sess *session.Session, text string) string {
	if strings.TrimSpace(text) == "" {
		return chenai.FormatError(chenai.ErrNoQuery, e.model)
	}

	sess.AddMessage(chenai.RoleUser, text)

	answer, err := e.Answer(ctx, sess)
	if err != nil {
		answer = chenai.FormatError(err, e.model)
	}
	sess.AddMessage(chenai.RoleAssistant, answer)
	return answer
}

// Answer produces the assistant reply to the latest user message of sess without
// modifying it.
func (e *Engine) Answer(ctx context.Context, sess *session.Session) (string, error) {
	log := logger.FromContext(ctx).With("session", sess.GetShortID())

	query, ok := sess.LatestUserQuery()
	if !ok {
		return "", chenai.ErrNoQuery
	}

	decision, err := e.router.Route(query)
	if err != nil {
		return "", err
	}
	log.Info("routed query", "target", decision.Target, "rule", decision.Rule, "collection", decision.Params.Collection)

	result, err := e.retrieve(ctx, decision)
	if err != nil {
		log.Error("retrieval failed", "function", decision.Function(), "error", err)
		return "", err
	}

	msgs, err := e.assembler.Assemble(ctx, decision, result, query, sess.History())
	if err != nil {
		log.Warn("retrieval returned an error payload", "error", err)
		return "", err
	}

	start := time.Now()
	answer, err := e.completer.Complete(ctx, msgs)
	if err != nil {
		log.Error("synthesis failed", "model", e.model, "error", err)
		return "", &chenai.BackendUnavailableError{Function: chenai.FuncChat, Err: err}
	}
	log.Debug("synthesis complete", "messages", len(msgs), "duration", time.Since(start))

	return answer, nil
}

// retrieve calls the backend selected by decision. The none target retrieves nothing.
func (e *Engine) retrieve(ctx context.Context, decision router.Decision) (string, error) {
	if hint := SearchHint(decision); hint != "" && e.onSearch != nil {
		e.onSearch(hint)
	}

	switch {
	case decision.Target.IsCollection():
		if e.docs == nil {
			return "", &chenai.BackendUnavailableError{Function: chenai.FuncSearchDB, Err: errNoDocumentSearch}
		}
		p := decision.Params
		result, err := e.docs.Search(ctx, p.Collection, p.Query, p.N)
		if err != nil {
			return "", &chenai.BackendUnavailableError{Function: chenai.FuncSearchDB, Err: err}
		}
		return result, nil

	case decision.Target == router.TargetInternet:
		if e.web == nil {
			return "", &chenai.BackendUnavailableError{Function: chenai.FuncInternetSearch, Err: errNoWebSearch}
		}
		result, err := e.web.Search(ctx, decision.Params.Query)
		if err != nil {
			return "", &chenai.BackendUnavailableError{Function: chenai.FuncInternetSearch, Err: err}
		}
		return result, nil

	default:
		return "", nil
	}
}

// SearchHint returns the progress text shown while decision's retrieval runs,
// or "" when the decision retrieves nothing.
func SearchHint(decision router.Decision) string {
	switch {
	case decision.Target.IsCollection():
		name := decision.Params.Collection
		if name == "" {
			name = "database"
		}
		return fmt.Sprintf("Searching %s...", name)
	case decision.Target == router.TargetInternet:
		return "Searching internet..."
	default:
		return ""
	}
}
