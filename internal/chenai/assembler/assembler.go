// Package assembler merges retrieved evidence into the message list sent to the
// language model for one turn.
package assembler

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/longkey1/chenai/internal/chenai"
	"github.com/longkey1/chenai/internal/chenai/prompt"
	"github.com/longkey1/chenai/internal/chenai/router"
	"github.com/longkey1/chenai/internal/logger"
)

// Assembler builds augmented message lists from a routing decision and its retrieval result.
type Assembler struct {
	templates *prompt.Templates
}

// New returns an assembler using tmpl. A nil tmpl uses the built-in templates.
func New(tmpl *prompt.Templates) *Assembler {
	if tmpl == nil {
		tmpl = prompt.Default()
	}
	return &Assembler{templates: tmpl}
}

// Assemble returns the messages for the synthesis call of one turn.
//
// history is the session transcript; it is read, never modified. For collection
// targets result is the JSON payload of the document search, for the internet target
// it is the free text of the web search, and for the none target it is ignored.
// A collection payload carrying an Error field yields a *chenai.RetrievalError.
func (a *Assembler) Assemble(ctx context.Context, decision router.Decision, result, query string, history []chenai.Message) ([]chenai.Message, error) {
	log := logger.FromContext(ctx)

	switch {
	case decision.Target.IsCollection():
		evidence, err := collectionEvidence(ctx, result)
		if err != nil {
			return nil, err
		}
		log.Debug("assembled collection evidence", "collection", decision.Params.Collection, "bytes", len(evidence))
		return a.withEvidence(history, a.templates.CollectionEvidence, query, evidence), nil

	case decision.Target == router.TargetInternet:
		log.Debug("assembled internet evidence", "bytes", len(result))
		return a.withEvidence(history, a.templates.InternetEvidence, query, result), nil

	default:
		return a.withCapabilities(history), nil
	}
}

// withEvidence builds enhanced system + history + synthetic evidence-bearing user message.
func (a *Assembler) withEvidence(history []chenai.Message, tmpl, query, evidence string) []chenai.Message {
	msgs := a.base(history, a.templates.EvidenceSystemSuffix)
	content := prompt.Fill(tmpl, map[string]string{
		"query":    query,
		"evidence": evidence,
	})
	return append(msgs, chenai.Message{Role: chenai.RoleUser, Content: content})
}

// withCapabilities builds enhanced system + history, deferring entirely to the model.
func (a *Assembler) withCapabilities(history []chenai.Message) []chenai.Message {
	return a.base(history, a.templates.CapabilitiesSuffix)
}

// base places the enhanced system message, when the history has one, ahead of
// the non-system history. The enhanced message is a new value.
func (a *Assembler) base(history []chenai.Message, suffix string) []chenai.Message {
	msgs := make([]chenai.Message, 0, len(history)+2)
	var system string
	var hasSystem bool
	for _, msg := range history {
		if msg.Role == chenai.RoleSystem {
			system, hasSystem = msg.Content, true
			continue
		}
		msgs = append(msgs, chenai.Message{Role: msg.Role, Content: msg.Content})
	}
	if !hasSystem {
		return msgs
	}
	enhanced := chenai.Message{Role: chenai.RoleSystem, Content: prompt.EnhanceSystem(system, suffix)}
	return append([]chenai.Message{enhanced}, msgs...)
}

// collectionEvidence extracts the evidence text of a document search payload.
func collectionEvidence(ctx context.Context, payload string) (string, error) {
	if !gjson.Valid(payload) {
		logger.FromContext(ctx).Warn("using raw retrieval payload", "error", chenai.ErrMalformedRetrievalPayload)
		return payload, nil
	}

	parsed := gjson.Parse(payload)
	if !parsed.IsObject() {
		logger.FromContext(ctx).Warn("using raw retrieval payload", "error", chenai.ErrMalformedRetrievalPayload, "type", parsed.Type.String())
		return payload, nil
	}

	if e := parsed.Get("Error"); e.Exists() {
		return "", &chenai.RetrievalError{Backend: chenai.FuncSearchDB, Message: e.String()}
	}

	data := parsed.Get("Data")
	if !data.Exists() {
		return payload, nil
	}
	if !data.IsArray() {
		return data.String(), nil
	}

	items := data.Array()
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, item.String())
	}
	return strings.Join(parts, "\n\n"), nil
}
