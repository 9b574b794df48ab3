package chenai

import (
	"errors"
	"fmt"
	"strings"
)

// NoQueryMessage is shown when a turn carries no user question.
const NoQueryMessage = "Please provide a question or query."

var (
	// ErrNoQuery is returned when no user message can be found for the turn.
	ErrNoQuery = errors.New("no user query found")
	// ErrMalformedRetrievalPayload marks a structured retrieval result that is not
	// valid JSON of the expected shape. It is recovered by treating the payload as text.
	ErrMalformedRetrievalPayload = errors.New("malformed retrieval payload")
)

// RetrievalError is returned when a retrieval backend answers with an explicit error payload.
type RetrievalError struct {
	Backend string
	Message string
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s returned an error: %s", e.Backend, e.Message)
}

// BackendUnavailableError wraps a transport or runtime fault raised by a retrieval
// or synthesis call.
type BackendUnavailableError struct {
	Function string
	Err      error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("calling %s: %v", e.Function, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error {
	return e.Err
}

// FormatError converts a turn error into the assistant message shown to the user.
// model is the configured chat model, named in the remediation steps.
func FormatError(err error, model string) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, ErrNoQuery) {
		return NoQueryMessage
	}

	var retrievalErr *RetrievalError
	if errors.As(err, &retrievalErr) {
		return fmt.Sprintf("⚠️ Error from %s: %s", retrievalErr.Backend, retrievalErr.Message)
	}

	var unavailableErr *BackendUnavailableError
	if errors.As(err, &unavailableErr) {
		return fmt.Sprintf("⚠️ Error calling %s: %v\n\n%s", unavailableErr.Function, unavailableErr.Err, remediation(model))
	}

	return fmt.Sprintf("⚠️ **Error**: %v\n\n%s", err, remediation(model))
}

func remediation(model string) string {
	if model == "" {
		model = DefaultModel
	}
	if provider, name, err := ParseModelString(model); err == nil && provider == DefaultProvider {
		model = name
	}

	var b strings.Builder
	b.WriteString("Please make sure:\n")
	b.WriteString("1. Ollama is running (check with: `ollama list`)\n")
	fmt.Fprintf(&b, "2. The model '%s' is installed (run: `ollama pull %s`)\n", model, model)
	fmt.Fprintf(&b, "3. For embeddings, install: `ollama pull %s`", DefaultEmbeddingModel)
	return b.String()
}
