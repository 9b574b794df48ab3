package chenai

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseModelString(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{
			name:         "bare ollama model",
			input:        "llama3.2",
			wantProvider: "ollama",
			wantModel:    "llama3.2",
			wantErr:      false,
		},
		{
			name:         "bare ollama model with tag",
			input:        "llama3.2:3b",
			wantProvider: "ollama",
			wantModel:    "llama3.2:3b",
			wantErr:      false,
		},
		{
			name:         "explicit ollama provider",
			input:        "ollama:mistral",
			wantProvider: "ollama",
			wantModel:    "mistral",
			wantErr:      false,
		},
		{
			name:         "valid openai model",
			input:        "openai:gpt-4.1",
			wantProvider: "openai",
			wantModel:    "gpt-4.1",
			wantErr:      false,
		},
		{
			name:         "model with colon",
			input:        "openai:o1:2024-12-17",
			wantProvider: "openai",
			wantModel:    "o1:2024-12-17",
			wantErr:      false,
		},
		{
			name:         "with whitespace",
			input:        " anthropic : claude-3-5-sonnet-20241022 ",
			wantProvider: "anthropic",
			wantModel:    "claude-3-5-sonnet-20241022",
			wantErr:      false,
		},
		{
			name:    "empty model after provider",
			input:   "openai:",
			wantErr: true,
		},
		{
			name:    "leading colon",
			input:   ":gpt-4",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, model, err := ParseModelString(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseModelString() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if provider != tt.wantProvider {
				t.Errorf("ParseModelString() provider = %v, want %v", provider, tt.wantProvider)
			}
			if model != tt.wantModel {
				t.Errorf("ParseModelString() model = %v, want %v", model, tt.wantModel)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		want       string
		wantPrefix string
		wantParts  []string
	}{
		{
			name: "no query",
			err:  fmt.Errorf("turn: %w", ErrNoQuery),
			want: "Please provide a question or query.",
		},
		{
			name: "retrieval error payload",
			err:  &RetrievalError{Backend: FuncSearchDB, Message: "connection refused"},
			want: "⚠️ Error from search_db: connection refused",
		},
		{
			name:       "backend unavailable",
			err:        &BackendUnavailableError{Function: FuncInternetSearch, Err: errors.New("dial tcp: timeout")},
			wantPrefix: "⚠️ Error calling Internet_search: dial tcp: timeout",
			wantParts: []string{
				"Ollama is running",
				"ollama pull llama3.2",
				"ollama pull nomic-embed-text",
			},
		},
		{
			name:       "unclassified error",
			err:        errors.New("boom"),
			wantPrefix: "⚠️ **Error**: boom",
			wantParts:  []string{"Please make sure:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatError(tt.err, "llama3.2")
			if tt.want != "" && got != tt.want {
				t.Errorf("FormatError() = %q, want %q", got, tt.want)
			}
			if tt.wantPrefix != "" && !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("FormatError() = %q, want prefix %q", got, tt.wantPrefix)
			}
			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("FormatError() = %q, missing %q", got, part)
				}
			}
		})
	}
}

func TestFormatErrorStripsOllamaPrefix(t *testing.T) {
	got := FormatError(&BackendUnavailableError{Function: FuncChat, Err: errors.New("refused")}, "ollama:mistral")
	if !strings.Contains(got, "The model 'mistral' is installed (run: `ollama pull mistral`)") {
		t.Errorf("FormatError() = %q, want remediation for mistral", got)
	}
}
