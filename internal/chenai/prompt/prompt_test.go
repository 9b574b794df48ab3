package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPromptOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.toml")
	content := `system = "You are a terse assistant."
greeting = "Hi."
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tmpl, err := LoadPrompt(path)
	require.NoError(t, err)

	assert.Equal(t, "You are a terse assistant.", tmpl.System)
	assert.Equal(t, "Hi.", tmpl.Greeting)
	assert.Equal(t, Default().CollectionEvidence, tmpl.CollectionEvidence)
	assert.NoError(t, tmpl.Validate())
}

func TestLoadPromptInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("system = "), 0o644))

	_, err := LoadPrompt(path)
	assert.Error(t, err)
}

func TestFill(t *testing.T) {
	got := Fill("Q: {{query}}\nE: {{evidence}}\nX: {{other}}", map[string]string{
		"query":    "what is cot?",
		"evidence": "mentions {{query}} literally",
	})
	assert.Equal(t, "Q: what is cot?\nE: mentions {{query}} literally\nX: {{other}}", got)
}

func TestEnhanceSystem(t *testing.T) {
	assert.Equal(t, "base\n\nextra", EnhanceSystem("base", "extra"))
	assert.Equal(t, "base", EnhanceSystem("base", ""))
}

func TestValidate(t *testing.T) {
	tmpl := Default()
	require.NoError(t, tmpl.Validate())

	tmpl.InternetEvidence = "no placeholder"
	assert.ErrorContains(t, tmpl.Validate(), "internet_evidence")

	tmpl = Default()
	tmpl.System = "  "
	assert.ErrorContains(t, tmpl.Validate(), "system prompt")
}
