package prompt

import (
	"fmt"
	"strings"
)

// Fill replaces every {{key}} placeholder in template with its value.
// Placeholders without a value are left untouched.
func Fill(template string, values map[string]string) string {
	if len(values) == 0 {
		return template
	}
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, fmt.Sprintf("{{%s}}", key), value)
	}
	// A single pass keeps evidence text containing "{{query}}" from being expanded again.
	return strings.NewReplacer(pairs...).Replace(template)
}

// EnhanceSystem appends suffix to the session's system prompt, separated by a blank line.
func EnhanceSystem(system, suffix string) string {
	if suffix == "" {
		return system
	}
	return system + "\n\n" + suffix
}

// Validate reports templates that cannot produce a usable prompt.
func (t *Templates) Validate() error {
	if strings.TrimSpace(t.System) == "" {
		return fmt.Errorf("prompt template: system prompt cannot be empty")
	}
	for name, tmpl := range map[string]string{
		"collection_evidence": t.CollectionEvidence,
		"internet_evidence":   t.InternetEvidence,
	} {
		if !strings.Contains(tmpl, "{{evidence}}") {
			return fmt.Errorf("prompt template: %s must contain the {{evidence}} placeholder", name)
		}
	}
	return nil
}
