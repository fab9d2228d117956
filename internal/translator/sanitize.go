// Package translator adapts OpenAI-, Claude-, and native-Gemini-shaped
// requests/responses to and from the canonical gemini.Request/Response
// model.
package translator

import (
	"gcli2api-go/internal/gemini"
)

// SchemaSanitizer strips configured JSON-Schema keys from tool parameter
// trees before they're forwarded upstream — Gemini rejects a handful of
// draft-2020-12 keywords (like exclusiveMinimum as a number rather than a
// boolean) that OpenAI- and Claude-style clients routinely send.
type SchemaSanitizer struct {
	StripKeys map[string]bool
}

// NewSchemaSanitizer builds a sanitizer from a key list (as configured).
func NewSchemaSanitizer(keys []string) *SchemaSanitizer {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return &SchemaSanitizer{StripKeys: set}
}

// SanitizeTools returns a deep copy of tools with every FunctionDeclaration's
// Parameters tree stripped of configured keys. The input is never mutated.
func (s *SchemaSanitizer) SanitizeTools(tools []gemini.Tool) []gemini.Tool {
	if len(tools) == 0 {
		return tools
	}
	out := make([]gemini.Tool, len(tools))
	for i, t := range tools {
		decls := make([]gemini.FunctionDeclaration, len(t.FunctionDeclarations))
		for j, d := range t.FunctionDeclarations {
			decls[j] = d
			if d.Parameters != nil {
				decls[j].Parameters, _ = s.sanitizeValue(d.Parameters).(map[string]any)
			}
		}
		out[i] = gemini.Tool{FunctionDeclarations: decls}
	}
	return out
}

func (s *SchemaSanitizer) sanitizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if s.StripKeys[k] {
				continue
			}
			out[k] = s.sanitizeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = s.sanitizeValue(val)
		}
		return out
	default:
		return v
	}
}
