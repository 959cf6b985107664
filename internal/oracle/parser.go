package oracle

import (
	"encoding/json"
	"fmt"
	"strings"
)

// stripCodeFences removes a markdown fence wrapper when the model ignores the
// no-markdown instruction.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	parts := strings.Split(s, "```")
	if len(parts) > 1 {
		s = parts[1]
	}
	s = strings.TrimPrefix(s, "json")
	return strings.TrimSpace(s)
}

// extractJSON decodes model output into out. When the cleaned text is not
// valid JSON it retries on the outermost brace-delimited span, which recovers
// responses with stray prose around the object.
func extractJSON(text string, out any) error {
	cleaned := stripCodeFences(text)
	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), out); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no parseable JSON object in model output")
}
