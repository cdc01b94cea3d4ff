package workflow

import (
	"encoding/json"
	"strings"

	"github.com/promptdeck/promptdeck/pkg/aierrors"
)

// parseStructured decodes a structured model reply into out, tolerating
// markdown code fences around the JSON. Parse failures surface as
// KindMalformedResponse and are never retried.
func parseStructured(text string, out any) error {
	cleaned := stripJSONFences(text)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return aierrors.Wrap(aierrors.KindMalformedResponse,
			"failed to parse structured model response", err)
	}
	return nil
}

func stripJSONFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
