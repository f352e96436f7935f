package consolidate

import (
	"encoding/json"
	"strings"

	"propfolio/internal/domain"
)

// ResolveFieldValue extracts a single scalar value from one field's raw
// extraction payload. The pipeline does not guarantee a canonical shape per
// field across document types, so resolution is an explicit ordered list of
// accessor attempts rather than reflection tricks — the fallback order stays
// auditable and testable. Returns nil only when every candidate is absent or
// empty.
func ResolveFieldValue(payload domain.FieldPayload) any {
	if payload == nil {
		return nil
	}

	nested, _ := payload["value"].(map[string]any)

	candidates := []any{
		payload["normalized_value"],
		nestedKey(nested, "normalized"),
		nestedKey(nested, "formatted"),
		nestedKey(nested, "value"),
		payload["value"],
		payload["raw_value"],
		payload["transformed_value"],
	}

	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		switch v := candidate.(type) {
		case string:
			trimmed := strings.TrimSpace(v)
			if trimmed == "" {
				continue
			}
			return trimmed
		case map[string]any:
			if amount, ok := v["amount"]; ok && amount != nil {
				return amount
			}
			if inner, ok := v["value"]; ok && inner != nil {
				return inner
			}
			serialized, err := json.Marshal(v)
			if err != nil {
				continue
			}
			return string(serialized)
		default:
			return candidate
		}
	}
	return nil
}

func nestedKey(nested map[string]any, key string) any {
	if nested == nil {
		return nil
	}
	return nested[key]
}
