package event

import (
	"encoding/json"
	"regexp"
	"strings"
)

var streamingFieldPattern = regexp.MustCompile(`"streaming"\s*:\s*"([^"]*)"`)

// ExtractStreamingID pulls the streaming pointer out of a raw session
// detail payload. Structured decode is tried first (bare object, then a
// "data" envelope holding an object or a one-element array), then a
// field-level pattern match. An absent or null pointer comes back empty.
func ExtractStreamingID(raw []byte) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return ""
	}

	var direct Session
	if err := json.Unmarshal([]byte(trimmed), &direct); err == nil && direct.Streaming != "" {
		return direct.Streaming
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(trimmed), &envelope); err == nil && len(envelope.Data) > 0 {
		var inner Session
		if err := json.Unmarshal(envelope.Data, &inner); err == nil && inner.Streaming != "" {
			return inner.Streaming
		}
		var list []Session
		if err := json.Unmarshal(envelope.Data, &list); err == nil && len(list) > 0 {
			return list[0].Streaming
		}
	}

	if m := streamingFieldPattern.FindStringSubmatch(trimmed); len(m) == 2 {
		return m[1]
	}
	return ""
}
