package client

import (
	"encoding/json"
	"strings"
)

// bodyText returns the body as a string when it is one: either a JSON string
// literal or plain text that is not a JSON object or array. The result is
// trimmed.
func bodyText(body []byte) (string, bool) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", false
	}

	var s string
	if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
		return strings.TrimSpace(s), true
	}

	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return "", false
	}

	return trimmed, true
}

// extractMessage finds a failure reason: the "message" field of a JSON
// object, else the body itself when it is a string.
func extractMessage(body []byte) string {
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}

	if s, ok := bodyText(body); ok {
		return s
	}

	return ""
}
