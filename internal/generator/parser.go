package generator

import (
	"encoding/json"
	"regexp"
	"strings"
)

// snippetLen bounds how much offending text an error carries. The snippet is
// for diagnostics only, never control flow.
const snippetLen = 500

var (
	arrayPattern  = regexp.MustCompile(`(?s)\[.*\]`)
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
)

// MalformedResponseError reports AI text that could not be decoded into the
// expected JSON shape.
type MalformedResponseError struct {
	Reason  string
	Snippet string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return "malformed AI response: " + e.Reason + ": " + e.Err.Error()
	}
	return "malformed AI response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func snippet(s string) string {
	if len(s) > snippetLen {
		return s[:snippetLen]
	}
	return s
}

// ExtractRecords pulls the question records out of free-form AI text.
// Completions are not guaranteed to contain only JSON: the model may add
// prose around the payload or wrap the array in an envelope object. The
// extraction policy is best effort: first array-like span, else first
// object-like span, else the whole trimmed text. Records are returned
// untyped; per-record structural checks belong to the validator.
func ExtractRecords(raw string) ([]any, error) {
	content := strings.TrimSpace(raw)
	if m := arrayPattern.FindString(content); m != "" {
		content = m
	} else if m := objectPattern.FindString(content); m != "" {
		content = m
	}

	var decoded any
	if err := json.Unmarshal([]byte(content), &decoded); err != nil {
		return nil, &MalformedResponseError{Reason: "invalid JSON", Snippet: snippet(content), Err: err}
	}

	switch v := decoded.(type) {
	case []any:
		return v, nil
	case map[string]any:
		if inner, ok := v["questions"].([]any); ok {
			return inner, nil
		}
	}
	return nil, &MalformedResponseError{Reason: "unexpected shape", Snippet: snippet(content)}
}
