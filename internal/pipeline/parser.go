package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dvloznov/statement-processor/internal/statement"
)

// ErrMalformedResponse means the model answered, but not with the JSON
// object we asked for.
var ErrMalformedResponse = errors.New("malformed model response")

// cleanModelJSON strips Markdown fences and stray prose around the JSON
// value in a model response.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return strings.TrimSpace(strings.Trim(s, "`"))
		}
		s = strings.TrimSpace(s[idx+1:])

		// Remove trailing ``` if present.
		if end := strings.LastIndex(s, "```"); end != -1 {
			s = strings.TrimSpace(s[:end])
		}
	}

	// Keep only the outermost object or array if there is junk around it.
	open := strings.IndexAny(s, "{[")
	if open == -1 {
		return s
	}
	closeCh := "}"
	if s[open] == '[' {
		closeCh = "]"
	}
	if end := strings.LastIndex(s, closeCh); end > open {
		s = s[open : end+1]
	}

	return strings.TrimSpace(s)
}

// decodeModelObject parses a model response that must be a JSON object.
func decodeModelObject(raw string) (map[string]any, error) {
	clean := cleanModelJSON(raw)

	var parsed any
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("%w: JSON parse error: %v", ErrMalformedResponse, err)
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is %T, want object", ErrMalformedResponse, parsed)
	}
	return obj, nil
}

// fieldsOf returns the "fields" mapping of an extraction response. A
// response without one yields nil, which later stages treat as an empty
// record. A "fields" value that is not an object is a structure error.
func fieldsOf(obj map[string]any) (map[string]any, error) {
	v, ok := obj[statement.KeyFields]
	if !ok || v == nil {
		return nil, nil
	}
	fields, ok := v.(map[string]any)
	if !ok {
		return nil, &statement.StructureError{
			Path: statement.KeyFields,
			Err:  fmt.Errorf("%w: is %T, want object", statement.ErrUnexpectedStructure, v),
		}
	}
	return fields, nil
}

// insightsOf returns obj["insights"] when it is a list of strings.
func insightsOf(obj map[string]any) ([]string, bool) {
	items, ok := obj["insights"].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// truncate shortens s to at most n bytes plus an ellipsis without splitting
// a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
