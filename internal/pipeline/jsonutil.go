package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
)

// cleanResponse strips markdown code fences that models wrap around JSON
// despite being asked for raw output.
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// extractJSONObject scans the input for the first top-level JSON object and
// returns it. It handles nested braces and string escaping to correctly
// identify boundaries, which survives models that prepend prose to their
// JSON output.
//
// It is safe to iterate bytes for ASCII delimiters ({, }, ", \) because
// UTF-8 guarantees ASCII bytes never appear inside a multi-byte sequence.
func extractJSONObject(s string) (string, bool) {
	var depth int
	var start = -1
	var inString, escape bool

	for i := 0; i < len(s); i++ {
		b := s[i]

		if escape {
			escape = false
			continue
		}
		if inString {
			if b == '\\' {
				escape = true
			} else if b == '"' {
				inString = false
			}
			continue
		}

		if b == '"' {
			inString = true
			continue
		}
		if b == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if b == '}' {
			if depth > 0 {
				depth--
				if depth == 0 && start != -1 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}

// decodeResponse validates a provider response into out. Parse failures are
// tagged ErrMalformedProviderResponse so callers can classify them without
// string matching.
func decodeResponse(raw string, out interface{}) error {
	cleaned := cleanResponse(raw)

	obj, ok := extractJSONObject(cleaned)
	if !ok {
		return fmt.Errorf("%w: no JSON object in response", ErrMalformedProviderResponse)
	}

	if err := json.Unmarshal([]byte(obj), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedProviderResponse, err)
	}
	return nil
}
