package extract

import (
	"encoding/json"
	"fmt"

	"github.com/kundanj/leadpilot/internal/entity"
)

// ParseError means the model's output could not be parsed as a JSON object,
// even after scanning for an embedded fragment. RawOutput is kept for
// diagnostics.
type ParseError struct {
	RawOutput string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model did not return parsable JSON: %q", e.RawOutput)
}

// ParseRecord parses model output into a LeadRecord. It first tries the full
// text as JSON; on failure it scans for the first balanced top-level object
// and tries that. Anything else is a *ParseError.
func ParseRecord(text string) (entity.LeadRecord, error) {
	if rec, err := decodeRecord(text); err == nil {
		return rec, nil
	}

	if frag, ok := firstJSONObject(text); ok {
		if rec, err := decodeRecord(frag); err == nil {
			return rec, nil
		}
	}

	return nil, &ParseError{RawOutput: text}
}

func decodeRecord(text string) (entity.LeadRecord, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, err
	}

	rec := make(entity.LeadRecord, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			rec[k] = val
		case nil:
			rec[k] = ""
		default:
			rec[k] = fmt.Sprintf("%v", val)
		}
	}
	return rec, nil
}

// firstJSONObject returns the first complete top-level {...} fragment in s.
// It walks the text with a depth counter instead of a greedy regexp, so
// nested objects are never truncated. Braces inside string literals
// (including escaped quotes) are ignored.
func firstJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
