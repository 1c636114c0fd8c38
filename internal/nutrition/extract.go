package nutrition

import (
	"encoding/json"
	"fmt"
	"strings"
)

type ValueKind string

const (
	KindObject ValueKind = "object"
	KindArray  ValueKind = "array"
)

type ExtractionErrorKind string

const (
	ExtractionNoDelimitedValue ExtractionErrorKind = "no_delimited_value"
	ExtractionMalformedValue   ExtractionErrorKind = "malformed_value"
)

type ExtractionError struct {
	Kind    ExtractionErrorKind
	Snippet string
}

func (e *ExtractionError) Error() string {
	if e.Kind == ExtractionMalformedValue {
		return fmt.Sprintf("extraction failed (%s): %s", e.Kind, truncateSnippet(e.Snippet, 120))
	}
	return fmt.Sprintf("extraction failed (%s)", e.Kind)
}

// Extract recovers the first well-formed JSON value of the expected kind
// embedded anywhere in a free-text model completion. The scan tracks nesting
// depth and a within-string flag so delimiters inside string literals do not
// perturb the span; a greedy first-to-last-delimiter match is wrong whenever
// trailing prose contains an unrelated closing delimiter.
func Extract(raw string, kind ValueKind) (any, error) {
	openCh, closeCh := byte('{'), byte('}')
	if kind == KindArray {
		openCh, closeCh = '[', ']'
	}

	start := strings.IndexByte(raw, openCh)
	if start < 0 {
		return nil, &ExtractionError{Kind: ExtractionNoDelimitedValue}
	}

	depth := 0
	inString := false
	escaped := false
	end := -1
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case openCh:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				end = i
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return nil, &ExtractionError{Kind: ExtractionNoDelimitedValue}
	}

	candidate := raw[start : end+1]
	value, err := decodeExtracted(candidate, kind)
	if err == nil {
		return value, nil
	}

	repaired := repairCandidate(candidate)
	if repaired != candidate {
		if value, err := decodeExtracted(repaired, kind); err == nil {
			return value, nil
		}
	}
	return nil, &ExtractionError{Kind: ExtractionMalformedValue, Snippet: candidate}
}

func decodeExtracted(candidate string, kind ValueKind) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(candidate), &value); err != nil {
		return nil, err
	}
	switch kind {
	case KindArray:
		if _, ok := value.([]any); !ok {
			return nil, fmt.Errorf("decoded value is not an array")
		}
	default:
		if _, ok := value.(map[string]any); !ok {
			return nil, fmt.Errorf("decoded value is not an object")
		}
	}
	return value, nil
}

// repairCandidate applies one bounded cleanup pass: code-fence markers around
// the span and trailing commas before closing delimiters. Anything beyond
// that is reported as malformed rather than guessed at.
func repairCandidate(candidate string) string {
	repaired := strings.TrimSpace(candidate)
	repaired = strings.TrimPrefix(repaired, "```json")
	repaired = strings.TrimPrefix(repaired, "```")
	repaired = strings.TrimSuffix(repaired, "```")
	repaired = strings.TrimSpace(repaired)

	var out strings.Builder
	out.Grow(len(repaired))
	inString := false
	escaped := false
	for i := 0; i < len(repaired); i++ {
		ch := repaired[i]
		if inString {
			out.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
			out.WriteByte(ch)
			continue
		}
		if ch == ',' {
			next := nextNonSpace(repaired, i+1)
			if next < len(repaired) && (repaired[next] == '}' || repaired[next] == ']') {
				continue
			}
		}
		out.WriteByte(ch)
	}
	return out.String()
}

func nextNonSpace(s string, from int) int {
	for i := from; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return i
		}
	}
	return len(s)
}

func truncateSnippet(value string, limit int) string {
	trimmed := strings.TrimSpace(value)
	if limit <= 0 || len(trimmed) <= limit {
		return trimmed
	}
	return trimmed[:limit] + "...(truncated)"
}
