package generation

import (
	"errors"
	"strings"
)

var (
	errNoJSONObject     = errors.New("no JSON object in text")
	errUnbalancedObject = errors.New("unterminated JSON object in text")
)

// ExtractJSON returns the first balanced {...} span of text, starting at the
// first '{'. Braces inside string literals (escapes included) don't count,
// so prose or markdown fences around the object are ignored.
func ExtractJSON(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", errNoJSONObject
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
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
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", errUnbalancedObject
}
