// Package textjson recovers JSON objects embedded in free-form model replies
// (markdown fences, leading prose, trailing commentary).
package textjson

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoObject is returned by Decode when the text holds no balanced object.
var ErrNoObject = errors.New("no JSON object found")

// ExtractObject returns the first balanced {...} substring of text. Braces
// inside JSON string literals are ignored. ok is false when no opening brace
// is ever closed.
func ExtractObject(text string) (obj string, ok bool) {
	for start := strings.IndexByte(text, '{'); start >= 0; {
		if end, found := matchBrace(text, start); found {
			return text[start : end+1], true
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// matchBrace scans from the '{' at start and returns the index of the brace
// closing it.
func matchBrace(text string, start int) (int, bool) {
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
				return i, true
			}
		}
	}
	return 0, false
}

// Decode extracts the first object from text and unmarshals it into v.
func Decode(text string, v any) error {
	obj, ok := ExtractObject(text)
	if !ok {
		return ErrNoObject
	}
	return json.Unmarshal([]byte(obj), v)
}
