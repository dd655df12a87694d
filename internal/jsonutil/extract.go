// Package jsonutil extracts and validates the JSON object or array that a
// model embeds somewhere in an otherwise free-form text response. Every
// component in internal/agent that parses a §6.3 prompt-contract shape
// goes through here first, so the "tolerant of surrounding prose" rule of
// spec.md §6.3 is implemented exactly once.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ExtractFirstValue scans text for the first balanced JSON object ('{...}')
// or array ('[...]') and returns its raw substring. It is quote- and
// escape-aware so braces inside string literals don't throw off the depth
// count. Returns an error if no balanced value is found.
func ExtractFirstValue(text string) (string, error) {
	start := -1
	var open, close byte
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			start, open, close = i, '{', '}'
		case '[':
			start, open, close = i, '[', ']'
		default:
			continue
		}
		break
	}
	if start == -1 {
		return "", fmt.Errorf("jsonutil: no JSON value found in response")
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
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("jsonutil: unbalanced JSON value in response")
}

// ParseInto extracts the first balanced JSON value from text and
// unmarshals it into dst. It is the standard entry point used by every
// component that expects a specific §6.3 schema.
func ParseInto(text string, dst any) error {
	raw, err := ExtractFirstValue(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("jsonutil: %w", err)
	}
	return nil
}

// ProbeField extracts the first balanced JSON value from text and returns
// the gjson result for path, without requiring the caller to know the
// full schema up front. Used by the plan-update parser, whose payload
// shape varies with the "action" field (spec.md §6.3).
func ProbeField(text, path string) (gjson.Result, bool) {
	raw, err := ExtractFirstValue(text)
	if err != nil {
		return gjson.Result{}, false
	}
	result := gjson.Get(raw, path)
	return result, result.Exists()
}

// StringOrEmpty trims and returns s, or "" if s is only whitespace. Small
// helper shared by components that treat a blank model field as "absent".
func StringOrEmpty(s string) string {
	return strings.TrimSpace(s)
}
