package models

import (
	"math"
	"strconv"
	"strings"
)

// CoerceWeight converts a loosely typed weight into a non-negative number.
// Absent, non-numeric, negative and non-finite values all become 0.
func CoerceWeight(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case bool:
		if t {
			f = 1
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// TruncateWeight parses an attribute the way the legacy checkbox page did:
// leading integer digits only, anything else is 0.
func TruncateWeight(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || (end == 0 && (s[end] == '-' || s[end] == '+'))) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 0 {
		return 0
	}
	return float64(n)
}

// ScalarString renders a decoded JSON scalar as text. Objects, arrays and null render empty.
func ScalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// Truthy mirrors loose boolean flags found in hand-edited documents.
func Truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case nil:
		return false
	default:
		return true
	}
}

func first(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// firstString returns the first non-empty string form among keys.
func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := ScalarString(raw[k]); s != "" {
			return s
		}
	}
	return ""
}
