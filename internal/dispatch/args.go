package dispatch

import (
	"fmt"
	"strconv"
)

// Args is the free-form argument map a tool call arrives with.
type Args map[string]interface{}

// String returns args[key] as a string, or "" if absent/wrong type.
func (a Args) String(key string) string {
	if v, ok := a[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// StringDefault returns args[key] as a string, falling back to def when the
// argument is missing — the documented "missing optional → default" rule.
func (a Args) StringDefault(key, def string) string {
	if v := a.String(key); v != "" {
		return v
	}
	return def
}

// RequireString returns args[key] as a string, or an error if it is missing
// or empty — the Input error kind (spec §7).
func (a Args) RequireString(key string) (string, error) {
	v := a.String(key)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// Int parses args[key] as an integer. Integer-typed parameters may arrive
// as JSON numbers (float64, decoded by encoding/json) or as strings; both
// are accepted, and only a non-numeric value is rejected (spec §4.1a).
func (a Args) Int(key string, def int) (int, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case string:
		if n == "" {
			return def, nil
		}
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer, got %q", key, n)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("%s must be an integer", key)
	}
}

// Float parses args[key] as a float64, accepting both numbers and numeric strings.
func (a Args) Float(key string, def float64) (float64, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		if n == "" {
			return def, nil
		}
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a number, got %q", key, n)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("%s must be a number", key)
	}
}

// Bool parses args[key] as a boolean, accepting bool, "true"/"false" strings.
func (a Args) Bool(key string, def bool) bool {
	v, ok := a[key]
	if !ok || v == nil {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return def
		}
		return parsed
	default:
		return def
	}
}

// StringSlice returns args[key] as a []string, accepting a JSON array of
// strings or a single string (treated as a one-element slice).
func (a Args) StringSlice(key string) []string {
	v, ok := a[key]
	if !ok || v == nil {
		return nil
	}
	switch s := v.(type) {
	case []string:
		return s
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	case string:
		return []string{s}
	default:
		return nil
	}
}

// StringMap returns args[key] as a map[string]string, ignoring non-string
// values — used for variables maps (run_template) and env overlays.
func (a Args) StringMap(key string) map[string]string {
	v, ok := a[key]
	if !ok || v == nil {
		return nil
	}
	raw, ok := v.(map[string]interface{})
	if !ok {
		if m, ok := v.(map[string]string); ok {
			return m
		}
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, val := range raw {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}
