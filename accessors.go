package strata

import (
	"fmt"

	"github.com/dshills/strata/nested"
)

// Typed accessors resolve a path and convert the result. The strict
// forms (String, Int, ...) fail with ErrNotFound or a *TypeError; the
// GetX forms fold every failure into the supplied default.

// String returns the string value at path.
func (m *Manager) String(path string) (string, error) {
	v, err := m.Resolve(path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// Int returns the integer value at path. Whole-number floats convert,
// since JSON parsing produces float64 for all numbers.
func (m *Manager) Int(path string) (int64, error) {
	v, err := m.Resolve(path)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	case float64:
		if n == float64(int64(n)) {
			return int64(n), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

// Float returns the floating-point value at path. Integer values convert.
func (m *Manager) Float(path string) (float64, error) {
	v, err := m.Resolve(path)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return 0, &TypeError{Path: path, Expected: "float", Actual: typeName(v)}
}

// Bool returns the boolean value at path.
func (m *Manager) Bool(path string) (bool, error) {
	v, err := m.Resolve(path)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// StringSlice returns the list value at path with every element a string.
func (m *Manager) StringSlice(path string) ([]string, error) {
	v, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, &TypeError{Path: path, Expected: "list", Actual: typeName(v)}
	}
	out := make([]string, len(list))
	for i, e := range list {
		s, ok := e.(string)
		if !ok {
			return nil, &TypeError{Path: path, Expected: "string list", Actual: fmt.Sprintf("list with %s element", typeName(e))}
		}
		out[i] = s
	}
	return out, nil
}

// Map returns the map value at path as plain nested maps.
func (m *Manager) Map(path string) (map[string]any, error) {
	v, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}
	t, ok := v.(*nested.Tree)
	if !ok {
		return nil, &TypeError{Path: path, Expected: "map", Actual: typeName(v)}
	}
	return t.AsMap(), nil
}

// GetString returns the string at path, or def on any failure.
func (m *Manager) GetString(path, def string) string {
	v, err := m.String(path)
	if err != nil {
		return def
	}
	return v
}

// GetInt returns the integer at path, or def on any failure.
func (m *Manager) GetInt(path string, def int64) int64 {
	v, err := m.Int(path)
	if err != nil {
		return def
	}
	return v
}

// GetFloat returns the float at path, or def on any failure.
func (m *Manager) GetFloat(path string, def float64) float64 {
	v, err := m.Float(path)
	if err != nil {
		return def
	}
	return v
}

// GetBool returns the boolean at path, or def on any failure.
func (m *Manager) GetBool(path string, def bool) bool {
	v, err := m.Bool(path)
	if err != nil {
		return def
	}
	return v
}

// GetStringSlice returns the string list at path, or def on any failure.
func (m *Manager) GetStringSlice(path string, def []string) []string {
	v, err := m.StringSlice(path)
	if err != nil {
		return def
	}
	return v
}

// GetMap returns the map at path, or def on any failure.
func (m *Manager) GetMap(path string, def map[string]any) map[string]any {
	v, err := m.Map(path)
	if err != nil {
		return def
	}
	return v
}

// typeName describes a settings value's type for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case *nested.Tree:
		return "map"
	case []any:
		return "list"
	default:
		return fmt.Sprintf("%T", v)
	}
}
