package loader

import (
	"encoding/json"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/strata/nested"
)

// EnvLoader collects prefixed environment variables into a settings tree.
// Variable names are split on single underscores to form path segments, so
// MYAPP_CHART_DPI becomes chart.dpi; a double underscore keeps a literal
// underscore in the segment. Explicit mappings override the derivation.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "MYAPP_")
	mapping map[string]string // Env var -> settings path
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "MYAPP_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix}
}

// NewEnvLoaderWithMapping creates a loader with explicit variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, settingsPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = settingsPath
}

// RemoveMapping removes an environment variable mapping.
func (l *EnvLoader) RemoveMapping(envVar string) {
	delete(l.mapping, envVar)
}

// Load reads environment variables and returns a settings tree.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (*nested.Tree, error) {
	t := nested.New()

	// Explicitly mapped variables first, in stable order.
	names := make([]string, 0, len(l.mapping))
	for env := range l.mapping {
		names = append(names, env)
	}
	sort.Strings(names)
	for _, env := range names {
		if val, ok := os.LookupEnv(env); ok {
			if err := t.Set(l.mapping[env], parseEnvValue(val)); err != nil {
				return nil, err
			}
		}
	}

	if l.prefix == "" {
		return t, nil
	}

	// Then any remaining prefixed variables.
	environ := os.Environ()
	sort.Strings(environ)
	for _, kv := range environ {
		if !strings.HasPrefix(kv, l.prefix) {
			continue
		}
		name, val, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}
		if err := t.Set(l.envToPath(name), parseEnvValue(val)); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// envToPath converts MYAPP_CHART_DPI to chart.dpi.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))

	const escape = "\x00"
	name = strings.ReplaceAll(name, "__", escape)
	name = strings.ReplaceAll(name, "_", nested.DefaultSeparator)
	return strings.ReplaceAll(name, escape, "_")
}

// parseEnvValue attempts to parse the string value into an appropriate type.
func parseEnvValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	// Only treat as float when a decimal point is present, so large
	// integers don't get misread.
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	// JSON arrays and objects pass through the JSON parser.
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}

	return s
}
