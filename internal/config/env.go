package config

import (
	"os"
	"strings"
)

// EnvLoader reads prefixed environment variables. OPENNOTES_LIVE_SYNC maps
// to the live_sync key.
type EnvLoader struct {
	prefix  string
	environ func() []string
}

// NewEnvLoader creates a loader over the process environment.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix, environ: os.Environ}
}

// NewEnvLoaderFrom creates a loader over a fixed list of KEY=value pairs.
func NewEnvLoaderFrom(prefix string, vars []string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		environ: func() []string { return vars },
	}
}

// Load returns the prefixed variables as config keys. Values stay strings;
// empty values count as set.
func (l *EnvLoader) Load() map[string]any {
	values := make(map[string]any)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, l.prefix))
		if key == "" {
			continue
		}
		values[key] = value
	}
	return values
}
