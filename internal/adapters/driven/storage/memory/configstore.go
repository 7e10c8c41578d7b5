package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in process memory. It backs --ephemeral runs,
// where defaults apply and edits last until exit.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore creates an empty store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{values: make(map[string]any)}
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the value for key if it is a string.
func (s *ConfigStore) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// GetInt returns the value for key as an int. Values set from TOML or
// JSON arrive as int64 or float64.
func (s *ConfigStore) GetInt(key string) int {
	v, _ := s.Get(key)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// GetBool returns the value for key if it is a bool.
func (s *ConfigStore) GetBool(key string) bool {
	v, _ := s.Get(key)
	b, _ := v.(bool)
	return b
}

// GetStringSlice returns the value for key as strings, dropping
// non-string elements.
func (s *ConfigStore) GetStringSlice(key string) []string {
	v, _ := s.Get(key)
	switch list := v.(type) {
	case []string:
		return slices.Clone(list)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// Set stores a value.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Unset removes a key.
func (s *ConfigStore) Unset(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Keys returns every stored key, sorted.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.values))
}

// Save is a no-op.
func (s *ConfigStore) Save() error { return nil }

// Load is a no-op.
func (s *ConfigStore) Load() error { return nil }

// Path names the store in log output.
func (s *ConfigStore) Path() string { return ":memory:" }
