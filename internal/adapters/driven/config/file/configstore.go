package file

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// fileName is the configuration file inside the config directory.
const fileName = "config.toml"

// header is written above the settings on every save.
const header = "# medexpert configuration. Edit with `medexpert settings set <key> <value>`.\n\n"

// ConfigStore keeps dotted settings keys in a TOML file. Every change is
// written through immediately.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// NewConfigStore opens configDir/config.toml, creating the directory if
// needed. An empty configDir means DefaultDir. A missing file is an empty
// configuration.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, fileName),
		data:     make(map[string]any),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultDir returns ~/.medexpert.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".medexpert"), nil
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// GetString returns the value for key if it is a string.
func (s *ConfigStore) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// GetInt returns the value for key as an int. TOML integers decode as int64.
func (s *ConfigStore) GetInt(key string) int {
	v, _ := s.Get(key)
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	}
	return 0
}

// GetBool returns the value for key if it is a bool.
func (s *ConfigStore) GetBool(key string) bool {
	v, _ := s.Get(key)
	b, _ := v.(bool)
	return b
}

// GetStringSlice returns the value for key as strings. TOML arrays decode
// as []any; non-string elements are dropped.
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

// Set stores a value and writes the file.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.save()
}

// Unset removes a key and writes the file. Unknown keys are ignored.
func (s *ConfigStore) Unset(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.save()
}

// Keys returns every stored key, sorted.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.data))
}

// Save writes the file.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes through a temporary file so readers never see a partial
// file. The caller holds mu.
func (s *ConfigStore) save() error {
	body, err := toml.Marshal(nestMap(s.data))
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if err := writeAll(tmp, []byte(header), body); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.filePath); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// writeAll writes each chunk to f and closes it.
func writeAll(f *os.File, chunks ...[]byte) error {
	for _, c := range chunks {
		if _, err := f.Write(c); err != nil {
			_ = f.Close()
			return err
		}
	}
	return f.Close()
}

// Load replaces the in-memory settings with the file's. A missing file
// clears them.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		s.data = make(map[string]any)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	var tree map[string]any
	if err := toml.NewDecoder(bytes.NewReader(body)).Decode(&tree); err != nil {
		return fmt.Errorf("parsing %s: %w", s.filePath, err)
	}
	s.data = flatten(tree, "")
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// flatten turns nested tables into dotted keys: {"a": {"b": 1}} becomes
// {"a.b": 1}.
func flatten(tree map[string]any, prefix string) map[string]any {
	out := make(map[string]any)
	for key, value := range tree {
		if prefix != "" {
			key = prefix + "." + key
		}
		if table, ok := value.(map[string]any); ok {
			maps.Copy(out, flatten(table, key))
			continue
		}
		out[key] = value
	}
	return out
}

// nestMap is the inverse of flatten. A key whose prefix is already a
// scalar stays flat and is written as a quoted key.
func nestMap(flat map[string]any) map[string]any {
	keys := slices.Collect(maps.Keys(flat))
	// Shorter keys first so scalars claim their names before tables do.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})

	root := make(map[string]any)
	for _, key := range keys {
		parts := strings.Split(key, ".")
		node, placed := root, true
		for _, part := range parts[:len(parts)-1] {
			next, exists := node[part]
			if !exists {
				child := make(map[string]any)
				node[part] = child
				node = child
				continue
			}
			child, ok := next.(map[string]any)
			if !ok {
				placed = false
				break
			}
			node = child
		}
		leaf := parts[len(parts)-1]
		if _, clash := node[leaf].(map[string]any); !placed || clash {
			root[key] = flat[key]
			continue
		}
		node[leaf] = flat[key]
	}
	return root
}
