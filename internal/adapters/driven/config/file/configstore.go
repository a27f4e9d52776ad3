package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// EnvHome overrides the docchat home directory.
const EnvHome = "DOCCHAT_HOME"

// configFileName is the name of the settings file inside the home directory.
const configFileName = "config.toml"

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a TOML-backed implementation of driven.ConfigStore.
//
// Keys use dot notation ("llm.model"). On disk the first segment becomes a
// table, so the file reads as [llm] model = "...". Every Set writes through.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// HomeDir returns the docchat home directory: $DOCCHAT_HOME if set,
// otherwise ~/.docchat.
func HomeDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".docchat"), nil
}

// NewConfigStore opens the config file in configDir, creating the directory
// if needed. An empty configDir uses HomeDir.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := HomeDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, configFileName),
		data:     make(map[string]any),
	}
	if err := s.Reload(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.filePath, err)
	}

	return s, nil
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// GetString returns the value for key if it is a string.
func (s *ConfigStore) GetString(key string) string {
	val, _ := s.Get(key)
	str, _ := val.(string)
	return str
}

// GetInt returns the value for key as an int. TOML decodes integers as
// int64; values set in this process may still be plain ints.
func (s *ConfigStore) GetInt(key string) int {
	val, _ := s.Get(key)
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// GetFloat returns the value for key as a float64.
func (s *ConfigStore) GetFloat(key string) float64 {
	val, _ := s.Get(key)
	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

// Set stores a value and writes the file.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.save()
}

// Delete removes key and writes the file if it was present.
func (s *ConfigStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.save()
}

// save writes the file; the caller holds the lock.
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(nest(s.data))
	if err != nil {
		return err
	}
	// The file may hold API keys.
	return os.WriteFile(s.filePath, data, 0600)
}

// Reload replaces the in-memory values with the file's contents, dropping
// anything set by another process's view. A missing file loads as empty.
func (s *ConfigStore) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) {
		s.data = make(map[string]any)
		return nil
	}
	if err != nil {
		return err
	}

	var tree map[string]any
	if err := toml.Unmarshal(raw, &tree); err != nil {
		return err
	}

	s.data = make(map[string]any)
	flatten(tree, "", s.data)
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Keys returns the stored keys in sorted order.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// flatten copies tree into out with dot-joined keys: {"a": {"b": 1}} becomes {"a.b": 1}.
func flatten(tree map[string]any, prefix string, out map[string]any) {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if sub, ok := value.(map[string]any); ok {
			flatten(sub, full, out)
			continue
		}
		out[full] = value
	}
}

// nest is the inverse of flatten for the first key segment. "llm.model" is
// stored under the "llm" table; the remainder stays as one key so values
// with deeper dots round-trip unchanged.
func nest(flat map[string]any) map[string]any {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	// Sorted so a bare "x" is placed before any "x.y".
	sort.Strings(keys)

	tree := make(map[string]any)
	for _, key := range keys {
		value := flat[key]
		table, rest, found := strings.Cut(key, ".")
		if !found || rest == "" {
			tree[key] = value
			continue
		}
		sub, ok := tree[table].(map[string]any)
		if !ok {
			if _, clash := tree[table]; clash {
				// A scalar already owns this name; keep the dotted key flat.
				tree[key] = value
				continue
			}
			sub = make(map[string]any)
			tree[table] = sub
		}
		sub[rest] = value
	}
	return tree
}
