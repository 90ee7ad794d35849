// Package file keeps configuration and prompt templates as plain files
// under the curricula home directory.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/curricula/internal/adapters/driven/config/values"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

const configFile = "config.toml"

// ConfigStore persists settings to config.toml. Keys live flat in memory
// ("chunking.workers") and are nested into TOML tables on disk.
type ConfigStore struct {
	*values.Map

	// io serialises disk writes so the file always matches some
	// consistent snapshot of Map.
	io   sync.Mutex
	path string
}

// NewConfigStore opens dir/config.toml, creating dir if needed. An empty
// dir means ~/.curricula. A missing file is an empty configuration.
func NewConfigStore(dir string) (*ConfigStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate home directory: %w", err)
		}
		dir = filepath.Join(home, ".curricula")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &ConfigStore{Map: values.New(), path: filepath.Join(dir, configFile)}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Set writes the file with key changed and only then updates memory, so a
// failed write leaves the store as it was.
func (s *ConfigStore) Set(key string, value any) error {
	s.io.Lock()
	defer s.io.Unlock()

	next := s.Map.Snapshot()
	next[key] = value
	if err := writeTOML(s.path, next); err != nil {
		return err
	}
	s.Map.Replace(next)
	return nil
}

// Save writes the current settings.
func (s *ConfigStore) Save() error {
	s.io.Lock()
	defer s.io.Unlock()
	return writeTOML(s.path, s.Map.Snapshot())
}

// Load replaces the in-memory settings with the file's contents.
func (s *ConfigStore) Load() error {
	s.io.Lock()
	defer s.io.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.Map.Replace(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var tree map[string]any
	if err := toml.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	flat := map[string]any{}
	flatten(flat, "", tree)
	s.Map.Replace(flat)
	return nil
}

// Path returns the config file location.
func (s *ConfigStore) Path() string {
	return s.path
}

func writeTOML(path string, flat map[string]any) error {
	tree, err := nest(flat)
	if err != nil {
		return err
	}
	out, err := toml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, out, 0o600)
}

// flatten copies tree into dst with table names joined by dots.
func flatten(dst map[string]any, prefix string, tree map[string]any) {
	for k, v := range tree {
		if prefix != "" {
			k = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(dst, k, sub)
			continue
		}
		dst[k] = v
	}
}

// nest turns dotted keys back into tables. It fails when a key is used both
// as a value and as a table, e.g. "llm" and "llm.model".
func nest(flat map[string]any) (map[string]any, error) {
	root := map[string]any{}
	for key, v := range flat {
		parts := strings.Split(key, ".")
		table := root
		for i, name := range parts[:len(parts)-1] {
			switch child := table[name].(type) {
			case nil:
				sub := map[string]any{}
				table[name] = sub
				table = sub
			case map[string]any:
				table = child
			default:
				return nil, fmt.Errorf("config key %q conflicts with %q", key, strings.Join(parts[:i+1], "."))
			}
		}
		leaf := parts[len(parts)-1]
		if _, ok := table[leaf].(map[string]any); ok {
			return nil, fmt.Errorf("config key %q conflicts with a table of the same name", key)
		}
		table[leaf] = v
	}
	return root, nil
}
