package memory

import (
	"github.com/custodia-labs/curricula/internal/adapters/driven/config/values"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore holds settings for the life of the process.
type ConfigStore struct {
	*values.Map
}

// NewConfigStore returns an empty store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{Map: values.New()}
}

// Set never fails.
func (s *ConfigStore) Set(key string, value any) error {
	s.Map.Set(key, value)
	return nil
}

// Save does nothing; there is nowhere to write.
func (s *ConfigStore) Save() error { return nil }

// Load does nothing.
func (s *ConfigStore) Load() error { return nil }

// Path reports ":memory:".
func (s *ConfigStore) Path() string { return ":memory:" }
