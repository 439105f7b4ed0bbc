package memory

import (
	"sync/atomic"

	"github.com/custodia-labs/proofcheck/internal/adapters/driven/config"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in memory. It backs tests and runs when the
// config directory cannot be created.
type ConfigStore struct {
	*config.Values
	updates atomic.Int64
}

// NewConfigStore creates an empty store.
func NewConfigStore() *ConfigStore {
	return NewConfigStoreWith(nil)
}

// NewConfigStoreWith creates a store seeded with values. Seeding does not
// count as an update.
func NewConfigStoreWith(values map[string]any) *ConfigStore {
	return &ConfigStore{Values: config.NewValues(values)}
}

// Update merges values.
func (s *ConfigStore) Update(values map[string]any) error {
	s.Replace(s.Merged(values))
	s.updates.Add(1)
	return nil
}

// Saves returns how many updates were applied.
func (s *ConfigStore) Saves() int {
	return int(s.updates.Load())
}

// Path reports the store as in-memory.
func (s *ConfigStore) Path() string {
	return ":memory:"
}
