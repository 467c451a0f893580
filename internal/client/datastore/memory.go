package datastore

import (
	"context"
	"maps"
	"sync"

	"github.com/grupo8/reparafacil/internal/core/ports"
)

// MemoryPreferences is a process-local PreferenceStore.
type MemoryPreferences struct {
	mu   sync.RWMutex
	vals map[string]string
}

var _ ports.PreferenceStore = (*MemoryPreferences)(nil)

func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{vals: make(map[string]string)}
}

func (m *MemoryPreferences) Get(_ context.Context, keys ...string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := m.vals[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *MemoryPreferences) Set(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	maps.Copy(m.vals, values)
	m.mu.Unlock()
	return nil
}

func (m *MemoryPreferences) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.vals, k)
	}
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryPreferences) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vals)
}
