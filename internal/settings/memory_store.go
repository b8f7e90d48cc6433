package settings

import (
	"context"
	"sync"
)

// MemoryStore keeps settings in process memory. Used in tests and when no
// durable backend is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	saved *Settings
}

// NewMemoryStore returns an empty store; Load yields Defaults until the first Save.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the last saved settings, or Defaults.
func (m *MemoryStore) Load(ctx context.Context) (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.saved == nil {
		return Defaults(), nil
	}
	return *m.saved, nil
}

// Save validates s and keeps it.
func (m *MemoryStore) Save(ctx context.Context, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = &s
	return nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
