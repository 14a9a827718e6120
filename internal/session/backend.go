package session

import (
	"fmt"
	"sync"

	"github.com/desertthunder/mcat/internal/shared"
)

// Persisted keys per actor.
const (
	KeyToken       = "token"
	KeyDisplayName = "displayName"
)

// Backend is the key-value storage behind a [Store], namespaced by actor.
//
// Get returns [shared.ErrNotFound] for a missing key.
type Backend interface {
	Get(actor, key string) (string, error)
	Set(actor, key, value string) error
	Clear(actor string) error
}

// MemoryBackend keeps entries for the lifetime of the process.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]map[string]string
}

// NewMemoryBackend returns an empty [MemoryBackend].
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: map[string]map[string]string{}}
}

func (m *MemoryBackend) Get(actor, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.entries[actor][key]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", shared.ErrNotFound, actor, key)
	}
	return v, nil
}

func (m *MemoryBackend) Set(actor, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries[actor] == nil {
		m.entries[actor] = map[string]string{}
	}
	m.entries[actor][key] = value
	return nil
}

func (m *MemoryBackend) Clear(actor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, actor)
	return nil
}
