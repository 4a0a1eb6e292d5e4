package snapshots

import (
	"context"
	"sync"
)

// MemoryStore keeps encoded snapshots in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	versions map[string]int64
	saves    int
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}, versions: map[string]int64{}}
}

// Load implements Store.
func (m *MemoryStore) Load(ctx context.Context, key string) (*Snapshot, error) {
	m.mu.Lock()
	payload, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return Decode(payload)
}

// Save implements Store.
func (m *MemoryStore) Save(ctx context.Context, key string, snap *Snapshot) error {
	payload, err := Encode(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok && snap.Version <= m.versions[key] {
		return ErrStale
	}
	m.data[key] = payload
	m.versions[key] = snap.Version
	m.saves++
	return nil
}

// LoadVersion implements Store.
func (m *MemoryStore) LoadVersion(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versions[key], nil
}

// Saves returns how many writes were accepted.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Ping implements the readiness check.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
