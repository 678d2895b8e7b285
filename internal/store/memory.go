package store

import "sync"

// MemoryStore is a thread-safe in-memory snapshot store.
//
// Snapshots are keyed by provider name; a new snapshot for a known
// provider replaces the previous one. There is deliberately no history
// and no persistence.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// NewMemoryStore creates an empty [MemoryStore], immediately ready for
// use.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]Snapshot),
	}
}

// Update stores a snapshot, replacing any previous snapshot for the same
// provider.
func (m *MemoryStore) Update(snap Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snap.Provider] = snap
}

// Get returns the snapshot for the named provider, if one exists.
func (m *MemoryStore) Get(provider string) (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snapshots[provider]
	return snap, ok
}

// GetAll returns a copy of every stored snapshot. Order is not
// guaranteed.
func (m *MemoryStore) GetAll() []Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snaps := make([]Snapshot, 0, len(m.snapshots))
	for _, snap := range m.snapshots {
		snaps = append(snaps, snap)
	}
	return snaps
}
