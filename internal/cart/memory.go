package cart

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryPersistence keeps the snapshot in process memory. Used in tests and
// for fully volatile carts.
type MemoryPersistence struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryPersistence builds an empty in-memory snapshot store.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

func (m *MemoryPersistence) Load(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	var snapshot Snapshot
	if err := json.Unmarshal(m.data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (m *MemoryPersistence) Save(ctx context.Context, snapshot *Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

func (m *MemoryPersistence) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}
