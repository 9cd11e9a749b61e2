package storage

import (
	"bytes"
	"context"
	"sync"

	"github.com/rl1809/vending-machine/internal/core/domain"
	"github.com/rl1809/vending-machine/internal/port"
)

// MemoryAdapter keeps the encoded record in process. It backs tests and
// single-node deployments that do not need durability.
type MemoryAdapter struct {
	mu        sync.Mutex
	slots     map[string][]byte
	movements []domain.Movement
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{slots: make(map[string][]byte)}
}

func (m *MemoryAdapter) Load(ctx context.Context) (domain.Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.load()
}

func (m *MemoryAdapter) Create(ctx context.Context, inv domain.Inventory) error {
	data, err := encodeInventory(inv)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.slots[StateKey]; ok {
		return domain.ErrAlreadyInitialized
	}
	m.slots[StateKey] = data
	return nil
}

func (m *MemoryAdapter) Save(ctx context.Context, inv domain.Inventory) error {
	data, err := encodeInventory(inv)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[StateKey] = data
	return nil
}

func (m *MemoryAdapter) Update(ctx context.Context, fn port.UpdateFunc) (domain.Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.load()
	if err != nil {
		return domain.Inventory{}, err
	}

	next, err := fn(current)
	if err != nil {
		return domain.Inventory{}, err
	}

	data, err := encodeInventory(next)
	if err != nil {
		return domain.Inventory{}, err
	}
	m.slots[StateKey] = data

	return next, nil
}

// RawState returns a copy of the encoded record, or nil if none is stored.
func (m *MemoryAdapter) RawState() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	return bytes.Clone(m.slots[StateKey])
}

func (m *MemoryAdapter) RecordMovement(ctx context.Context, movement domain.Movement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.movements = append(m.movements, movement)
	return nil
}

// Movements returns the journal in insertion order.
func (m *MemoryAdapter) Movements() []domain.Movement {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Movement, len(m.movements))
	copy(out, m.movements)
	return out
}

func (m *MemoryAdapter) load() (domain.Inventory, error) {
	data, ok := m.slots[StateKey]
	if !ok {
		return domain.Inventory{}, domain.ErrNotInitialized
	}
	return decodeInventory(data)
}
