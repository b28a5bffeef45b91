package ledger

import (
	"context"
	"strings"
	"sync"
)

// MemStore keeps everything in process memory. It is the default backend and
// the one tests use.
type MemStore struct {
	mu     sync.RWMutex
	state  map[string]string
	events []Event
}

func NewMemStore() *MemStore {
	return &MemStore{state: make(map[string]string)}
}

func (m *MemStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.state[key]
	return v, ok, nil
}

func (m *MemStore) Apply(_ context.Context, b *Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range b.Sets {
		m.state[k] = v
	}
	for _, k := range b.Deletes {
		delete(m.state, k)
	}
	m.events = append(m.events, b.Events...)
	return nil
}

func (m *MemStore) LoadEvents(_ context.Context, from uint64, limit int) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if from == 0 {
		from = 1
	}
	start := int(from - 1)
	if start >= len(m.events) || limit <= 0 {
		return nil, nil
	}
	end := start + limit
	if end > len(m.events) {
		end = len(m.events)
	}
	out := make([]Event, end-start)
	copy(out, m.events[start:end])
	return out, nil
}

func (m *MemStore) EventCount(_ context.Context) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.events)), nil
}

func (m *MemStore) Scan(_ context.Context, prefix string, fn func(key, value string) error) error {
	m.mu.RLock()
	snapshot := make(map[string]string)
	for k, v := range m.state {
		if strings.HasPrefix(k, prefix) {
			snapshot[k] = v
		}
	}
	m.mu.RUnlock()
	for k, v := range snapshot {
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemStore) Close() error { return nil }
