package sequence

import (
	"context"
	"sync"
)

// Memory is an in-process generator for development and tests.
type Memory struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMemory creates a generator with all counters at zero.
func NewMemory() *Memory {
	return &Memory{counters: make(map[string]int64)}
}

func (m *Memory) Next(_ context.Context, key Key) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key.String()
	m.counters[k]++
	return m.counters[k], nil
}
