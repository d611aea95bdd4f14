package store

import (
	"context"
	"sync"
)

// MemoryKV is an in-process KV used by tests and by the server when no
// database is configured.
type MemoryKV struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{slots: make(map[string][]byte)}
}

func (s *MemoryKV) Init(ctx context.Context) error { return nil }

func (s *MemoryKV) Get(ctx context.Context, slot string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.slots[slot]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *MemoryKV) Set(ctx context.Context, slot string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.slots[slot] = stored
	return nil
}
