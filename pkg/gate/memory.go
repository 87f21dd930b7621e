package gate

import (
	"context"
	"sync"
)

// MemoryStore keeps flags in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	flags map[string]Flag
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{flags: make(map[string]Flag)}
}

func (s *MemoryStore) Get(_ context.Context, device string) (Flag, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.flags[device]
	return f, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, f Flag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[f.Device] = f
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, device string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flags, device)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
