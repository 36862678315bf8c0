package storage

import (
	"context"
	"sync"

	"edupay/internal/core"
)

// MemoryStore keeps the document in process memory. Default backend
// for development and tests.
type MemoryStore struct {
	mu    sync.Mutex
	data  core.AppData
	saved bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (core.AppData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saved {
		return core.DefaultData(), nil
	}
	return s.data.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, data core.AppData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data.Clone()
	s.saved = true
	return nil
}

func (s *MemoryStore) Close() error { return nil }
