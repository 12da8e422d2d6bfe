package reviews

import (
	"context"
	"sync"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[string][]Review
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string][]Review{}}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Close() error { return nil }

func (s *MemStore) List(ctx context.Context, productID string) ([]Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.m[productID]
	out := make([]Review, len(src))
	copy(out, src)
	return out, nil
}

func (s *MemStore) Append(ctx context.Context, productID string, rv Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[productID] = append(s.m[productID], rv)
	return nil
}
