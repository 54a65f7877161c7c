package store

import (
	"context"
	"sync"

	"donorhub/internal/identifier/models"
)

// InMemoryStore keeps issued values per kind. Used in tests and when no database is configured.
type InMemoryStore struct {
	mu     sync.Mutex
	issued map[models.Kind]map[string]struct{}
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{issued: make(map[models.Kind]map[string]struct{})}
}

func (s *InMemoryStore) Reserve(_ context.Context, ident models.Identifier) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.issued[ident.Kind]
	if !ok {
		set = make(map[string]struct{})
		s.issued[ident.Kind] = set
	}
	if _, taken := set[ident.Value]; taken {
		return false, nil
	}
	set[ident.Value] = struct{}{}
	return true, nil
}

func (s *InMemoryStore) Count(_ context.Context, kind models.Kind) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.issued[kind]), nil
}
