package store

import (
	"context"
	"sync"
	"time"

	"donorhub/internal/lockout/models"
)

type InMemoryStore struct {
	mu      sync.Mutex
	records map[string]models.Record
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]models.Record)}
}

// Get returns a copy of the record, or nil when the key has none.
func (s *InMemoryStore) Get(_ context.Context, key string) (*models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// RecordFailure increments the count, starting a new window when the previous
// one has elapsed.
func (s *InMemoryStore) RecordFailure(_ context.Context, key string, now time.Time, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok || rec.WindowElapsedAt(now, window) {
		rec = models.Record{Key: key, FirstFailureAt: now}
	}
	rec.FailureCount++
	rec.LastFailureAt = now
	s.records[key] = rec
	return rec.FailureCount, nil
}

func (s *InMemoryStore) Lock(_ context.Context, key string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		rec = models.Record{Key: key}
	}
	rec.LockedUntil = &until
	s.records[key] = rec
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}
