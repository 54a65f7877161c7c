package store

import (
	"context"
	"slices"
	"sync"

	"donorhub/internal/draw/models"
	"donorhub/pkg/platform/sentinel"
)

// InMemoryStore keeps the window and draw history in process.
type InMemoryStore struct {
	mu      sync.Mutex
	window  *models.Window
	records []models.Record
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) LoadWindow(_ context.Context) (models.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.window == nil {
		return models.Window{}, sentinel.ErrNotFound
	}
	return *s.window, nil
}

func (s *InMemoryStore) InitWindow(_ context.Context, w models.Window) (models.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.window == nil {
		s.window = &w
	}
	return *s.window, nil
}

func (s *InMemoryStore) CompleteDraw(_ context.Context, current, next models.Window, record models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.window == nil || !s.window.StartedAt.Equal(current.StartedAt) {
		return sentinel.ErrConflict
	}
	s.window = &next
	record.Entrants = slices.Clone(record.Entrants)
	s.records = append(s.records, record)
	return nil
}

// ListRecords returns the newest limit records first.
func (s *InMemoryStore) ListRecords(_ context.Context, limit int) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Record, 0, min(limit, len(s.records)))
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}
