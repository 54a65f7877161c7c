package shortage

import (
	"context"
	"slices"
	"strings"
	"sync"

	"donorhub/internal/incentive/models"
	id "donorhub/pkg/domain"
	"donorhub/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu    sync.RWMutex
	flags map[id.BloodType]models.ShortageFlag
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{flags: make(map[id.BloodType]models.ShortageFlag)}
}

func (s *InMemoryStore) Flag(_ context.Context, flag models.ShortageFlag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[flag.BloodType] = flag
	return nil
}

func (s *InMemoryStore) Unflag(_ context.Context, bloodType id.BloodType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.flags[bloodType]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.flags, bloodType)
	return nil
}

func (s *InMemoryStore) IsFlagged(_ context.Context, bloodType id.BloodType) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.flags[bloodType]
	return ok, nil
}

// List returns flags ordered by blood type.
func (s *InMemoryStore) List(_ context.Context) ([]models.ShortageFlag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ShortageFlag, 0, len(s.flags))
	for _, f := range s.flags {
		out = append(out, f)
	}
	slices.SortFunc(out, func(a, b models.ShortageFlag) int {
		return strings.Compare(string(a.BloodType), string(b.BloodType))
	})
	return out, nil
}
