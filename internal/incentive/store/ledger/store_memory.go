package ledger

import (
	"context"
	"slices"
	"sync"

	"donorhub/internal/incentive/models"
)

// InMemoryStore is an append-only ledger guarded by one mutex, which also
// serializes appends per donor.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []models.Entry
	byDonor map[string][]int
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{byDonor: make(map[string][]int)}
}

func (s *InMemoryStore) Append(_ context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.Sequence = int64(len(s.entries) + 1)
	s.byDonor[entry.DonorID] = append(s.byDonor[entry.DonorID], len(s.entries))
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *InMemoryStore) ListByDonor(_ context.Context, donorID string) ([]models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.byDonor[donorID]
	out := make([]models.Entry, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.entries[i])
	}
	return out, nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries), nil
}
