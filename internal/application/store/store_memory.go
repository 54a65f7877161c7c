package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"donorhub/internal/application/models"
	id "donorhub/pkg/domain"
	"donorhub/pkg/platform/sentinel"
)

// InMemoryStore keeps applications in a map. Reads return copies so callers
// cannot mutate stored records outside Execute.
type InMemoryStore struct {
	mu   sync.RWMutex
	apps map[id.ApplicationID]*models.Application
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{apps: make(map[id.ApplicationID]*models.Application)}
}

func (s *InMemoryStore) Create(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[app.ID]; ok {
		return sentinel.ErrConflict
	}
	for _, existing := range s.apps {
		if existing.Email == app.Email || existing.Identifier == app.Identifier {
			return sentinel.ErrConflict
		}
		if app.LotteryIdentifier != "" && existing.LotteryIdentifier == app.LotteryIdentifier {
			return sentinel.ErrConflict
		}
	}
	s.apps[app.ID] = clone(app)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, appID id.ApplicationID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[appID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(app), nil
}

func (s *InMemoryStore) FindByIdentifier(_ context.Context, identifier string) (*models.Application, error) {
	return s.findBy(func(a *models.Application) bool { return a.Identifier == identifier })
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Application, error) {
	email = models.NormalizeEmail(email)
	return s.findBy(func(a *models.Application) bool { return a.Email == email })
}

func (s *InMemoryStore) findBy(match func(*models.Application) bool) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, app := range s.apps {
		if match(app) {
			return clone(app), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// Execute holds the write lock across validate and mutate.
func (s *InMemoryStore) Execute(_ context.Context, appID id.ApplicationID, validate func(*models.Application) error, mutate func(*models.Application)) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[appID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := clone(app)
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.apps[appID] = working
	return clone(working), nil
}

func (s *InMemoryStore) Delete(_ context.Context, appID id.ApplicationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[appID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.apps, appID)
	return nil
}

// List returns matching applications oldest first.
func (s *InMemoryStore) List(_ context.Context, filter models.ListFilter) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Application, 0)
	for _, app := range s.apps {
		if filter.Matches(app) {
			out = append(out, clone(app))
		}
	}
	slices.SortFunc(out, func(a, b *models.Application) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Identifier, b.Identifier)
	})
	return out, nil
}

func clone(app *models.Application) *models.Application {
	c := *app
	if app.Donor != nil {
		donor := *app.Donor
		donor.MedicalConditions = slices.Clone(app.Donor.MedicalConditions)
		c.Donor = &donor
	}
	if app.Hospital != nil {
		hospital := *app.Hospital
		c.Hospital = &hospital
	}
	if app.DecidedAt != nil {
		at := *app.DecidedAt
		c.DecidedAt = &at
	}
	return &c
}
