package store

import (
	"context"
	"fmt"
	"sync"

	"trs/internal/person/models"
	id "trs/pkg/domain"
	"trs/pkg/platform/sentinel"
)

// InMemory keeps people in a map. Copies go in and out so callers cannot
// mutate stored entries.
type InMemory struct {
	mu     sync.RWMutex
	people map[id.PersonID]models.Person
}

func NewInMemory() *InMemory {
	return &InMemory{people: make(map[id.PersonID]models.Person)}
}

func (s *InMemory) Save(_ context.Context, p *models.Person) error {
	if p == nil {
		return fmt.Errorf("person is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for existingID, existing := range s.people {
		if existing.TRN == p.TRN && existingID != p.ID {
			return fmt.Errorf("trn %s already assigned: %w", p.TRN, sentinel.ErrConflict)
		}
	}
	s.people[p.ID] = *p
	return nil
}

func (s *InMemory) Get(_ context.Context, personID id.PersonID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.people[personID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}
