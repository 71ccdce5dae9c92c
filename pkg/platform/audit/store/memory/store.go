package memory

import (
	"context"
	"slices"
	"sync"

	id "trs/pkg/domain"
	"trs/pkg/platform/audit"
)

type Store struct {
	mu     sync.RWMutex
	events map[id.PersonID][]audit.Event
}

func New() *Store {
	return &Store{events: make(map[id.PersonID][]audit.Event)}
}

func (s *Store) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.PersonID] = append(s.events[event.PersonID], event)
	return nil
}

func (s *Store) ListByPerson(_ context.Context, personID id.PersonID, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	out := slices.Clone(s.events[personID])
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b audit.Event) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, evs := range s.events {
		n += len(evs)
	}
	return n
}
