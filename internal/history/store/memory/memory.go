// Package memory is an in-process event store. It keeps the persisted
// document for each event rather than the envelope so that reads always go
// through the same codec as the SQL backends.
package memory

import (
	"context"
	"fmt"
	"sync"

	"trs/internal/history/events"
	id "trs/pkg/domain"
	"trs/pkg/platform/sentinel"
)

type record struct {
	sequence int64
	eventID  id.EventID
	persons  []id.PersonID
	document []byte
}

// Store is safe for concurrent use. Appends made inside RunInTx become visible
// only when the transaction function returns nil.
type Store struct {
	mu       sync.RWMutex
	records  []record
	eventIDs map[id.EventID]struct{}
	nextSeq  int64
	registry *events.Registry
}

type Option func(*Store)

// WithRegistry decodes with r instead of events.DefaultRegistry.
func WithRegistry(r *events.Registry) Option {
	return func(s *Store) {
		s.registry = r
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		eventIDs: make(map[id.EventID]struct{}),
		registry: events.DefaultRegistry,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type stagingKey struct{}

type staging struct {
	mu      sync.Mutex
	pending []record
}

// RunInTx stages every Append made with the ctx passed to fn and commits them
// atomically if fn succeeds.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, nested := ctx.Value(stagingKey{}).(*staging); nested {
		return fn(ctx)
	}
	st := &staging{}
	if err := fn(context.WithValue(ctx, stagingKey{}, st)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range st.pending {
		if _, dup := s.eventIDs[r.eventID]; dup {
			return fmt.Errorf("append event %s: %w", r.eventID, sentinel.ErrConflict)
		}
	}
	for _, r := range st.pending {
		s.commitLocked(r)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, env events.Envelope) error {
	doc, err := events.Marshal(env)
	if err != nil {
		return err
	}
	r := record{eventID: env.EventID, persons: env.Persons(), document: doc}

	if st, ok := ctx.Value(stagingKey{}).(*staging); ok {
		s.mu.RLock()
		_, dup := s.eventIDs[env.EventID]
		s.mu.RUnlock()

		st.mu.Lock()
		defer st.mu.Unlock()
		for _, p := range st.pending {
			if p.eventID == env.EventID {
				dup = true
			}
		}
		if dup {
			return fmt.Errorf("append event %s: %w", env.EventID, sentinel.ErrConflict)
		}
		st.pending = append(st.pending, r)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.eventIDs[env.EventID]; dup {
		return fmt.Errorf("append event %s: %w", env.EventID, sentinel.ErrConflict)
	}
	s.commitLocked(r)
	return nil
}

func (s *Store) commitLocked(r record) {
	s.nextSeq++
	r.sequence = s.nextSeq
	s.records = append(s.records, r)
	s.eventIDs[r.eventID] = struct{}{}
}

func (s *Store) LoadAllForPerson(ctx context.Context, personID id.PersonID) ([]events.Envelope, error) {
	s.mu.RLock()
	var matched []record
	for _, r := range s.records {
		for _, p := range r.persons {
			if p == personID {
				matched = append(matched, r)
				break
			}
		}
	}
	s.mu.RUnlock()

	out := make([]events.Envelope, 0, len(matched))
	for _, r := range matched {
		env, err := s.registry.Unmarshal(r.document)
		if err != nil {
			return nil, fmt.Errorf("load event %d: %w", r.sequence, err)
		}
		env.Sequence = r.sequence
		out = append(out, env)
	}
	events.SortChronological(out)
	return out, nil
}

// Document returns the stored bytes for eventID.
func (s *Store) Document(eventID id.EventID) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.eventID == eventID {
			return append([]byte(nil), r.document...), true
		}
	}
	return nil, false
}

// Len returns the number of committed events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
