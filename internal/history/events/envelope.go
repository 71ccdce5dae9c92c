// Package events defines the immutable event envelope, the closed set of
// payload kinds and the codec that maps a persisted document back to a typed
// payload.
package events

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"

	id "trs/pkg/domain"
)

// Envelope is the common header around every event. Sequence is assigned by
// the store on append and only breaks ties between equal CreatedAt values.
type Envelope struct {
	EventID          id.EventID
	Sequence         int64
	AggregateKey     *uuid.UUID
	PersonID         id.PersonID
	RelatedPersonIDs []id.PersonID
	CreatedAt        time.Time
	RaisedBy         Actor
	Payload          Payload
}

// Kind returns the payload discriminator.
func (e Envelope) Kind() Kind {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.Kind()
}

// Persons returns the subject and every related person.
func (e Envelope) Persons() []id.PersonID {
	out := make([]id.PersonID, 0, 1+len(e.RelatedPersonIDs))
	out = append(out, e.PersonID)
	for _, p := range e.RelatedPersonIDs {
		if p != e.PersonID && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// Concerns reports whether the event belongs in personID's history.
func (e Envelope) Concerns(personID id.PersonID) bool {
	return e.PersonID == personID || slices.Contains(e.RelatedPersonIDs, personID)
}

// Header is the caller-supplied part of a new envelope.
type Header struct {
	EventID   id.EventID
	PersonID  id.PersonID
	CreatedAt time.Time
	RaisedBy  Actor
}

// New wraps payload in an envelope, deriving the aggregate key from the
// payload. A zero EventID is replaced with a fresh one.
func New(h Header, payload Payload, related ...id.PersonID) Envelope {
	eventID := h.EventID
	if eventID.IsNil() {
		eventID = id.NewEventID()
	}
	env := Envelope{
		EventID:          eventID,
		PersonID:         h.PersonID,
		RelatedPersonIDs: related,
		CreatedAt:        h.CreatedAt.UTC(),
		RaisedBy:         h.RaisedBy,
		Payload:          payload,
	}
	if a, ok := payload.(Aggregated); ok {
		key := a.AggregateKey()
		env.AggregateKey = &key
	}
	return env
}

// CompareChronological orders by CreatedAt, then Sequence.
func CompareChronological(a, b Envelope) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.Sequence, b.Sequence)
}

// SortChronological sorts envs in place, oldest first.
func SortChronological(envs []Envelope) {
	slices.SortStableFunc(envs, CompareChronological)
}
