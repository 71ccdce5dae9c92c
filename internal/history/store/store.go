// Package store holds the event store contract shared by the memory,
// postgres and sqlite backends. Stores append and read; there is no update or
// delete.
package store

import (
	"context"

	"trs/internal/history/events"
	id "trs/pkg/domain"
)

// Store is an append-only event store.
type Store interface {
	// Append writes env inside the transaction on ctx, if any. A duplicate
	// EventID yields sentinel.ErrConflict.
	Append(ctx context.Context, env events.Envelope) error
	// LoadAllForPerson returns every event whose subject or related persons
	// include personID, oldest first, ties broken by Sequence.
	LoadAllForPerson(ctx context.Context, personID id.PersonID) ([]events.Envelope, error)
}
