package events

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"trs/internal/history/models"
)

// Payload is the kind-specific body of an event.
type Payload interface {
	Kind() Kind
}

// Aggregated payloads belong to a sub-entity of the person.
type Aggregated interface {
	AggregateKey() uuid.UUID
}

// Staged payloads create, update or delete their aggregate.
type Staged interface {
	Lifecycle() Lifecycle
}

// Validator payloads can check their own change set.
type Validator interface {
	Validate() error
}

// Reasoned payloads carry the reason, detail and evidence for the change.
type Reasoned interface {
	Reason() models.ChangeReasonInfo
}

// UnknownPayload holds a persisted event whose kind has no registered decoder,
// or whose payload failed to decode. It is never written.
type UnknownPayload struct {
	RawKind Kind
	Raw     json.RawMessage
	Err     error
}

func (p UnknownPayload) Kind() Kind { return p.RawKind }

// ChangeSetMismatchError reports a stored change set that does not match the
// one derived from the payload's snapshots.
type ChangeSetMismatchError struct {
	Kind     Kind
	Stored   fmt.Stringer
	Computed fmt.Stringer
}

func (e *ChangeSetMismatchError) Error() string {
	return fmt.Sprintf("%s: stored changes %s do not match computed %s", e.Kind, e.Stored, e.Computed)
}

func checkChanges[T interface {
	comparable
	fmt.Stringer
}](kind Kind, stored, computed T) error {
	if stored != computed {
		return &ChangeSetMismatchError{Kind: kind, Stored: stored, Computed: computed}
	}
	return nil
}

type reason struct {
	ChangeReason models.ChangeReasonInfo `json:"change_reason"`
}

func (r reason) Reason() models.ChangeReasonInfo { return r.ChangeReason }
