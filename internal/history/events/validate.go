package events

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Validate checks a single envelope before it is written: the header must be
// complete and any change set must match the payload's snapshots.
func Validate(env Envelope) error {
	var errs []error
	if env.EventID.IsNil() {
		errs = append(errs, errors.New("event id is required"))
	}
	if env.PersonID.IsNil() {
		errs = append(errs, errors.New("person id is required"))
	}
	if env.CreatedAt.IsZero() {
		errs = append(errs, errors.New("created at is required"))
	}
	switch a := env.RaisedBy.(type) {
	case nil:
		errs = append(errs, errors.New("raised by is required"))
	case UnknownActor:
		errs = append(errs, fmt.Errorf("raised by type %q was not decoded", a.Type))
	}
	switch p := env.Payload.(type) {
	case nil:
		errs = append(errs, errors.New("payload is required"))
	case UnknownPayload:
		errs = append(errs, fmt.Errorf("payload for %s was not decoded", p.RawKind))
	case Validator:
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if a, ok := env.Payload.(Aggregated); ok {
		if env.AggregateKey == nil || *env.AggregateKey != a.AggregateKey() {
			errs = append(errs, errors.New("aggregate key does not match payload"))
		}
	}
	return errors.Join(errs...)
}

// SequenceError describes a lifecycle violation for one aggregate.
type SequenceError struct {
	AggregateKey uuid.UUID
	EventID      string
	Reason       string
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("aggregate %s: event %s: %s", e.AggregateKey, e.EventID, e.Reason)
}

// ValidateSequence checks, per aggregate key in chronological order, that an
// aggregate is never created twice without a deletion in between. envs is not
// modified.
func ValidateSequence(envs []Envelope) error {
	ordered := slices.Clone(envs)
	SortChronological(ordered)

	live := make(map[uuid.UUID]bool)
	var errs []error
	for _, env := range ordered {
		if env.AggregateKey == nil {
			continue
		}
		staged, ok := env.Payload.(Staged)
		if !ok {
			continue
		}
		key := *env.AggregateKey
		switch staged.Lifecycle() {
		case LifecycleCreate:
			if live[key] {
				errs = append(errs, &SequenceError{
					AggregateKey: key,
					EventID:      env.EventID.String(),
					Reason:       fmt.Sprintf("%s without an intervening deletion", env.Kind()),
				})
			}
			live[key] = true
		case LifecycleDelete:
			live[key] = false
		}
	}
	return errors.Join(errs...)
}
