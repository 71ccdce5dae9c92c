package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "trs/pkg/domain"
)

// document is the persisted form. Fields are only ever added.
type document struct {
	EventID          id.EventID      `json:"event_id"`
	Kind             Kind            `json:"kind"`
	PersonID         id.PersonID     `json:"person_id"`
	RelatedPersonIDs []id.PersonID   `json:"related_person_ids"`
	AggregateKey     *uuid.UUID      `json:"aggregate_key"`
	CreatedAt        time.Time       `json:"created_at"`
	RaisedBy         json.RawMessage `json:"raised_by"`
	Payload          json.RawMessage `json:"payload"`
}

// Marshal produces the persisted document for env.
func Marshal(env Envelope) ([]byte, error) {
	if env.Payload == nil {
		return nil, errors.New("marshal event: payload is required")
	}
	if _, unknown := env.Payload.(UnknownPayload); unknown {
		return nil, fmt.Errorf("marshal event: refusing to write undecoded %s", env.Kind())
	}
	actor, err := marshalActor(env.RaisedBy)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	payload, err := json.Marshal(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal event payload: %w", err)
	}
	related := env.RelatedPersonIDs
	if related == nil {
		related = []id.PersonID{}
	}
	return json.Marshal(document{
		EventID:          env.EventID,
		Kind:             env.Kind(),
		PersonID:         env.PersonID,
		RelatedPersonIDs: related,
		AggregateKey:     env.AggregateKey,
		CreatedAt:        env.CreatedAt.UTC(),
		RaisedBy:         actor,
		Payload:          payload,
	})
}

// Unmarshal decodes a persisted document with r. A kind r does not know, or a
// payload that fails to decode, yields an UnknownPayload rather than an error
// so one bad event cannot hide a person's whole history. Header errors are
// returned.
func (r *Registry) Unmarshal(data []byte) (Envelope, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal event: %w", err)
	}
	actor, err := unmarshalActor(doc.RaisedBy)
	if err != nil {
		return Envelope{}, fmt.Errorf("unmarshal event %s: %w", doc.EventID, err)
	}
	env := Envelope{
		EventID:          doc.EventID,
		AggregateKey:     doc.AggregateKey,
		PersonID:         doc.PersonID,
		RelatedPersonIDs: doc.RelatedPersonIDs,
		CreatedAt:        doc.CreatedAt.UTC(),
		RaisedBy:         actor,
	}
	if len(env.RelatedPersonIDs) == 0 {
		env.RelatedPersonIDs = nil
	}
	payload, err := r.Decode(doc.Kind, doc.Payload)
	if err != nil {
		env.Payload = UnknownPayload{RawKind: doc.Kind, Raw: doc.Payload, Err: err}
		return env, nil
	}
	env.Payload = payload
	return env, nil
}

// Unmarshal decodes with DefaultRegistry.
func Unmarshal(data []byte) (Envelope, error) {
	return DefaultRegistry.Unmarshal(data)
}
