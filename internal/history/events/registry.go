package events

import (
	"encoding/json"
	"fmt"

	"trs/pkg/platform/sentinel"
)

type decoder func(raw json.RawMessage) (Payload, error)

// Registry maps a kind to its payload decoder. Adding a kind means adding a
// payload type and one Register call; existing entries never change.
type Registry struct {
	decoders map[Kind]decoder
}

func NewRegistry() *Registry {
	return &Registry{decoders: make(map[Kind]decoder)}
}

// Register adds the decoder for payload type P under P's kind.
func Register[P Payload](r *Registry) {
	var zero P
	kind := zero.Kind()
	if _, dup := r.decoders[kind]; dup {
		panic(fmt.Sprintf("events: kind %s registered twice", kind))
	}
	r.decoders[kind] = func(raw json.RawMessage) (Payload, error) {
		var p P
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	}
}

// Known reports whether kind has a decoder.
func (r *Registry) Known(kind Kind) bool {
	_, ok := r.decoders[kind]
	return ok
}

// Kinds lists every registered kind.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, 0, len(r.decoders))
	for k := range r.decoders {
		out = append(out, k)
	}
	return out
}

// Decode returns the typed payload for kind. An unregistered kind yields
// sentinel.ErrUnknownKind.
func (r *Registry) Decode(kind Kind, raw json.RawMessage) (Payload, error) {
	dec, ok := r.decoders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sentinel.ErrUnknownKind, kind)
	}
	p, err := dec(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return p, nil
}

// DefaultRegistry holds every kind this version of the service understands.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()

	Register[AlertCreated](r)
	Register[AlertUpdated](r)
	Register[AlertDeleted](r)
	Register[AlertMigrated](r)
	Register[AlertDqtImported](r)
	Register[AlertDqtDeactivated](r)
	Register[AlertDqtReactivated](r)

	Register[PersonCreated](r)
	Register[PersonDetailsUpdated](r)
	Register[PersonsMerged](r)

	Register[MandatoryQualificationCreated](r)
	Register[MandatoryQualificationUpdated](r)
	Register[MandatoryQualificationDeleted](r)
	Register[MandatoryQualificationMigrated](r)
	Register[MandatoryQualificationDqtImported](r)
	Register[MandatoryQualificationDqtDeactivated](r)
	Register[MandatoryQualificationDqtReactivated](r)

	Register[RouteToProfessionalStatusCreated](r)
	Register[RouteToProfessionalStatusUpdated](r)
	Register[RouteToProfessionalStatusDeleted](r)

	Register[InductionCreated](r)
	Register[InductionUpdated](r)
	Register[InductionDeleted](r)
	Register[InductionDqtImported](r)

	Register[SupportTaskUpdated](r)

	return r
}
