package service

import (
	"errors"
	"fmt"

	"trs/internal/history/events"
	id "trs/pkg/domain"
)

// Finding is one problem found while replaying a person's events.
type Finding struct {
	EventID id.EventID
	Kind    events.Kind
	Err     error
}

func (f Finding) String() string {
	if f.EventID.IsNil() {
		return f.Err.Error()
	}
	return fmt.Sprintf("%s %s: %v", f.EventID, f.Kind, f.Err)
}

// Verify re-derives every stored change set, checks each header and checks
// create/delete sequencing per aggregate. It returns nothing for a healthy
// history. envs is not modified.
func Verify(envs []events.Envelope) []Finding {
	var findings []Finding
	for _, env := range envs {
		if unknown, ok := env.Payload.(events.UnknownPayload); ok {
			err := unknown.Err
			if err == nil {
				err = errors.New("payload not decoded")
			}
			findings = append(findings, Finding{EventID: env.EventID, Kind: env.Kind(), Err: err})
			continue
		}
		if err := events.Validate(env); err != nil {
			findings = append(findings, Finding{EventID: env.EventID, Kind: env.Kind(), Err: err})
		}
	}
	if err := events.ValidateSequence(envs); err != nil {
		for _, e := range unwrapJoined(err) {
			f := Finding{Err: e}
			var seqErr *events.SequenceError
			if errors.As(e, &seqErr) {
				if eventID, parseErr := id.ParseEventID(seqErr.EventID); parseErr == nil {
					f.EventID = eventID
				}
			}
			findings = append(findings, f)
		}
	}
	return findings
}

func unwrapJoined(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
