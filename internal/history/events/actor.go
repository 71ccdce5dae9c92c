package events

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	id "trs/pkg/domain"
)

// SystemActorName is the display name for automated changes.
const SystemActorName = "TRS System"

// UnknownActorName labels an actor whose type this build cannot decode.
const UnknownActorName = "Unknown"

// Actor identifies who raised an event. The variants carry everything needed
// to render "by X" without a directory lookup at read time.
type Actor interface {
	DisplayName() string
	actorType() string
}

// UserActor is a user of the current system.
type UserActor struct {
	UserID id.UserID
	Name   string
}

// DqtUserActor is a user of the legacy CRM. The legacy directory cannot be
// joined against later, so the name is captured when the event is created.
type DqtUserActor struct {
	DqtUserID   uuid.UUID
	DqtUserName string
}

// SystemActor is the fixed automation identity.
type SystemActor struct{}

// UnknownActor is read from a document written by a newer build with an
// actor type this one does not know. It is never written back.
type UnknownActor struct {
	Type string
	Name string
}

func (a UserActor) DisplayName() string    { return a.Name }
func (a DqtUserActor) DisplayName() string { return a.DqtUserName }
func (SystemActor) DisplayName() string    { return SystemActorName }
func (a UnknownActor) DisplayName() string {
	if a.Name == "" {
		return UnknownActorName
	}
	return a.Name
}

func (UserActor) actorType() string      { return "user" }
func (DqtUserActor) actorType() string   { return "dqt_user" }
func (SystemActor) actorType() string    { return "system" }
func (a UnknownActor) actorType() string { return a.Type }

type actorDocument struct {
	Type        string     `json:"type"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	Name        string     `json:"name,omitempty"`
	DqtUserID   *uuid.UUID `json:"dqt_user_id,omitempty"`
	DqtUserName string     `json:"dqt_user_name,omitempty"`
}

func marshalActor(a Actor) (json.RawMessage, error) {
	if a == nil {
		return nil, fmt.Errorf("raised_by is required")
	}
	doc := actorDocument{Type: a.actorType()}
	switch v := a.(type) {
	case UnknownActor:
		return nil, fmt.Errorf("refusing to write undecoded raised_by type %q", v.Type)
	case UserActor:
		u := uuid.UUID(v.UserID)
		doc.UserID = &u
		doc.Name = v.Name
	case DqtUserActor:
		u := v.DqtUserID
		doc.DqtUserID = &u
		doc.DqtUserName = v.DqtUserName
	}
	return json.Marshal(doc)
}

func unmarshalActor(raw json.RawMessage) (Actor, error) {
	var doc actorDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode raised_by: %w", err)
	}
	switch doc.Type {
	case "user":
		if doc.UserID == nil {
			return nil, fmt.Errorf("raised_by user without user_id")
		}
		return UserActor{UserID: id.UserID(*doc.UserID), Name: doc.Name}, nil
	case "dqt_user":
		if doc.DqtUserID == nil {
			return nil, fmt.Errorf("raised_by dqt_user without dqt_user_id")
		}
		return DqtUserActor{DqtUserID: *doc.DqtUserID, DqtUserName: doc.DqtUserName}, nil
	case "system":
		return SystemActor{}, nil
	case "":
		return nil, fmt.Errorf("raised_by type is required")
	default:
		return UnknownActor{Type: doc.Type, Name: doc.Name}, nil
	}
}
