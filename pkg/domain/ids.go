package domain

import (
	"regexp"

	"github.com/google/uuid"

	dErrors "trs/pkg/domain-errors"
)

// Typed identifiers. Each wraps a UUID so a PersonID can never be passed where
// an EventID is expected.
type (
	PersonID uuid.UUID
	EventID  uuid.UUID
	UserID   uuid.UUID
)

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > 64 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return u, nil
}

// ParsePersonID validates external input at trust boundaries.
func ParsePersonID(s string) (PersonID, error) {
	u, err := parseUUID(s, "person id")
	return PersonID(u), err
}

func ParseEventID(s string) (EventID, error) {
	u, err := parseUUID(s, "event id")
	return EventID(u), err
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

func NewPersonID() PersonID { return PersonID(uuid.New()) }

// NewEventID returns a time-ordered identifier; falls back to a random one.
func NewEventID() EventID {
	if u, err := uuid.NewV7(); err == nil {
		return EventID(u)
	}
	return EventID(uuid.New())
}

func (id PersonID) String() string { return uuid.UUID(id).String() }
func (id PersonID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id EventID) String() string  { return uuid.UUID(id).String() }
func (id EventID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id UserID) String() string   { return uuid.UUID(id).String() }
func (id UserID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }

func (id PersonID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id EventID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id UserID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }

func (id *PersonID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *EventID) UnmarshalText(b []byte) error  { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *UserID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(id).UnmarshalText(b) }

// TRN is the seven digit Teacher Reference Number.
type TRN string

var trnPattern = regexp.MustCompile(`^\d{7}$`)

// ParseTRN validates a TRN.
func ParseTRN(s string) (TRN, error) {
	if !trnPattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid trn")
	}
	return TRN(s), nil
}

func (t TRN) String() string { return string(t) }
