package events

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trs/internal/history/changes"
	"trs/internal/history/models"
	id "trs/pkg/domain"
	"trs/pkg/platform/sentinel"
)

var testTime = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

func testHeader(personID id.PersonID) Header {
	return Header{
		PersonID:  personID,
		CreatedAt: testTime,
		RaisedBy:  UserActor{UserID: id.UserID(uuid.New()), Name: "Jo Bloggs"},
	}
}

func testAlert() models.Alert {
	return models.Alert{
		AlertID:     uuid.New(),
		AlertTypeID: models.Ptr(uuid.New()),
		Details:     models.Ptr("Some details"),
		StartDate:   models.Ptr(models.NewDate(2024, time.January, 1)),
	}
}

func TestActorRoundTrip(t *testing.T) {
	actors := []Actor{
		UserActor{UserID: id.UserID(uuid.New()), Name: "Jo Bloggs"},
		DqtUserActor{DqtUserID: uuid.New(), DqtUserName: "Legacy User"},
		SystemActor{},
	}
	for _, a := range actors {
		raw, err := marshalActor(a)
		require.NoError(t, err)
		back, err := unmarshalActor(raw)
		require.NoError(t, err)
		assert.Equal(t, a, back)
	}
	assert.Equal(t, "TRS System", SystemActor{}.DisplayName())
}

func TestUnmarshalActorKeepsUnknownType(t *testing.T) {
	a, err := unmarshalActor(json.RawMessage(`{"type":"api_client","name":"Batch loader"}`))
	require.NoError(t, err)
	assert.Equal(t, UnknownActor{Type: "api_client", Name: "Batch loader"}, a)
	assert.Equal(t, "Batch loader", a.DisplayName())

	a, err = unmarshalActor(json.RawMessage(`{"type":"robot"}`))
	require.NoError(t, err)
	assert.Equal(t, "Unknown", a.DisplayName())

	_, err = marshalActor(a)
	assert.Error(t, err, "an undecoded actor is never written back")

	_, err = unmarshalActor(json.RawMessage(`{}`))
	assert.Error(t, err)
}

func TestUnknownActorDoesNotFailTheEvent(t *testing.T) {
	env := NewAlertCreated(Header{PersonID: id.NewPersonID(), CreatedAt: time.Now().UTC(), RaisedBy: SystemActor{}},
		models.Alert{AlertID: uuid.New()}, models.ChangeReasonInfo{})
	doc, err := Marshal(env)
	require.NoError(t, err)
	doc = []byte(strings.Replace(string(doc), `"type":"system"`, `"type":"api_client"`, 1))

	back, err := Unmarshal(doc)
	require.NoError(t, err)
	assert.Equal(t, KindAlertCreated, back.Kind())
	assert.Equal(t, UnknownActorName, back.RaisedBy.DisplayName())
	assert.Error(t, Validate(back))
}

func TestSerializedFormIsStable(t *testing.T) {
	personID := id.NewPersonID()
	old := testAlert()
	updated := old
	updated.EndDate = models.Ptr(models.NewDate(2024, time.June, 1))
	env := NewAlertUpdated(testHeader(personID), old, updated, models.ChangeReasonInfo{Reason: models.Ptr("Closed")})

	first, err := Marshal(env)
	require.NoError(t, err)

	decoded, err := Unmarshal(first)
	require.NoError(t, err)
	second, err := Marshal(decoded)
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, env.EventID, decoded.EventID)
	assert.Equal(t, *env.AggregateKey, old.AlertID)

	p, ok := decoded.Payload.(AlertUpdated)
	require.True(t, ok)
	assert.Equal(t, changes.AlertChangesEndDate, p.Changes)
	assert.Equal(t, "Closed", *p.Reason().Reason)
}

func TestDocumentShape(t *testing.T) {
	env := NewAlertCreated(testHeader(id.NewPersonID()), testAlert(), models.ChangeReasonInfo{})
	b, err := Marshal(env)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &doc))
	for _, key := range []string{"event_id", "kind", "person_id", "related_person_ids", "aggregate_key", "created_at", "raised_by", "payload"} {
		assert.Contains(t, doc, key)
	}
	assert.JSONEq(t, `"AlertCreatedEvent"`, string(doc["kind"]))
}

func TestUnknownKindDecodesToUnknownPayload(t *testing.T) {
	raw := `{
		"event_id": "` + uuid.NewString() + `",
		"kind": "SomethingFromTheFutureEvent",
		"person_id": "` + uuid.NewString() + `",
		"created_at": "2024-03-10T09:30:00Z",
		"raised_by": {"type": "system"},
		"payload": {"x": 1}
	}`
	env, err := Unmarshal([]byte(raw))
	require.NoError(t, err)

	p, ok := env.Payload.(UnknownPayload)
	require.True(t, ok)
	assert.Equal(t, Kind("SomethingFromTheFutureEvent"), env.Kind())
	assert.True(t, errors.Is(p.Err, sentinel.ErrUnknownKind))

	_, err = Marshal(env)
	assert.Error(t, err, "undecoded events are never written back")
}

func TestMalformedPayloadDecodesToUnknownPayload(t *testing.T) {
	raw := `{
		"event_id": "` + uuid.NewString() + `",
		"kind": "AlertCreatedEvent",
		"person_id": "` + uuid.NewString() + `",
		"created_at": "2024-03-10T09:30:00Z",
		"raised_by": {"type": "system"},
		"payload": {"alert": {"start_date": "not a date"}}
	}`
	env, err := Unmarshal([]byte(raw))
	require.NoError(t, err)
	_, ok := env.Payload.(UnknownPayload)
	assert.True(t, ok)
}

func TestOlderDocumentsWithoutNewFieldsStillDecode(t *testing.T) {
	raw := `{
		"event_id": "` + uuid.NewString() + `",
		"kind": "AlertDqtImportedEvent",
		"person_id": "` + uuid.NewString() + `",
		"created_at": "2019-11-05T14:00:00Z",
		"raised_by": {"type": "dqt_user", "dqt_user_id": "` + uuid.NewString() + `", "dqt_user_name": "Old CRM"},
		"payload": {"alert": {"alert_id": "` + uuid.NewString() + `", "dqt_sanction_code": {"value": "G1", "name": "Conviction"}}}
	}`
	env, err := Unmarshal([]byte(raw))
	require.NoError(t, err)
	p, ok := env.Payload.(AlertDqtImported)
	require.True(t, ok)
	assert.Nil(t, p.Alert.AlertTypeID)
	assert.Nil(t, env.RelatedPersonIDs)
	assert.Equal(t, "Old CRM", env.RaisedBy.DisplayName())
}

func TestRegistry(t *testing.T) {
	assert.Len(t, DefaultRegistry.Kinds(), 25)
	assert.True(t, DefaultRegistry.Known(KindPersonsMerged))
	assert.False(t, DefaultRegistry.Known("Nope"))

	r := NewRegistry()
	Register[AlertCreated](r)
	assert.Panics(t, func() { Register[AlertCreated](r) })
}

func TestValidate(t *testing.T) {
	personID := id.NewPersonID()
	old := testAlert()
	updated := old
	updated.Details = models.Ptr("new")

	env := NewAlertUpdated(testHeader(personID), old, updated, models.ChangeReasonInfo{})
	require.NoError(t, Validate(env))

	tampered := env
	p := env.Payload.(AlertUpdated)
	p.Changes |= changes.AlertChangesEndDate
	tampered.Payload = p

	err := Validate(tampered)
	var mismatch *ChangeSetMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "Details|EndDate", mismatch.Stored.String())
	assert.Equal(t, "Details", mismatch.Computed.String())

	missing := env
	missing.RaisedBy = nil
	assert.Error(t, Validate(missing))
}

func TestMergeIsRelatedToBothPersons(t *testing.T) {
	primary := models.PersonSummary{PersonID: id.NewPersonID(), TRN: "1234567", FirstName: "Ada"}
	secondary := models.PersonSummary{PersonID: id.NewPersonID(), TRN: "7654321", FirstName: "Ada"}
	oldDetails := models.PersonDetails{FirstName: "Ada", LastName: "Byron"}
	details := models.PersonDetails{FirstName: "Ada", LastName: "Lovelace"}

	env := NewPersonsMerged(Header{CreatedAt: testTime, RaisedBy: SystemActor{}},
		primary, secondary, oldDetails, details, details, nil, models.ChangeReasonInfo{})

	require.NoError(t, Validate(env))
	assert.Equal(t, primary.PersonID, env.PersonID)
	assert.True(t, env.Concerns(primary.PersonID))
	assert.True(t, env.Concerns(secondary.PersonID))
	assert.Equal(t, []id.PersonID{primary.PersonID, secondary.PersonID}, env.Persons())
	assert.Equal(t, changes.PersonDetailsChangesLastName, env.Payload.(PersonsMerged).Changes)
}

func TestValidateSequence(t *testing.T) {
	personID := id.NewPersonID()
	alert := testAlert()
	at := func(h Header, d time.Duration) Header {
		h.CreatedAt = testTime.Add(d)
		return h
	}
	h := testHeader(personID)

	good := []Envelope{
		NewAlertCreated(at(h, 0), alert, models.ChangeReasonInfo{}),
		NewAlertDeleted(at(h, time.Hour), alert, models.ChangeReasonInfo{}),
		NewAlertDqtReactivated(at(h, 2*time.Hour), alert),
	}
	assert.NoError(t, ValidateSequence(good))

	bad := []Envelope{
		NewAlertCreated(at(h, 0), alert, models.ChangeReasonInfo{}),
		NewAlertCreated(at(h, time.Hour), alert, models.ChangeReasonInfo{}),
	}
	var seqErr *SequenceError
	require.ErrorAs(t, ValidateSequence(bad), &seqErr)
	assert.Equal(t, alert.AlertID, seqErr.AggregateKey)
}

func TestValidateSequenceUsesSequenceForTies(t *testing.T) {
	alert := testAlert()
	h := testHeader(id.NewPersonID())

	created := NewAlertCreated(h, alert, models.ChangeReasonInfo{})
	created.Sequence = 1
	deleted := NewAlertDeleted(h, alert, models.ChangeReasonInfo{})
	deleted.Sequence = 2
	recreated := NewAlertCreated(h, alert, models.ChangeReasonInfo{})
	recreated.Sequence = 3

	assert.NoError(t, ValidateSequence([]Envelope{recreated, deleted, created}))
}
