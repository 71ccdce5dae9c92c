package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trs/internal/history/events"
	"trs/internal/history/models"
	id "trs/pkg/domain"
)

func TestVerifyHealthyHistory(t *testing.T) {
	personID := id.NewPersonID()
	at := time.Date(2024, time.April, 2, 10, 0, 0, 0, time.UTC)
	h := func(offset time.Duration) events.Header {
		return events.Header{PersonID: personID, CreatedAt: at.Add(offset), RaisedBy: events.SystemActor{}}
	}
	induction := models.Induction{InductionID: uuid.New(), Status: models.InductionStatusInProgress}
	passed := induction
	passed.Status = models.InductionStatusPassed

	envs := []events.Envelope{
		events.NewInductionCreated(h(0), induction, models.ChangeReasonInfo{}),
		events.NewInductionUpdated(h(time.Hour), induction, passed, models.ChangeReasonInfo{}),
	}
	assert.Empty(t, Verify(envs))
}

func TestVerifyReportsProblems(t *testing.T) {
	personID := id.NewPersonID()
	at := time.Date(2024, time.April, 2, 10, 0, 0, 0, time.UTC)
	h := func(offset time.Duration) events.Header {
		return events.Header{PersonID: personID, CreatedAt: at.Add(offset), RaisedBy: events.SystemActor{}}
	}
	alert := models.Alert{AlertID: uuid.New(), Details: models.Ptr("a")}
	edited := alert
	edited.Details = models.Ptr("b")

	tampered := events.NewAlertUpdated(h(time.Hour), alert, edited, models.ChangeReasonInfo{})
	p := tampered.Payload.(events.AlertUpdated)
	p.Changes = 0
	tampered.Payload = p

	doubleCreate := events.NewAlertCreated(h(2*time.Hour), alert, models.ChangeReasonInfo{})
	unknown := events.Envelope{
		EventID:   id.NewEventID(),
		PersonID:  personID,
		CreatedAt: at,
		RaisedBy:  events.SystemActor{},
		Payload:   events.UnknownPayload{RawKind: "FutureEvent", Err: errors.New("unknown event kind")},
	}

	findings := Verify([]events.Envelope{
		events.NewAlertCreated(h(0), alert, models.ChangeReasonInfo{}),
		tampered,
		doubleCreate,
		unknown,
	})
	require.Len(t, findings, 3)

	var mismatch *events.ChangeSetMismatchError
	assert.ErrorAs(t, findings[0].Err, &mismatch)
	assert.Equal(t, tampered.EventID, findings[0].EventID)
	assert.Equal(t, unknown.EventID, findings[1].EventID)
	assert.Equal(t, doubleCreate.EventID, findings[2].EventID)
	assert.Contains(t, findings[2].String(), "without an intervening deletion")
}

func TestVerifyReportsUndecodedActor(t *testing.T) {
	env := events.NewAlertCreated(
		events.Header{PersonID: id.NewPersonID(), CreatedAt: time.Date(2024, time.April, 2, 10, 0, 0, 0, time.UTC), RaisedBy: events.UnknownActor{Type: "api_client"}},
		models.Alert{AlertID: uuid.New()}, models.ChangeReasonInfo{})

	findings := Verify([]events.Envelope{env})
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].String(), `raised by type "api_client" was not decoded`)
}
