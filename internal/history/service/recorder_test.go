package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trs/internal/history/events"
	"trs/internal/history/metrics"
	"trs/internal/history/models"
	"trs/internal/history/store/memory"
	personmodels "trs/internal/person/models"
	personstore "trs/internal/person/store"
	id "trs/pkg/domain"
	dErrors "trs/pkg/domain-errors"
	"trs/pkg/platform/clock"
)

func newRecorder(t *testing.T) (*Recorder, *memory.Store, *metrics.Metrics, *clock.Manual) {
	t.Helper()
	store := memory.New()
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	clk := clock.NewManual(time.Date(2024, time.July, 1, 8, 0, 0, 0, time.UTC))
	return NewRecorder(store, WithClock(clk), WithRecorderMetrics(m)), store, m, clk
}

func systemHeader(personID id.PersonID) events.Header {
	return events.Header{PersonID: personID, RaisedBy: events.SystemActor{}}
}

func TestRecordStampsCreatedAtFromClock(t *testing.T) {
	rec, store, m, clk := newRecorder(t)
	personID := id.NewPersonID()

	stored, err := rec.Record(context.Background(), events.NewAlertCreated(systemHeader(personID), models.Alert{AlertID: uuid.New()}, models.ChangeReasonInfo{}))
	require.NoError(t, err)
	assert.Equal(t, clk.Now(), stored.CreatedAt)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.EventsAppended.WithLabelValues(string(events.KindAlertCreated))))
}

func TestRecordRejectsInvalidEnvelope(t *testing.T) {
	rec, store, m, _ := newRecorder(t)

	tests := []struct {
		name string
		env  events.Envelope
	}{
		{
			name: "missing person",
			env:  events.NewAlertCreated(events.Header{RaisedBy: events.SystemActor{}}, models.Alert{AlertID: uuid.New()}, models.ChangeReasonInfo{}),
		},
		{
			name: "missing actor",
			env:  events.NewAlertCreated(events.Header{PersonID: id.NewPersonID()}, models.Alert{AlertID: uuid.New()}, models.ChangeReasonInfo{}),
		},
		{
			name: "tampered change set",
			env: func() events.Envelope {
				old := models.Alert{AlertID: uuid.New(), Details: models.Ptr("a")}
				updated := old
				updated.Details = models.Ptr("b")
				env := events.NewAlertUpdated(systemHeader(id.NewPersonID()), old, updated, models.ChangeReasonInfo{})
				p := env.Payload.(events.AlertUpdated)
				p.Changes = 0
				env.Payload = p
				return env
			}(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rec.Record(context.Background(), tt.env)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "got %v", err)
		})
	}
	assert.Zero(t, store.Len())
	assert.Equal(t, 3.0, promtestutil.ToFloat64(m.AppendFailures))
}

func TestRecordDuplicateIsConflict(t *testing.T) {
	rec, _, _, _ := newRecorder(t)
	env := events.NewAlertCreated(systemHeader(id.NewPersonID()), models.Alert{AlertID: uuid.New()}, models.ChangeReasonInfo{})

	_, err := rec.Record(context.Background(), env)
	require.NoError(t, err)
	_, err = rec.Record(context.Background(), env)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestRecordRejectsSecondCreateForLiveAggregate(t *testing.T) {
	rec, _, _, clk := newRecorder(t)
	ctx := context.Background()
	personID := id.NewPersonID()
	alert := models.Alert{AlertID: uuid.New()}

	_, err := rec.Record(ctx, events.NewAlertCreated(systemHeader(personID), alert, models.ChangeReasonInfo{}))
	require.NoError(t, err)
	clk.Advance(time.Minute)
	_, err = rec.Record(ctx, events.NewAlertCreated(systemHeader(personID), alert, models.ChangeReasonInfo{}))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = rec.Record(ctx, events.NewAlertDeleted(systemHeader(personID), alert, models.ChangeReasonInfo{}))
	require.NoError(t, err)
	_, err = rec.Record(ctx, events.NewAlertDqtReactivated(systemHeader(personID), alert))
	assert.NoError(t, err, "same-instant create after delete is allowed")
}

func TestRecordIgnoresAnomaliesOnOtherAggregates(t *testing.T) {
	rec, store, _, clk := newRecorder(t)
	ctx := context.Background()
	personID := id.NewPersonID()
	broken := models.Alert{AlertID: uuid.New()}

	imported := events.NewAlertDqtImported(systemHeader(personID), broken)
	imported.CreatedAt = clk.Now()
	require.NoError(t, store.Append(ctx, imported))
	duplicate := events.NewAlertCreated(systemHeader(personID), broken, models.ChangeReasonInfo{})
	duplicate.CreatedAt = clk.Now().Add(time.Second)
	require.NoError(t, store.Append(ctx, duplicate))
	clk.Advance(time.Minute)

	_, err := rec.Record(ctx, events.NewAlertCreated(systemHeader(personID), models.Alert{AlertID: uuid.New()}, models.ChangeReasonInfo{}))
	assert.NoError(t, err)

	_, err = rec.Record(ctx, events.NewAlertCreated(systemHeader(personID), broken, models.ChangeReasonInfo{}))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestRunInTxDiscardsEventsWhenActionFails(t *testing.T) {
	rec, store, _, _ := newRecorder(t)
	people := personstore.NewInMemory()
	ctx := context.Background()
	p := &personmodels.Person{ID: id.NewPersonID(), TRN: "1234567", FirstName: "Ada", LastName: "Lovelace"}
	boom := errors.New("downstream write failed")

	err := rec.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := rec.Record(ctx, events.NewPersonCreated(systemHeader(p.ID), p.Summary(),
			models.PersonDetails{FirstName: p.FirstName, LastName: p.LastName}, models.ChangeReasonInfo{})); err != nil {
			return err
		}
		if err := people.Save(ctx, p); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Zero(t, store.Len())

	err = rec.RunInTx(ctx, func(ctx context.Context) error {
		_, err := rec.Record(ctx, events.NewPersonCreated(systemHeader(p.ID), p.Summary(),
			models.PersonDetails{FirstName: p.FirstName, LastName: p.LastName}, models.ChangeReasonInfo{}))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}
