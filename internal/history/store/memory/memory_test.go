package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"trs/internal/history/events"
	"trs/internal/history/models"
	id "trs/pkg/domain"
	"trs/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store    *Store
	ctx      context.Context
	personID id.PersonID
	start    time.Time
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
	s.personID = id.NewPersonID()
	s.start = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
}

func (s *MemoryStoreSuite) alertCreated(offset time.Duration) events.Envelope {
	return events.NewAlertCreated(events.Header{
		PersonID:  s.personID,
		CreatedAt: s.start.Add(offset),
		RaisedBy:  events.SystemActor{},
	}, models.Alert{AlertID: uuid.New(), Details: models.Ptr("d")}, models.ChangeReasonInfo{})
}

func (s *MemoryStoreSuite) TestAppendAndLoadInChronologicalOrder() {
	later := s.alertCreated(time.Hour)
	earlier := s.alertCreated(0)
	s.Require().NoError(s.store.Append(s.ctx, later))
	s.Require().NoError(s.store.Append(s.ctx, earlier))

	loaded, err := s.store.LoadAllForPerson(s.ctx, s.personID)
	s.Require().NoError(err)
	s.Require().Len(loaded, 2)
	s.Equal(earlier.EventID, loaded[0].EventID)
	s.Equal(int64(2), loaded[0].Sequence)
	s.Equal(later.EventID, loaded[1].EventID)
}

func (s *MemoryStoreSuite) TestTiesBrokenByInsertionOrder() {
	first := s.alertCreated(0)
	second := s.alertCreated(0)
	s.Require().NoError(s.store.Append(s.ctx, first))
	s.Require().NoError(s.store.Append(s.ctx, second))

	loaded, err := s.store.LoadAllForPerson(s.ctx, s.personID)
	s.Require().NoError(err)
	s.Equal(first.EventID, loaded[0].EventID)
	s.Equal(second.EventID, loaded[1].EventID)
}

func (s *MemoryStoreSuite) TestDuplicateEventIDConflicts() {
	env := s.alertCreated(0)
	s.Require().NoError(s.store.Append(s.ctx, env))
	err := s.store.Append(s.ctx, env)
	s.True(errors.Is(err, sentinel.ErrConflict))
	s.Equal(1, s.store.Len())
}

func (s *MemoryStoreSuite) TestSerializedFormNeverChanges() {
	env := s.alertCreated(0)
	s.Require().NoError(s.store.Append(s.ctx, env))
	before, ok := s.store.Document(env.EventID)
	s.Require().True(ok)

	for range 3 {
		_, err := s.store.LoadAllForPerson(s.ctx, s.personID)
		s.Require().NoError(err)
		s.Require().NoError(s.store.Append(s.ctx, s.alertCreated(time.Minute)))
	}

	after, _ := s.store.Document(env.EventID)
	s.Equal(before, after)
}

func (s *MemoryStoreSuite) TestRunInTxRollsBackOnError() {
	boom := errors.New("entity write failed")
	err := s.store.RunInTx(s.ctx, func(ctx context.Context) error {
		s.Require().NoError(s.store.Append(ctx, s.alertCreated(0)))
		return boom
	})
	s.ErrorIs(err, boom)
	s.Zero(s.store.Len())

	loaded, err := s.store.LoadAllForPerson(s.ctx, s.personID)
	s.Require().NoError(err)
	s.Empty(loaded)
}

func (s *MemoryStoreSuite) TestRunInTxCommitsAtomically() {
	err := s.store.RunInTx(s.ctx, func(ctx context.Context) error {
		s.Require().NoError(s.store.Append(ctx, s.alertCreated(0)))
		s.Require().NoError(s.store.Append(ctx, s.alertCreated(time.Second)))
		s.Zero(s.store.Len(), "staged appends are not visible before commit")
		return nil
	})
	s.Require().NoError(err)
	s.Equal(2, s.store.Len())
}

func (s *MemoryStoreSuite) TestMergeAppearsForBothPersons() {
	secondary := id.NewPersonID()
	env := events.NewPersonsMerged(
		events.Header{CreatedAt: s.start, RaisedBy: events.SystemActor{}},
		models.PersonSummary{PersonID: s.personID, TRN: "1111111"},
		models.PersonSummary{PersonID: secondary, TRN: "2222222"},
		models.PersonDetails{}, models.PersonDetails{}, models.PersonDetails{}, nil, models.ChangeReasonInfo{},
	)
	s.Require().NoError(s.store.Append(s.ctx, env))

	for _, p := range []id.PersonID{s.personID, secondary} {
		loaded, err := s.store.LoadAllForPerson(s.ctx, p)
		s.Require().NoError(err)
		s.Require().Len(loaded, 1)
		s.Equal(env.EventID, loaded[0].EventID)
	}
}

func TestConcurrentAppendsForDifferentPersons(t *testing.T) {
	store := New()
	ctx := context.Background()
	persons := make([]id.PersonID, 20)
	for i := range persons {
		persons[i] = id.NewPersonID()
	}

	var wg sync.WaitGroup
	for _, p := range persons {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				env := events.NewAlertCreated(events.Header{PersonID: p, CreatedAt: time.Now(), RaisedBy: events.SystemActor{}},
					models.Alert{AlertID: uuid.New()}, models.ChangeReasonInfo{})
				assert.NoError(t, store.Append(ctx, env))
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 200, store.Len())
	loaded, err := store.LoadAllForPerson(ctx, persons[0])
	require.NoError(t, err)
	assert.Len(t, loaded, 10)
}
