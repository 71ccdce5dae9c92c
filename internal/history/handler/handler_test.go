package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"trs/internal/history/events"
	"trs/internal/history/handler/mocks"
	"trs/internal/history/models"
	"trs/internal/history/service"
	"trs/internal/history/timeline"
	"trs/internal/history/visibility"
	personmodels "trs/internal/person/models"
	id "trs/pkg/domain"
	dErrors "trs/pkg/domain-errors"
	"trs/pkg/platform/audit"
	"trs/pkg/platform/audit/publisher"
	auditmemory "trs/pkg/platform/audit/store/memory"
	"trs/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	logger   *slog.Logger
	userID   string
	personID id.PersonID
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupSuite() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.userID = uuid.NewString()
	s.personID = id.NewPersonID()
}

func (s *HandlerSuite) newHandler(t *testing.T, opts ...Option) (*mocks.MockService, chi.Router) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	r := chi.NewRouter()
	New(svc, s.logger, opts...).Register(r)
	return svc, r
}

func (s *HandlerSuite) path(personID string) string {
	return "/persons/" + personID + "/change-history"
}

func (s *HandlerSuite) history() *service.ChangeHistory {
	occurred := time.Date(2024, time.June, 3, 13, 30, 0, 0, time.UTC)
	return &service.ChangeHistory{
		Person: &personmodels.Person{ID: s.personID, TRN: "1234567", FirstName: "Ada", LastName: "Lovelace"},
		Items: []timeline.Item{{
			EventID:    id.NewEventID(),
			Kind:       events.KindAlertUpdated,
			OccurredAt: occurred,
			Heading:    "Alert closed",
			RaisedBy:   "Jo Bloggs",
			Timestamp:  "3 June 2024 at 2:30pm",
			Fields: []timeline.Field{
				{Label: "End date", Value: "3 June 2024", Previous: models.Ptr("None")},
			},
			Reason:   models.Ptr("Another reason"),
			Evidence: &models.File{FileID: uuid.New(), Name: "evidence.pdf"},
		}},
		HasHiddenOpenAlerts: true,
	}
}

func (s *HandlerSuite) TestGetChangeHistory() {
	s.T().Run("returns 200 with rendered items", func(t *testing.T) {
		svc, router := s.newHandler(t)
		expected := s.history()
		svc.EXPECT().GetChangeHistory(gomock.Any(), s.personID, gomock.Any()).Return(expected, nil)

		req := testutil.WithAuth(testutil.NewRequest(t, http.MethodGet, s.path(s.personID.String())), s.userID, "Jo", visibility.RoleViewer)
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusOK(t, rr)
		got := testutil.UnmarshalResponse[ChangeHistoryResponse](t, rr)
		assert.Equal(t, "1234567", got.TRN)
		assert.Equal(t, "Ada Lovelace", got.Name)
		assert.True(t, got.HasHiddenOpenAlerts)
		require.Len(t, got.Items, 1)
		item := got.Items[0]
		assert.Equal(t, "Alert closed", item.Heading)
		assert.Equal(t, "3 June 2024 at 2:30pm", item.Timestamp)
		assert.Equal(t, "AlertUpdatedEvent", item.Kind)
		require.Len(t, item.Fields, 1)
		assert.Equal(t, "None", *item.Fields[0].Previous)
		require.NotNil(t, item.Evidence)
		assert.Equal(t, "evidence.pdf", item.Evidence.Name)
		assert.Empty(t, item.Evidence.URL)
	})

	s.T().Run("passes capabilities derived from roles", func(t *testing.T) {
		svc, router := s.newHandler(t)
		svc.EXPECT().GetChangeHistory(gomock.Any(), s.personID, gomock.Any()).
			DoAndReturn(func(_ any, _ id.PersonID, caps visibility.Capabilities) (*service.ChangeHistory, error) {
				assert.True(t, caps.Has(visibility.CapabilityAlertsViewDbs))
				return s.history(), nil
			})

		req := testutil.WithAuth(testutil.NewRequest(t, http.MethodGet, s.path(s.personID.String())), s.userID, "Jo", visibility.RoleAlertsManagerTraDbs)
		testutil.AssertStatusOK(t, testutil.DoRequest(router, req))
	})

	s.T().Run("returns 400 when person id is malformed", func(t *testing.T) {
		svc, router := s.newHandler(t)
		svc.EXPECT().GetChangeHistory(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		req := testutil.WithAuth(testutil.NewRequest(t, http.MethodGet, s.path("not-a-uuid")), s.userID, "Jo", visibility.RoleViewer)
		testutil.AssertStatusAndError(t, testutil.DoRequest(router, req), http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	s.T().Run("returns 401 without an authenticated user", func(t *testing.T) {
		svc, router := s.newHandler(t)
		svc.EXPECT().GetChangeHistory(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		req := testutil.NewRequest(t, http.MethodGet, s.path(s.personID.String()))
		testutil.AssertStatusAndError(t, testutil.DoRequest(router, req), http.StatusUnauthorized, string(dErrors.CodeUnauthorized))
	})

	s.T().Run("returns 403 without record view", func(t *testing.T) {
		svc, router := s.newHandler(t)
		svc.EXPECT().GetChangeHistory(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		req := testutil.WithAuth(testutil.NewRequest(t, http.MethodGet, s.path(s.personID.String())), s.userID, "Jo", "Unknown")
		testutil.AssertStatusAndError(t, testutil.DoRequest(router, req), http.StatusForbidden, string(dErrors.CodeForbidden))
	})

	s.T().Run("returns 404 when person is unknown", func(t *testing.T) {
		svc, router := s.newHandler(t)
		svc.EXPECT().GetChangeHistory(gomock.Any(), s.personID, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "person not found"))

		req := testutil.WithAuth(testutil.NewRequest(t, http.MethodGet, s.path(s.personID.String())), s.userID, "Jo", visibility.RoleViewer)
		testutil.AssertStatusAndError(t, testutil.DoRequest(router, req), http.StatusNotFound, string(dErrors.CodeNotFound))
	})

	s.T().Run("returns 500 without description on store failure", func(t *testing.T) {
		svc, router := s.newHandler(t)
		svc.EXPECT().GetChangeHistory(gomock.Any(), s.personID, gomock.Any()).
			Return(nil, dErrors.Wrap(errors.New("connection reset"), dErrors.CodeInternal, "failed to load change history"))

		req := testutil.WithAuth(testutil.NewRequest(t, http.MethodGet, s.path(s.personID.String())), s.userID, "Jo", visibility.RoleViewer)
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusInternalServerError)
		body := testutil.UnmarshalErrorResponse(t, rr)
		assert.Equal(t, string(dErrors.CodeInternal), body["error"])
		assert.NotContains(t, body, "error_description")
	})
}

func (s *HandlerSuite) TestEvidenceLinks() {
	s.T().Run("adds download url when linker resolves", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		files := mocks.NewMockFileLinker(ctrl)
		svc, router := s.newHandler(t, WithFileLinker(files))
		expected := s.history()
		fileID := expected.Items[0].Evidence.FileID
		svc.EXPECT().GetChangeHistory(gomock.Any(), s.personID, gomock.Any()).Return(expected, nil)
		files.EXPECT().FileURL(gomock.Any(), fileID).Return("https://files.example/"+fileID.String(), nil)

		req := testutil.WithAuth(testutil.NewRequest(t, http.MethodGet, s.path(s.personID.String())), s.userID, "Jo", visibility.RoleViewer)
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusOK(t, rr)
		got := testutil.UnmarshalResponse[ChangeHistoryResponse](t, rr)
		assert.Equal(t, "https://files.example/"+fileID.String(), got.Items[0].Evidence.URL)
	})

	s.T().Run("omits url when linker fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		files := mocks.NewMockFileLinker(ctrl)
		svc, router := s.newHandler(t, WithFileLinker(files))
		svc.EXPECT().GetChangeHistory(gomock.Any(), s.personID, gomock.Any()).Return(s.history(), nil)
		files.EXPECT().FileURL(gomock.Any(), gomock.Any()).Return("", errors.New("storage offline"))

		req := testutil.WithAuth(testutil.NewRequest(t, http.MethodGet, s.path(s.personID.String())), s.userID, "Jo", visibility.RoleViewer)
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusOK(t, rr)
		got := testutil.UnmarshalResponse[ChangeHistoryResponse](t, rr)
		assert.Empty(t, got.Items[0].Evidence.URL)
	})
}

func (s *HandlerSuite) TestAccessAudit() {
	s.T().Run("records a view with item counts", func(t *testing.T) {
		store := auditmemory.New()
		svc, router := s.newHandler(t, WithAuditor(publisher.NewPublisher(store)))
		history := s.history()
		history.Hidden = 2
		svc.EXPECT().GetChangeHistory(gomock.Any(), s.personID, gomock.Any()).Return(history, nil)

		req := testutil.WithAuth(testutil.NewRequest(t, http.MethodGet, s.path(s.personID.String())), s.userID, "Jo", visibility.RoleViewer)
		testutil.AssertStatusOK(t, testutil.DoRequest(router, req))

		events, err := store.ListByPerson(context.Background(), s.personID, 0)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.ActionChangeHistoryViewed, events[0].Action)
		assert.Equal(t, s.userID, events[0].UserID.String())
		assert.Equal(t, "Jo", events[0].UserName)
		assert.Equal(t, 1, events[0].ItemsShown)
		assert.Equal(t, 2, events[0].ItemsHidden)
	})

	s.T().Run("records a denied view", func(t *testing.T) {
		store := auditmemory.New()
		_, router := s.newHandler(t, WithAuditor(publisher.NewPublisher(store)))

		req := testutil.WithAuth(testutil.NewRequest(t, http.MethodGet, s.path(s.personID.String())), s.userID, "Jo", "Unknown")
		testutil.AssertStatus(t, testutil.DoRequest(router, req), http.StatusForbidden)

		events, err := store.ListByPerson(context.Background(), s.personID, 0)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.ActionChangeHistoryDenied, events[0].Action)
		assert.Equal(t, audit.CategorySecurity, events[0].Category())
	})

	s.T().Run("failed lookups are not recorded", func(t *testing.T) {
		store := auditmemory.New()
		svc, router := s.newHandler(t, WithAuditor(publisher.NewPublisher(store)))
		svc.EXPECT().GetChangeHistory(gomock.Any(), s.personID, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "person not found"))

		req := testutil.WithAuth(testutil.NewRequest(t, http.MethodGet, s.path(s.personID.String())), s.userID, "Jo", visibility.RoleViewer)
		testutil.AssertStatus(t, testutil.DoRequest(router, req), http.StatusNotFound)
		assert.Zero(t, store.Len())
	})
}

func TestAccessLog(t *testing.T) {
	store := auditmemory.New()
	pub := publisher.NewPublisher(store)
	personID := id.NewPersonID()
	at := time.Date(2024, time.June, 3, 8, 0, 0, 0, time.UTC)
	for i := range 3 {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{
			Action:    audit.ActionChangeHistoryViewed,
			PersonID:  personID,
			UserName:  "Jo Bloggs",
			Timestamp: at.Add(time.Duration(i) * time.Hour),
		}))
	}
	r := chi.NewRouter()
	NewAccessLog(pub).Register(r)

	t.Run("lists newest first", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/persons/"+personID.String()+"/access-log?limit=2"))
		testutil.AssertStatusOK(t, rr)
		got := testutil.UnmarshalResponse[AccessLogResponse](t, rr)
		require.Len(t, got.Entries, 2)
		assert.Equal(t, at.Add(2*time.Hour), got.Entries[0].OccurredAt)
		assert.Equal(t, "compliance", got.Entries[0].Category)
		assert.Empty(t, got.Entries[0].UserID)
		testutil.AssertJSONKeys(t, rr, "person_id", "entries")
		for _, e := range got.Entries {
			_, err := uuid.Parse(e.ID)
			assert.NoError(t, err, "entry id %q", e.ID)
		}
		assert.NotEqual(t, got.Entries[0].ID, got.Entries[1].ID)
	})

	t.Run("rejects bad limits", func(t *testing.T) {
		for _, limit := range []string{"0", "-1", "abc", "501"} {
			rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/persons/"+personID.String()+"/access-log?limit="+limit))
			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
		}
	})

	t.Run("rejects bad person id", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/persons/nope/access-log"))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("empty log is an empty array", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/persons/"+id.NewPersonID().String()+"/access-log"))
		testutil.AssertStatusOK(t, rr)
		got := testutil.UnmarshalResponse[AccessLogResponse](t, rr)
		assert.NotNil(t, got.Entries)
		assert.Empty(t, got.Entries)
	})
}

func TestFromChangeHistoryEmptyItemsIsArray(t *testing.T) {
	resp := FromChangeHistory(&service.ChangeHistory{})
	assert.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)
}
