package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trs/internal/history/events"
	"trs/internal/history/handler"
	"trs/internal/history/legacy"
	historymetrics "trs/internal/history/metrics"
	"trs/internal/history/models"
	"trs/internal/history/service"
	"trs/internal/history/store/memory"
	"trs/internal/history/timeline"
	"trs/internal/history/visibility"
	jwttoken "trs/internal/jwt_token"
	personmodels "trs/internal/person/models"
	personstore "trs/internal/person/store"
	"trs/internal/platform/config"
	"trs/internal/platform/metrics"
	ratelimitmw "trs/internal/ratelimit/middleware"
	ratelimitmodels "trs/internal/ratelimit/models"
	"trs/internal/ratelimit/store/bucket"
	domain "trs/pkg/domain"
	"trs/pkg/platform/audit/publisher"
	auditmemory "trs/pkg/platform/audit/store/memory"
	"trs/pkg/platform/middleware/admin"
	"trs/pkg/testutil"
)

type fixture struct {
	router  http.Handler
	jwt     *jwttoken.JWTService
	person  *personmodels.Person
	history *handler.Handler
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ref, err := legacy.Default()
	require.NoError(t, err)

	eventStore := memory.New()
	people := personstore.NewInMemory()
	p := &personmodels.Person{ID: domain.NewPersonID(), TRN: "1234567", FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, people.Save(ctx, p))

	reg := prometheus.NewRegistry()
	hm := historymetrics.NewWithRegisterer(reg)
	rec := service.NewRecorder(eventStore, service.WithRecorderMetrics(hm))
	_, err = rec.Record(ctx, personCreated(p))
	require.NoError(t, err)

	svc := service.New(eventStore, people, timeline.NewBuilder(ref, timeline.WithMetrics(hm)), ref, service.WithMetrics(hm))
	jwtService := jwttoken.NewJWTService("test-key", "trs", tokenAudience)
	cfg := config.Server{AdminToken: "metrics-secret"}
	access := publisher.NewPublisher(auditmemory.New())
	history := handler.New(svc, log, handler.WithAuditor(access))
	router := newRouter(cfg, log, metrics.NewWithRegisterer(reg), jwttoken.NewJWTServiceAdapter(jwtService), routes{
		history:   history,
		accessLog: handler.NewAccessLog(access),
	})
	return fixture{router: router, jwt: jwtService, person: p, history: history}
}

func (f fixture) token(t *testing.T, roles ...string) string {
	t.Helper()
	tok, err := f.jwt.GenerateAccessToken(uuid.New(), "Jo Bloggs", roles, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/health"))
	testutil.AssertStatusOK(t, rr)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestMetricsRequiresAdminToken(t *testing.T) {
	f := newFixture(t)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	req := testutil.NewRequest(t, http.MethodGet, "/metrics")
	req.Header.Set(admin.HeaderToken, "metrics-secret")
	testutil.AssertStatusOK(t, testutil.DoRequest(f.router, req))
}

func TestChangeHistoryEndToEnd(t *testing.T) {
	f := newFixture(t)
	path := "/persons/" + f.person.ID.String() + "/change-history"

	testutil.Given(t, "no bearer token", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, path))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	testutil.Given(t, "a viewer token", func(t *testing.T) {
		token := f.token(t, visibility.RoleViewer)

		testutil.When(t, "the history is requested", func(t *testing.T) {
			rr := testutil.DoRequest(f.router, testutil.NewBearerRequest(t, http.MethodGet, path, token))

			testutil.Then(t, "the record creation is listed", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				testutil.AssertJSONKeys(t, rr, "person_id", "trn", "name", "has_hidden_open_alerts", "items")
				resp := testutil.UnmarshalResponse[handler.ChangeHistoryResponse](t, rr)
				assert.Equal(t, "1234567", resp.TRN)
				require.Len(t, resp.Items, 1)
				assert.Equal(t, "Record created", resp.Items[0].Heading)
				assert.Equal(t, "TRS System", resp.Items[0].RaisedBy)
			})
		})

		testutil.When(t, "an unknown person is requested", func(t *testing.T) {
			unknown := "/persons/" + domain.NewPersonID().String() + "/change-history"
			rr := testutil.DoRequest(f.router, testutil.NewBearerRequest(t, http.MethodGet, unknown, token))

			testutil.Then(t, "it is not found", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
			})
		})
	})

	testutil.Given(t, "a token without any known role", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewBearerRequest(t, http.MethodGet, path, f.token(t, "Guest")))
		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
	})
}

func TestAccessLogRecordsViews(t *testing.T) {
	f := newFixture(t)
	historyPath := "/persons/" + f.person.ID.String() + "/change-history"
	logPath := "/admin/persons/" + f.person.ID.String() + "/access-log"

	for _, role := range []string{visibility.RoleViewer, "Guest"} {
		testutil.DoRequest(f.router, testutil.NewBearerRequest(t, http.MethodGet, historyPath, f.token(t, role)))
	}

	testutil.AssertStatus(t, testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, logPath)), http.StatusUnauthorized)

	req := testutil.NewRequest(t, http.MethodGet, logPath)
	req.Header.Set(admin.HeaderToken, "metrics-secret")
	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatusOK(t, rr)
	resp := testutil.UnmarshalResponse[handler.AccessLogResponse](t, rr)
	require.Len(t, resp.Entries, 2)

	actions := []string{resp.Entries[0].Action, resp.Entries[1].Action}
	assert.ElementsMatch(t, []string{"change_history_viewed", "change_history_denied"}, actions)
	for _, e := range resp.Entries {
		assert.Equal(t, "Jo Bloggs", e.UserName)
		assert.NotEmpty(t, e.RequestID)
	}
}

func TestAccessLogHiddenWithoutAdminToken(t *testing.T) {
	f := newFixture(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := newRouter(config.Server{}, log, metrics.NewWithRegisterer(prometheus.NewRegistry()), jwttoken.NewJWTServiceAdapter(f.jwt), routes{
		history:   handler.New(nil, log),
		accessLog: handler.NewAccessLog(publisher.NewPublisher(auditmemory.New())),
	})

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/admin/persons/"+f.person.ID.String()+"/access-log"))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestChangeHistoryIsRateLimited(t *testing.T) {
	f := newFixture(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	limiter := ratelimitmw.New(bucket.NewInMemoryBucketStore(), ratelimitmodels.Policy{Limit: 1, Window: time.Minute}, log)
	router := newRouter(config.Server{}, log, metrics.NewWithRegisterer(prometheus.NewRegistry()), jwttoken.NewJWTServiceAdapter(f.jwt), routes{
		history:   f.history,
		accessLog: handler.NewAccessLog(publisher.NewPublisher(auditmemory.New())),
		limit:     limiter.PerUser,
	})

	userID := uuid.New()
	tok, err := f.jwt.GenerateAccessToken(userID, "Jo Bloggs", []string{visibility.RoleViewer}, time.Hour)
	require.NoError(t, err)
	path := "/persons/" + f.person.ID.String() + "/change-history"

	testutil.AssertStatusOK(t, testutil.DoRequest(router, testutil.NewBearerRequest(t, http.MethodGet, path, tok)))
	rr := testutil.DoRequest(router, testutil.NewBearerRequest(t, http.MethodGet, path, tok))
	testutil.AssertStatusAndError(t, rr, http.StatusTooManyRequests, "rate_limited")
}

func personCreated(p *personmodels.Person) events.Envelope {
	return events.NewPersonCreated(
		events.Header{PersonID: p.ID, CreatedAt: time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC), RaisedBy: events.SystemActor{}},
		p.Summary(),
		models.PersonDetails{FirstName: p.FirstName, LastName: p.LastName},
		models.ChangeReasonInfo{},
	)
}
