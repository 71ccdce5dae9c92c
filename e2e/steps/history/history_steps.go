package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"

	"trs/internal/history/events"
	"trs/internal/history/models"
	id "trs/pkg/domain"
)

// Alert types as they appear in the reference data.
var alertTypes = map[string]uuid.UUID{
	"misconduct": uuid.MustParse("45e149ee-594b-465a-99c9-bbc88bdde3a9"),
	"DBS":        uuid.MustParse("d276f42a-550e-44e7-a624-bbcd3da2932d"),
}

// TestContext is the write side of a runner: it seeds people and events.
type TestContext interface {
	CreatePerson(firstName, lastName, trn string) (id.PersonID, error)
	Record(env events.Envelope) error
	GET(path string) error
	GetLastResponseBody() []byte
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	s := &historySteps{tc: tc, alerts: map[string]models.Alert{}}
	ctx.Step(`^a person "([^"]*)" with TRN "(\d{7})"$`, s.aPerson)
	ctx.Step(`^the record was created on "([^"]*)"$`, s.recordCreated)
	ctx.Step(`^an? (misconduct|DBS) alert was added on "([^"]*)"$`, s.alertAdded)
	ctx.Step(`^the (misconduct|DBS) alert was closed on "([^"]*)"$`, s.alertClosed)
	ctx.Step(`^I request the change history$`, s.requestHistory)
	ctx.Step(`^I request the change history of an unknown person$`, s.requestUnknown)
	ctx.Step(`^the history should contain (\d+) items?$`, s.itemCount)
	ctx.Step(`^item (\d+) should have heading "([^"]*)"$`, s.itemHeading)
	ctx.Step(`^item (\d+) should be raised by "([^"]*)"$`, s.itemRaisedBy)
	ctx.Step(`^the history should( not)? report hidden open alerts$`, s.hiddenOpenAlerts)
}

type historySteps struct {
	tc       TestContext
	personID id.PersonID
	person   models.PersonSummary
	alerts   map[string]models.Alert
}

type historyBody struct {
	HasHiddenOpenAlerts bool `json:"has_hidden_open_alerts"`
	Items               []struct {
		Heading  string `json:"heading"`
		RaisedBy string `json:"raised_by"`
	} `json:"items"`
}

func (s *historySteps) header(at string) (events.Header, error) {
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return events.Header{}, fmt.Errorf("parse time %q: %w", at, err)
	}
	return events.Header{PersonID: s.personID, CreatedAt: t, RaisedBy: events.SystemActor{}}, nil
}

func (s *historySteps) aPerson(_ context.Context, name, trn string) error {
	first, last, ok := strings.Cut(name, " ")
	if !ok {
		return fmt.Errorf("name %q needs a first and last name", name)
	}
	personID, err := s.tc.CreatePerson(first, last, trn)
	if err != nil {
		return err
	}
	s.personID = personID
	s.person = models.PersonSummary{PersonID: personID, TRN: id.TRN(trn), FirstName: first, LastName: last}
	return nil
}

func (s *historySteps) recordCreated(_ context.Context, at string) error {
	h, err := s.header(at)
	if err != nil {
		return err
	}
	details := models.PersonDetails{FirstName: s.person.FirstName, LastName: s.person.LastName}
	return s.tc.Record(events.NewPersonCreated(h, s.person, details, models.ChangeReasonInfo{}))
}

func (s *historySteps) alertAdded(_ context.Context, kind, at string) error {
	h, err := s.header(at)
	if err != nil {
		return err
	}
	typeID := alertTypes[kind]
	alert := models.Alert{
		AlertID:     uuid.New(),
		AlertTypeID: &typeID,
		Details:     models.Ptr(kind + " details"),
		StartDate:   models.Ptr(models.DateOf(h.CreatedAt)),
	}
	s.alerts[kind] = alert
	return s.tc.Record(events.NewAlertCreated(h, alert, models.ChangeReasonInfo{}))
}

func (s *historySteps) alertClosed(_ context.Context, kind, at string) error {
	old, ok := s.alerts[kind]
	if !ok {
		return fmt.Errorf("no %s alert was added", kind)
	}
	h, err := s.header(at)
	if err != nil {
		return err
	}
	closed := old
	closed.EndDate = models.Ptr(models.DateOf(h.CreatedAt))
	s.alerts[kind] = closed
	return s.tc.Record(events.NewAlertUpdated(h, old, closed, models.ChangeReasonInfo{}))
}

func (s *historySteps) requestHistory(context.Context) error {
	return s.tc.GET("/persons/" + s.personID.String() + "/change-history")
}

func (s *historySteps) requestUnknown(context.Context) error {
	return s.tc.GET("/persons/" + id.NewPersonID().String() + "/change-history")
}

func (s *historySteps) body() (historyBody, error) {
	var b historyBody
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &b); err != nil {
		return b, fmt.Errorf("decode change history: %w", err)
	}
	return b, nil
}

func (s *historySteps) itemCount(_ context.Context, want int) error {
	b, err := s.body()
	if err != nil {
		return err
	}
	if len(b.Items) != want {
		return fmt.Errorf("expected %d items, got %d", want, len(b.Items))
	}
	return nil
}

func (s *historySteps) item(n int) (string, string, error) {
	b, err := s.body()
	if err != nil {
		return "", "", err
	}
	if n < 1 || n > len(b.Items) {
		return "", "", fmt.Errorf("item %d out of range, have %d", n, len(b.Items))
	}
	return b.Items[n-1].Heading, b.Items[n-1].RaisedBy, nil
}

func (s *historySteps) itemHeading(_ context.Context, n int, want string) error {
	heading, _, err := s.item(n)
	if err != nil {
		return err
	}
	if heading != want {
		return fmt.Errorf("item %d: expected heading %q, got %q", n, want, heading)
	}
	return nil
}

func (s *historySteps) itemRaisedBy(_ context.Context, n int, want string) error {
	_, raisedBy, err := s.item(n)
	if err != nil {
		return err
	}
	if raisedBy != want {
		return fmt.Errorf("item %d: expected raised by %q, got %q", n, want, raisedBy)
	}
	return nil
}

func (s *historySteps) hiddenOpenAlerts(_ context.Context, not string) error {
	b, err := s.body()
	if err != nil {
		return err
	}
	want := not == ""
	if b.HasHiddenOpenAlerts != want {
		return fmt.Errorf("expected has_hidden_open_alerts=%t", want)
	}
	return nil
}
