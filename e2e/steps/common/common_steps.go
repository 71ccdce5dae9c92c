package common

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext is the HTTP side of a runner.
type TestContext interface {
	SignIn(name string, roles []string) error
	SignOut()
	GET(path string) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	s := &commonSteps{tc: tc}
	ctx.Step(`^I am signed in as "([^"]*)" with roles? "([^"]*)"$`, s.signedInWithRoles)
	ctx.Step(`^I am not signed in$`, s.notSignedIn)
	ctx.Step(`^the response status should be (\d+)$`, s.statusShouldBe)
	ctx.Step(`^the error should be "([^"]*)"$`, s.errorShouldBe)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) signedInWithRoles(_ context.Context, name, roles string) error {
	return s.tc.SignIn(name, strings.Split(roles, ","))
}

func (s *commonSteps) notSignedIn(context.Context) error {
	s.tc.SignOut()
	return nil
}

func (s *commonSteps) statusShouldBe(_ context.Context, want int) error {
	if got := s.tc.GetLastResponseStatus(); got != want {
		return fmt.Errorf("expected status %d, got %d: %s", want, got, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) errorShouldBe(_ context.Context, want string) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &body); err != nil {
		return fmt.Errorf("decode error body: %w", err)
	}
	if body.Error != want {
		return fmt.Errorf("expected error %q, got %q", want, body.Error)
	}
	return nil
}
