// Package e2e holds the godog step definitions for the change history
// feature files. A runner supplies the TestContext, either in process or
// against a deployed service.
package e2e

import (
	"github.com/cucumber/godog"

	"trs/e2e/steps/common"
	"trs/e2e/steps/history"
)

// TestContext is everything the step packages need from a runner.
type TestContext interface {
	common.TestContext
	history.TestContext
}

// RegisterSteps registers all step definitions from modular packages.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	common.RegisterSteps(ctx, tc)
	history.RegisterSteps(ctx, tc)
}
