package testutil

import "testing"

// Given, When and Then name subtests after the step they describe. Steps
// nest, so a failure reports the whole path, e.g.
// "Given a viewer token/When the alert is closed/Then the item is hidden".
func Given(t *testing.T, desc string, fn func(t *testing.T)) { step(t, "Given", desc, fn) }
func When(t *testing.T, desc string, fn func(t *testing.T))  { step(t, "When", desc, fn) }
func Then(t *testing.T, desc string, fn func(t *testing.T))  { step(t, "Then", desc, fn) }

func step(t *testing.T, keyword, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run(keyword+" "+desc, fn)
}
