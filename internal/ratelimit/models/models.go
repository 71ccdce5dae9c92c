package models

import (
	"time"
)

// Policy is a sliding window limit: at most Limit requests in any Window.
type Policy struct {
	Limit  int
	Window time.Duration
}

func (p Policy) Enabled() bool { return p.Limit > 0 && p.Window > 0 }

// RateLimitResult is the outcome of one check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the whole seconds until the window frees a slot, at least 1.
func (r RateLimitResult) RetryAfter(now time.Time) int {
	secs := int(r.ResetAt.Sub(now).Round(time.Second) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
