// Package requesttime captures a single "now" per request from the injected
// clock so every timestamp and display conversion within the request agrees.
package requesttime

import (
	"net/http"

	"trs/pkg/platform/clock"
	"trs/pkg/requestcontext"
)

// Middleware stores clk.Now() on the request context.
func Middleware(clk clock.Clock) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), clk.Now())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
