package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"trs/internal/ratelimit/metrics"
	"trs/internal/ratelimit/models"
	dErrors "trs/pkg/domain-errors"
	"trs/pkg/platform/httputil"
	"trs/pkg/platform/middleware/metadata"
	"trs/pkg/requestcontext"
)

// BucketStore is implemented by the memory and Redis bucket stores.
type BucketStore interface {
	Allow(ctx context.Context, key string, p models.Policy) (models.RateLimitResult, error)
}

type Middleware struct {
	store   BucketStore
	policy  models.Policy
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Middleware)

func WithMetrics(m *metrics.Metrics) Option {
	return func(mw *Middleware) {
		mw.metrics = m
	}
}

func WithNow(now func() time.Time) Option {
	return func(mw *Middleware) {
		mw.now = now
	}
}

func New(store BucketStore, policy models.Policy, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{store: store, policy: policy, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	if !policy.Enabled() {
		logger.Info("rate limiting disabled")
	}
	return m
}

// PerUser limits authenticated callers by user id, falling back to the
// client IP. A store failure lets the request through.
func (m *Middleware) PerUser(next http.Handler) http.Handler {
	if !m.policy.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		key := models.IPKey(metadata.GetClientIP(ctx))
		if userID := requestcontext.UserID(ctx); !userID.IsNil() {
			key = models.UserKey(userID)
		}

		result, err := m.store.Allow(ctx, key, m.policy)
		if err != nil {
			m.metrics.IncrementStoreErrors()
			m.logger.ErrorContext(ctx, "rate limit check failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			next.ServeHTTP(w, r)
			return
		}

		addRateLimitHeaders(w, result)
		if !result.Allowed {
			m.metrics.IncrementRejected()
			m.logger.WarnContext(ctx, "rate limit exceeded",
				"request_id", requestcontext.RequestID(ctx),
				"key", key,
			)
			w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter(m.now())))
			httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many requests, retry later"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func addRateLimitHeaders(w http.ResponseWriter, result models.RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
