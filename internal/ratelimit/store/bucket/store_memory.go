package bucket

import (
	"context"
	"sync"
	"time"

	"trs/internal/ratelimit/models"
)

// InMemoryBucketStore keeps sliding windows per key in process. Limits are
// per instance.
type InMemoryBucketStore struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
	now     func() time.Time
}

type MemoryOption func(*InMemoryBucketStore)

func WithNow(now func() time.Time) MemoryOption {
	return func(s *InMemoryBucketStore) {
		s.now = now
	}
}

func NewInMemoryBucketStore(opts ...MemoryOption) *InMemoryBucketStore {
	s := &InMemoryBucketStore{buckets: make(map[string][]time.Time), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryBucketStore) Allow(ctx context.Context, key string, p models.Policy) (models.RateLimitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stamps := expire(s.buckets[key], now.Add(-p.Window))
	if len(stamps) >= p.Limit {
		s.buckets[key] = stamps
		return models.RateLimitResult{Allowed: false, Limit: p.Limit, ResetAt: stamps[0].Add(p.Window)}, nil
	}
	stamps = append(stamps, now)
	s.buckets[key] = stamps
	return models.RateLimitResult{
		Allowed:   true,
		Limit:     p.Limit,
		Remaining: p.Limit - len(stamps),
		ResetAt:   stamps[0].Add(p.Window),
	}, nil
}

func (s *InMemoryBucketStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

// expire drops timestamps at or before cutoff. stamps is sorted.
func expire(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	return stamps[i:]
}
