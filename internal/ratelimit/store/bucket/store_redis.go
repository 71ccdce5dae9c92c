package bucket

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"trs/internal/ratelimit/models"
)

// RedisBucketStore keeps one sorted set per key, scored by request time in
// microseconds, so every instance shares the same window. The check and the
// insert are separate round trips, so concurrent bursts can overshoot slightly.
type RedisBucketStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisBucketStore(client *redis.Client) *RedisBucketStore {
	return &RedisBucketStore{client: client, now: time.Now}
}

func (s *RedisBucketStore) Allow(ctx context.Context, key string, p models.Policy) (models.RateLimitResult, error) {
	now := s.now()
	cutoff := now.Add(-p.Window).UnixMicro()

	var (
		count  *redis.IntCmd
		oldest *redis.ZSliceCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(cutoff, 10))
		count = pipe.ZCard(ctx, key)
		oldest = pipe.ZRangeWithScores(ctx, key, 0, 0)
		return nil
	})
	if err != nil {
		return models.RateLimitResult{}, fmt.Errorf("read bucket %s: %w", key, err)
	}

	resetAt := now.Add(p.Window)
	if z := oldest.Val(); len(z) > 0 {
		resetAt = time.UnixMicro(int64(z[0].Score)).Add(p.Window)
	}
	n := int(count.Val())
	if n >= p.Limit {
		return models.RateLimitResult{Allowed: false, Limit: p.Limit, ResetAt: resetAt}, nil
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMicro()), Member: uuid.NewString()})
		pipe.PExpire(ctx, key, p.Window)
		return nil
	})
	if err != nil {
		return models.RateLimitResult{}, fmt.Errorf("record request in bucket %s: %w", key, err)
	}
	return models.RateLimitResult{
		Allowed:   true,
		Limit:     p.Limit,
		Remaining: p.Limit - n - 1,
		ResetAt:   resetAt,
	}, nil
}

func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
