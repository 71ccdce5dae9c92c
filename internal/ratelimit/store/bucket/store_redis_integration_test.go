//go:build integration

package bucket_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"trs/internal/ratelimit/models"
	"trs/internal/ratelimit/store/bucket"
	id "trs/pkg/domain"
	"trs/pkg/testutil/containers"
)

type RedisBucketSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *bucket.RedisBucketStore
	ctx   context.Context
}

func TestRedisBucketSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisBucketSuite))
}

func (s *RedisBucketSuite) SetupSuite() {
	s.ctx = context.Background()
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = bucket.NewRedisBucketStore(s.redis.Client)
}

func (s *RedisBucketSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisBucketSuite) TestLimitWithinWindow() {
	key := models.UserKey(id.UserID(uuid.New()))
	policy := models.Policy{Limit: 3, Window: time.Minute}

	for i := range 3 {
		res, err := s.store.Allow(s.ctx, key, policy)
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(2-i, res.Remaining)
	}
	res, err := s.store.Allow(s.ctx, key, policy)
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.True(res.ResetAt.After(time.Now()))

	ttl, err := s.redis.Client.PTTL(s.ctx, key).Result()
	s.Require().NoError(err)
	s.Positive(ttl)
}

func (s *RedisBucketSuite) TestWindowSlides() {
	key := models.IPKey("203.0.113.9")
	policy := models.Policy{Limit: 1, Window: 200 * time.Millisecond}

	res, err := s.store.Allow(s.ctx, key, policy)
	s.Require().NoError(err)
	s.True(res.Allowed)

	res, err = s.store.Allow(s.ctx, key, policy)
	s.Require().NoError(err)
	s.False(res.Allowed)

	time.Sleep(250 * time.Millisecond)
	res, err = s.store.Allow(s.ctx, key, policy)
	s.Require().NoError(err)
	s.True(res.Allowed)
}

func (s *RedisBucketSuite) TestReset() {
	key := models.IPKey("203.0.113.10")
	policy := models.Policy{Limit: 1, Window: time.Minute}
	_, err := s.store.Allow(s.ctx, key, policy)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Reset(s.ctx, key))
	res, err := s.store.Allow(s.ctx, key, policy)
	s.Require().NoError(err)
	s.True(res.Allowed)
}
