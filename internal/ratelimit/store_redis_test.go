//go:build integration

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"tipjar/pkg/testutil/containers"
)

type RedisBucketStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *RedisBucketStore
	ctx   context.Context
}

func TestRedisBucketStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisBucketStoreSuite))
}

func (s *RedisBucketStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = NewRedisBucketStore(s.redis.Client)
	s.ctx = context.Background()
}

func (s *RedisBucketStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisBucketStoreSuite) TestAllow() {
	s.Run("counts down to the limit", func() {
		for i := range testLimit {
			result, err := s.store.Allow(s.ctx, "ip:limit", testLimit, testWindow)
			s.Require().NoError(err)
			s.True(result.Allowed)
			s.Equal(testLimit-i-1, result.Remaining)
		}
	})

	s.Run("denies over the limit", func() {
		for range testLimit {
			_, err := s.store.Allow(s.ctx, "ip:over", testLimit, testWindow)
			s.Require().NoError(err)
		}
		result, err := s.store.Allow(s.ctx, "ip:over", testLimit, testWindow)
		s.Require().NoError(err)
		s.False(result.Allowed)
		s.WithinDuration(time.Now().Add(testWindow), result.ResetAt, 5*time.Second)
	})

	s.Run("window expiry resets the count", func() {
		window := time.Second
		for range testLimit {
			_, err := s.store.Allow(s.ctx, "ip:reset", testLimit, window)
			s.Require().NoError(err)
		}
		time.Sleep(window + 200*time.Millisecond)

		result, err := s.store.Allow(s.ctx, "ip:reset", testLimit, window)
		s.Require().NoError(err)
		s.True(result.Allowed)
	})

	s.Run("keys are independent", func() {
		for range testLimit {
			_, err := s.store.Allow(s.ctx, "ip:a", testLimit, testWindow)
			s.Require().NoError(err)
		}
		result, err := s.store.Allow(s.ctx, "ip:b", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
	})
}
