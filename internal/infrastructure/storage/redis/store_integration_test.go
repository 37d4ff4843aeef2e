//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"onboarding/internal/domain/snapshot"
)

type StoreSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcredis.RedisContainer
	client    *Client
	store     *Store
}

func TestStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcredis.Run(s.ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = container

	url, err := container.ConnectionString(s.ctx)
	s.Require().NoError(err)

	s.client, err = New(s.ctx, DefaultConfig(url))
	s.Require().NoError(err)
	s.store = NewStore(s.client, WithKeyPrefix("test:"))
}

func (s *StoreSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.container != nil {
		s.NoError(testcontainers.TerminateContainer(s.container))
	}
}

func (s *StoreSuite) SetupTest() {
	s.Require().NoError(s.client.FlushAll(s.ctx).Err())
}

func (s *StoreSuite) TestRoundTrip() {
	_, err := s.store.Load(s.ctx, "wizard:a")
	s.ErrorIs(err, snapshot.ErrNotFound)

	s.Require().NoError(s.store.Save(s.ctx, "wizard:a", []byte(`{"v":1}`)))
	got, err := s.store.Load(s.ctx, "wizard:a")
	s.Require().NoError(err)
	s.JSONEq(`{"v":1}`, string(got))

	exists, err := s.client.Exists(s.ctx, "test:wizard:a").Result()
	s.Require().NoError(err)
	s.Equal(int64(1), exists)

	s.Require().NoError(s.store.Delete(s.ctx, "wizard:a"))
	_, err = s.store.Load(s.ctx, "wizard:a")
	s.ErrorIs(err, snapshot.ErrNotFound)
}

func (s *StoreSuite) TestTTL() {
	store := NewStore(s.client, WithTTL(time.Minute))
	s.Require().NoError(store.Save(s.ctx, "wizard:ttl", []byte(`{}`)))

	ttl, err := s.client.TTL(s.ctx, defaultKeyPrefix+"wizard:ttl").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)

	s.NoError(s.client.Health(s.ctx))
}
