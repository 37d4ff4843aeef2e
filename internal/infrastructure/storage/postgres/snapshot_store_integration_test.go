//go:build integration

package postgres

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"onboarding/internal/domain/snapshot"
)

type SnapshotStoreSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	pool      *Pool
	store     *SnapshotStore
}

func TestSnapshotStoreSuite(t *testing.T) {
	suite.Run(t, new(SnapshotStoreSuite))
}

func (s *SnapshotStoreSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcpostgres.Run(s.ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("onboarding"),
		tcpostgres.WithUsername("onboarding"),
		tcpostgres.WithPassword("onboarding"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.pool, err = NewPool(s.ctx, DefaultPoolConfig(dsn))
	s.Require().NoError(err)

	s.store, err = NewSnapshotStore(s.pool)
	s.Require().NoError(err)
	s.Require().NoError(s.store.EnsureSchema(s.ctx))
}

func (s *SnapshotStoreSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		s.NoError(testcontainers.TerminateContainer(s.container))
	}
}

func (s *SnapshotStoreSuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, "TRUNCATE wizard_snapshots")
	s.Require().NoError(err)
}

func (s *SnapshotStoreSuite) TestLoadMissing() {
	_, err := s.store.Load(s.ctx, "wizard:none")
	s.ErrorIs(err, snapshot.ErrNotFound)
}

func (s *SnapshotStoreSuite) TestSaveOverwrites() {
	s.Require().NoError(s.store.Save(s.ctx, "wizard:a", []byte(`{"v":1}`)))
	s.Require().NoError(s.store.Save(s.ctx, "wizard:a", []byte(`{"v":2}`)))

	got, err := s.store.Load(s.ctx, "wizard:a")
	s.Require().NoError(err)
	s.JSONEq(`{"v":2}`, string(got))
}

func (s *SnapshotStoreSuite) TestLargePayloadIsCompressed() {
	large := bytes.Repeat([]byte("x"), DefaultCompressThreshold*2)
	s.Require().NoError(s.store.Save(s.ctx, "wizard:big", large))

	var algo string
	err := s.pool.QueryRow(s.ctx, "SELECT compression FROM wizard_snapshots WHERE snapshot_key = $1", "wizard:big").Scan(&algo)
	s.Require().NoError(err)
	s.Equal(string(CompressionZstd), algo)

	got, err := s.store.Load(s.ctx, "wizard:big")
	s.Require().NoError(err)
	s.Equal(large, got)
}

func (s *SnapshotStoreSuite) TestDelete() {
	s.Require().NoError(s.store.Save(s.ctx, "wizard:a", []byte(`{}`)))
	s.Require().NoError(s.store.Delete(s.ctx, "wizard:a"))
	s.Require().NoError(s.store.Delete(s.ctx, "wizard:a"))

	_, err := s.store.Load(s.ctx, "wizard:a")
	s.ErrorIs(err, snapshot.ErrNotFound)
	s.NoError(s.store.Ping(s.ctx))
}
