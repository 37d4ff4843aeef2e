package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPoolConfig(t *testing.T) {
	cfg := DefaultPoolConfig("postgres://localhost/onboarding")

	assert.Equal(t, "onboarding", cfg.ApplicationName)
	assert.Equal(t, int32(4), cfg.MaxConns)
	assert.LessOrEqual(t, cfg.MinConns, cfg.MaxConns)
	assert.Equal(t, 5*time.Second, cfg.StatementTimeout)
}

func TestNewPool_InvalidDSN(t *testing.T) {
	_, err := NewPool(context.Background(), PoolConfig{DSN: "host=localhost port=notaport"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse DSN")
}

func TestPoolStats_LogFields(t *testing.T) {
	kv := PoolStats{TotalConns: 2, AcquiredConns: 1, IdleConns: 1, MaxConns: 4}.LogFields()

	require.Len(t, kv, 12)
	assert.Equal(t, "total", kv[0])
	assert.Equal(t, int32(2), kv[1])
	assert.Equal(t, "max", kv[6])
	assert.Equal(t, int32(4), kv[7])
}
