package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding/internal/domain/snapshot"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.Load(ctx, "k")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)

	payload := []byte(`{"a":{}}`)
	require.NoError(t, s.Save(ctx, "k", payload))
	payload[0] = 'X'

	got, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":{}}`, string(got), "store keeps its own copy")
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(ctx, "k"))
	assert.Equal(t, 0, s.Len())
	assert.NoError(t, s.Ping(ctx))
}
