package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	a := NewSession()
	b := NewSession()

	assert.NotEqual(t, a, b)
	assert.True(t, ValidSession(a))

	u, err := Parse(a)
	require.NoError(t, err)
	assert.EqualValues(t, 7, u.Version())
}

func TestValidSession(t *testing.T) {
	assert.False(t, ValidSession(""))
	assert.False(t, ValidSession("not-a-uuid"))
	assert.False(t, ValidSession("00000000-0000-0000-0000-000000000000"))
}
