package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("abc123")
	require.NoError(t, err)

	assert.NotEqual(t, "abc123", hash)
	assert.True(t, CheckPasswordHash("abc123", hash))
	assert.False(t, CheckPasswordHash("abc124", hash))
	assert.False(t, CheckPasswordHash("abc123", "not-a-hash"))
}
