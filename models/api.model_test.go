package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaginationMeta(t *testing.T) {
	meta := NewPaginationMeta(2, 20, 45)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrevious)

	meta = NewPaginationMeta(1, 20, 0)
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.False(t, meta.HasPrevious)
}

func TestErrorResponse_OmitsData(t *testing.T) {
	body, err := json.Marshal(ErrorResponse("Item not found", map[string]int{"status": 404}))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")
	assert.NotContains(t, decoded, "meta")
	assert.Contains(t, decoded, "timestamp")
}
