package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemEvent_WireFormat(t *testing.T) {
	evt := ItemEvent{
		ItemID:     12,
		UserID:     3,
		Name:       "テスト商品",
		Price:      1000,
		OccurredAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(evt)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"item_id": 12,
		"user_id": 3,
		"name": "テスト商品",
		"price": 1000,
		"occurred_at": "2024-05-01T10:00:00Z"
	}`, string(data))
}

func TestNewNatsPublisher_Unreachable(t *testing.T) {
	_, err := NewNatsPublisher("nats://127.0.0.1:1")
	assert.Error(t, err)
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), SubjectItemCreated, ItemEvent{}))
	p.Close()
}
