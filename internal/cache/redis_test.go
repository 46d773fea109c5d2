package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/solitaire/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPusher collects pushed payloads instead of talking to Redis.
type mockPusher struct {
	key    string
	pushed [][]byte
	err    error
}

func (m *mockPusher) RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	m.key = key
	for _, v := range values {
		m.pushed = append(m.pushed, v.([]byte))
	}
	cmd := redis.NewIntCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
	} else {
		cmd.SetVal(int64(len(m.pushed)))
	}
	return cmd
}

func TestPublishMove(t *testing.T) {
	m := &mockPusher{}
	p := NewPublisher(m, "")

	rec := models.MoveRecord{
		BoardID:     uuid.New(),
		ActionIndex: 3,
		CardID:      "2",
		ActionType:  models.ActionCardMoved,
		FromColumn:  1,
		ToColumn:    5,
		DX:          210.5,
	}
	require.NoError(t, p.PublishMove(context.Background(), rec))

	assert.Equal(t, DefaultQueueName, m.key)
	require.Len(t, m.pushed, 1)
	var got models.MoveRecord
	require.NoError(t, json.Unmarshal(m.pushed[0], &got))
	assert.Equal(t, rec, got)
}

func TestPublishMoveError(t *testing.T) {
	m := &mockPusher{err: errors.New("connection refused")}
	p := NewPublisher(m, "custom")

	err := p.PublishMove(context.Background(), models.MoveRecord{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "custom")
	assert.ErrorIs(t, err, m.err)
}
