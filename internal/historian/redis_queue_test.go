package historian

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/solitaire/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPopper answers BLPop with a canned result instead of talking to Redis.
type mockPopper struct {
	keys []string
	val  []string
	err  error
}

func (m *mockPopper) BLPop(ctx context.Context, _ time.Duration, keys ...string) *redis.StringSliceCmd {
	m.keys = keys
	cmd := redis.NewStringSliceCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
	} else {
		cmd.SetVal(m.val)
	}
	return cmd
}

func TestRedisQueuePopRecord(t *testing.T) {
	rec := models.MoveRecord{
		BoardID:     uuid.New(),
		ActionIndex: 2,
		CardID:      "3",
		ActionType:  models.ActionCardMoved,
		FromColumn:  2,
		ToColumn:    6,
		DX:          250,
		Timestamp:   1700000000000,
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	m := &mockPopper{val: []string{"solitaire_moves", string(data)}}
	q := &RedisQueue{Client: m, Name: "solitaire_moves"}

	got, ok, err := q.Pop(context.Background(), time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, rec, got)
	assert.Equal(t, []string{"solitaire_moves"}, m.keys)
}

func TestRedisQueuePopEmpty(t *testing.T) {
	q := &RedisQueue{Client: &mockPopper{err: redis.Nil}, Name: "solitaire_moves"}

	_, ok, err := q.Pop(context.Background(), time.Second)
	assert.NoError(t, err, "a timed out BLPop is not an error")
	assert.False(t, ok)
}

func TestRedisQueuePopShortResult(t *testing.T) {
	q := &RedisQueue{Client: &mockPopper{val: []string{"solitaire_moves"}}, Name: "solitaire_moves"}

	_, ok, err := q.Pop(context.Background(), time.Second)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisQueuePopInvalidJSON(t *testing.T) {
	logger, hook := test.NewNullLogger()
	q := &RedisQueue{
		Client: &mockPopper{val: []string{"solitaire_moves", "{not json"}},
		Name:   "solitaire_moves",
		Logger: logger,
	}

	_, ok, err := q.Pop(context.Background(), time.Second)
	assert.NoError(t, err, "a bad payload is skipped, not fatal")
	assert.False(t, ok)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestRedisQueuePopError(t *testing.T) {
	boom := errors.New("connection refused")
	q := &RedisQueue{Client: &mockPopper{err: boom}, Name: "solitaire_moves"}

	_, ok, err := q.Pop(context.Background(), time.Second)
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
}
