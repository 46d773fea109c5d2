// internal/historian/historian_test.go
package historian

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/solitaire/internal/models"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chanQueue feeds records from a channel.
type chanQueue struct {
	ch chan models.MoveRecord
}

func (q *chanQueue) Pop(ctx context.Context, timeout time.Duration) (models.MoveRecord, bool, error) {
	select {
	case rec := <-q.ch:
		return rec, true, nil
	case <-time.After(timeout):
		return models.MoveRecord{}, false, nil
	case <-ctx.Done():
		return models.MoveRecord{}, false, ctx.Err()
	}
}

// mockSink collects writes instead of touching Postgres.
type mockSink struct {
	mu        sync.Mutex
	batches   [][]models.MoveRecord
	abandoned []uuid.UUID
}

func (m *mockSink) WriteMoves(_ context.Context, records []models.MoveRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, records)
	return nil
}

func (m *mockSink) MarkAbandoned(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.abandoned = append(m.abandoned, id)
	return nil
}

func (m *mockSink) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.batches {
		n += len(b)
	}
	return n
}

func TestBatchFlushOnSize(t *testing.T) {
	logger, _ := test.NewNullLogger()
	q := &chanQueue{ch: make(chan models.MoveRecord, 10)}
	sink := &mockSink{}
	s := NewService(q, sink, Options{BatchSize: 3, FlushDelay: time.Hour, PopTimeout: 10 * time.Millisecond}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	boardID := uuid.New()
	for i := 1; i <= 3; i++ {
		q.ch <- models.MoveRecord{BoardID: boardID, ActionIndex: i, ActionType: models.ActionCardMoved}
	}
	require.Eventually(t, func() bool { return sink.total() == 3 }, time.Second, 5*time.Millisecond)

	sink.mu.Lock()
	require.Len(t, sink.batches, 1)
	assert.Equal(t, 3, sink.batches[0][2].ActionIndex)
	sink.mu.Unlock()

	cancel()
	<-done
}

func TestFlushOnTickerAndShutdown(t *testing.T) {
	logger, _ := test.NewNullLogger()
	q := &chanQueue{ch: make(chan models.MoveRecord, 10)}
	sink := &mockSink{}
	s := NewService(q, sink, Options{BatchSize: 100, FlushDelay: 20 * time.Millisecond, PopTimeout: 5 * time.Millisecond}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	q.ch <- models.MoveRecord{BoardID: uuid.New(), ActionIndex: 1}
	require.Eventually(t, func() bool { return sink.total() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, 1, sink.total())
}

func TestSweepMarksInactiveBoards(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sink := &mockSink{}
	s := NewService(&chanQueue{ch: make(chan models.MoveRecord)}, sink, Options{Inactivity: time.Minute}, logger)

	stale, fresh := uuid.New(), uuid.New()
	now := time.Now()
	s.lastActivity.Store(stale, now.Add(-2*time.Minute))
	s.lastActivity.Store(fresh, now)
	s.append(context.Background(), models.MoveRecord{BoardID: stale, ActionIndex: 1})

	s.sweep(context.Background(), now)

	assert.Equal(t, []uuid.UUID{stale}, sink.abandoned)
	assert.Equal(t, 1, sink.total(), "pending moves flush before closing")
	_, still := s.lastActivity.Load(stale)
	assert.False(t, still)
	_, kept := s.lastActivity.Load(fresh)
	assert.True(t, kept)
	assert.Equal(t, "Marked board abandoned due to inactivity", hook.LastEntry().Message)
}
