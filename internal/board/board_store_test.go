package board

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardStore(t *testing.T) {
	s := NewBoardStore()
	b := NewDefault(testGeometry(t))
	s.AddBoard(b)

	got, ok := s.GetBoard(b.ID)
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.Equal(t, 1, s.Len())

	_, ok = s.GetBoard(uuid.New())
	assert.False(t, ok)

	assert.True(t, s.DeleteBoard(b.ID))
	assert.False(t, s.DeleteBoard(b.ID))
	assert.Equal(t, 0, s.Len())
}

func TestBoardStoreRemoveIdle(t *testing.T) {
	s := NewBoardStore()
	idle := NewDefault(testGeometry(t))
	s.AddBoard(idle)

	cutoff := time.Now().Add(time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	active := NewDefault(testGeometry(t))
	s.AddBoard(active)
	active.HandleDragEnded(DragEnded{CardID: "1", DX: 0})

	removed := s.RemoveIdle(cutoff)
	require.Len(t, removed, 1)
	assert.Equal(t, idle.ID, removed[0].ID)
	_, ok := s.GetBoard(active.ID)
	assert.True(t, ok)
}
