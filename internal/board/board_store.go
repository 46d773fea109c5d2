package board

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// BoardStore holds the live board sessions of a server.
type BoardStore struct {
	mu     sync.Mutex
	boards map[uuid.UUID]*Board
}

func NewBoardStore() *BoardStore {
	return &BoardStore{
		boards: make(map[uuid.UUID]*Board),
	}
}

func (s *BoardStore) AddBoard(b *Board) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards[b.ID] = b
}

func (s *BoardStore) GetBoard(id uuid.UUID) (*Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, exists := s.boards[id]
	return b, exists
}

// DeleteBoard removes a board and reports whether it was present.
func (s *BoardStore) DeleteBoard(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.boards[id]
	delete(s.boards, id)
	return exists
}

func (s *BoardStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.boards)
}

// RemoveIdle drops every board with no activity since cutoff and returns them.
func (s *BoardStore) RemoveIdle(cutoff time.Time) []*Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []*Board
	for id, b := range s.boards {
		if b.LastActivity().Before(cutoff) {
			delete(s.boards, id)
			removed = append(removed, b)
		}
	}
	return removed
}
