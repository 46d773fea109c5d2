// internal/screen/board.go
package screen

import (
	"context"
	"errors"
	"sync"

	"github.com/jason-s-yu/solitaire/internal/board"
	"github.com/jason-s-yu/solitaire/internal/navigation"
	"github.com/jason-s-yu/solitaire/internal/orientation"
	"github.com/sirupsen/logrus"
)

var (
	ErrAlreadyMounted = errors.New("board screen already mounted")
	ErrNotMounted     = errors.New("board screen not mounted")
)

// BoardScreen is the "New Game" screen. The board and the orientation lock live
// exactly as long as the screen is mounted.
type BoardScreen struct {
	Geometry board.Geometry
	Router   navigation.Router
	Locker   orientation.Locker
	Logger   *logrus.Logger

	// OnMove is attached to every board this screen creates.
	OnMove board.OnMoveFunc

	mu      sync.Mutex
	board   *board.Board
	release orientation.Release
}

func NewBoardScreen(g board.Geometry, r navigation.Router, l orientation.Locker, logger *logrus.Logger) *BoardScreen {
	if l == nil {
		l = orientation.Noop{}
	}
	return &BoardScreen{Geometry: g, Router: r, Locker: l, Logger: logger}
}

// Mount locks the device to landscape and deals the initial cards.
func (s *BoardScreen) Mount(ctx context.Context) (*board.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board != nil {
		return nil, ErrAlreadyMounted
	}
	s.release = orientation.Acquire(ctx, s.Locker, orientation.Landscape, s.Logger)
	s.board = board.NewDefault(s.Geometry)
	s.board.OnMove = s.OnMove
	if s.Logger != nil {
		s.Logger.WithField("board", s.board.ID).Debug("Board screen mounted")
	}
	return s.board, nil
}

// Unmount releases the orientation lock and discards the board.
// Unmounting an unmounted screen is a no-op.
func (s *BoardScreen) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"board": s.board.ID,
			"moves": s.board.MoveCount(),
		}).Debug("Board screen unmounted")
	}
	s.release()
	s.release = nil
	s.board = nil
}

// Back leaves the board for the home menu.
func (s *BoardScreen) Back() error {
	s.Unmount()
	if s.Router == nil {
		return nil
	}
	return s.Router.Navigate(navigation.Root)
}

// Drag forwards a released gesture to the mounted board.
func (s *BoardScreen) Drag(ev board.DragEnded) (board.MoveResult, error) {
	b := s.Board()
	if b == nil {
		return board.MoveResult{}, ErrNotMounted
	}
	return b.HandleDragEnded(ev), nil
}

// Board returns the mounted board, or nil.
func (s *BoardScreen) Board() *board.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board
}
