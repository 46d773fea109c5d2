// internal/handlers/board_server.go
package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/solitaire/internal/auth"
	"github.com/jason-s-yu/solitaire/internal/board"
	"github.com/jason-s-yu/solitaire/internal/models"
	"github.com/sirupsen/logrus"
)

// MovePublisher records resolved drags for the historian.
type MovePublisher interface {
	PublishMove(ctx context.Context, record models.MoveRecord) error
}

// BoardServer is a high-level struct that holds the live board sessions,
// the websocket connections watching each of them, and the seat issuer.
type BoardServer struct {
	Store     *board.BoardStore
	Seats     *auth.SeatIssuer
	Publisher MovePublisher // nil disables move history
	Logger    *logrus.Logger

	CardWidth  float64
	CardHeight float64

	mu    sync.Mutex
	conns map[uuid.UUID]map[*websocket.Conn]struct{}
}

func NewBoardServer(seats *auth.SeatIssuer, logger *logrus.Logger) *BoardServer {
	return &BoardServer{
		Store:      board.NewBoardStore(),
		Seats:      seats,
		Logger:     logger,
		CardWidth:  board.DefaultCardWidth,
		CardHeight: board.DefaultCardHeight,
		conns:      make(map[uuid.UUID]map[*websocket.Conn]struct{}),
	}
}

// NewBoardSession deals a fresh board for a device of the given screen size and stores it.
func (s *BoardServer) NewBoardSession(screenWidth, screenHeight float64) (*board.Board, error) {
	g, err := board.NewGeometry(screenWidth, screenHeight, s.CardWidth, s.CardHeight)
	if err != nil {
		return nil, err
	}
	b := board.NewDefault(g)
	b.OnMove = s.onMove
	s.Store.AddBoard(b)
	s.Logger.WithFields(logrus.Fields{
		"board":       b.ID,
		"table_width": g.TableWidth,
	}).Info("Board session created")
	return b, nil
}

// CloseBoardSession discards a board, records the close and disconnects its watchers.
func (s *BoardServer) CloseBoardSession(ctx context.Context, b *board.Board) {
	if !s.Store.DeleteBoard(b.ID) {
		return
	}
	s.closeSession(ctx, b, websocket.StatusNormalClosure, "board closed")
	s.Logger.WithFields(logrus.Fields{"board": b.ID, "moves": b.MoveCount()}).Info("Board session closed")
}

// closeSession finishes a board already removed from the store: it publishes the
// close record, tells every watcher, then closes their sockets with code.
func (s *BoardServer) closeSession(ctx context.Context, b *board.Board, code websocket.StatusCode, reason string) {
	s.publish(ctx, models.MoveRecord{
		BoardID:     b.ID,
		ActionIndex: b.MoveCount() + 1,
		ActionType:  models.ActionBoardClosed,
		Timestamp:   time.Now().UnixMilli(),
	})
	s.broadcast(b.ID, board.BoardEvent{Type: board.EventBoardClosed})

	s.mu.Lock()
	conns := s.conns[b.ID]
	delete(s.conns, b.ID)
	s.mu.Unlock()
	for c := range conns {
		c.Close(code, reason)
	}
}

// RunIdleSweeper closes boards with no moves for idle, checking every interval, until ctx is done.
func (s *BoardServer) RunIdleSweeper(ctx context.Context, idle, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sweepIdle(ctx, now.Add(-idle))
		}
	}
}

func (s *BoardServer) sweepIdle(ctx context.Context, cutoff time.Time) {
	for _, b := range s.Store.RemoveIdle(cutoff) {
		s.Logger.WithField("board", b.ID).Info("Dropping idle board")
		s.closeSession(ctx, b, websocket.StatusGoingAway, "board idle")
	}
}

// onMove broadcasts a resolution to every watcher and records it.
func (s *BoardServer) onMove(b *board.Board, res board.MoveResult) {
	s.Logger.WithFields(logrus.Fields{
		"board":    b.ID,
		"card":     res.CardID,
		"from":     res.From,
		"to":       res.To,
		"accepted": res.Accepted,
	}).Debug("Drag resolved")

	s.broadcast(b.ID, board.EventForMove(res))
	s.publish(context.Background(), b.Record(res))
}

func (s *BoardServer) publish(ctx context.Context, rec models.MoveRecord) {
	if s.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.Publisher.PublishMove(ctx, rec); err != nil {
		s.Logger.WithError(err).WithField("board", rec.BoardID).Warn("Failed to publish move")
	}
}

func (s *BoardServer) addConn(boardID uuid.UUID, c *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.conns[boardID]
	if !ok {
		set = make(map[*websocket.Conn]struct{})
		s.conns[boardID] = set
	}
	set[c] = struct{}{}
}

func (s *BoardServer) removeConn(boardID uuid.UUID, c *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.conns[boardID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(s.conns, boardID)
		}
	}
}

// broadcast marshals the event once and writes it to every watcher of the board.
// Writes are synchronous; called from OnMove, which the board serializes in Seq
// order, each watcher sees move events in resolution order.
func (s *BoardServer) broadcast(boardID uuid.UUID, ev board.BoardEvent) {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.conns[boardID]))
	for c := range s.conns[boardID] {
		conns = append(conns, c)
	}
	s.mu.Unlock()
	if len(conns) == 0 {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		s.Logger.Errorf("Failed to marshal broadcast event (%s) for board %s: %v", ev.Type, boardID, err)
		return
	}
	for _, c := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := c.Write(ctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			s.Logger.Warnf("Failed to write broadcast message on board %s: %v", boardID, err)
		}
	}
}

// stateEvent is the full board snapshot sent on connect and on request.
func stateEvent(b *board.Board) board.BoardEvent {
	g := b.Geometry
	return board.BoardEvent{
		Type:       board.EventBoardState,
		Placements: b.Placements(),
		Geometry:   &g,
	}
}
