// internal/handlers/board_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/solitaire/internal/board"
	"github.com/jason-s-yu/solitaire/internal/middleware"
	"github.com/jason-s-yu/solitaire/internal/orientation"
	"github.com/sirupsen/logrus"
)

// BoardMessage represents an incoming websocket message from a board client.
type BoardMessage struct {
	Type   string  `json:"type"`
	CardID string  `json:"card_id,omitempty"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
}

// wsLocker drives the device orientation through its board websocket.
type wsLocker struct {
	conn *websocket.Conn
}

func (l *wsLocker) Lock(ctx context.Context, o orientation.Orientation) error {
	return writeEvent(ctx, l.conn, board.BoardEvent{Type: board.EventOrientationLock, Orientation: string(o)})
}

func (l *wsLocker) Unlock(ctx context.Context) error {
	err := writeEvent(ctx, l.conn, board.BoardEvent{Type: board.EventOrientationUnlock})
	if websocket.CloseStatus(err) != -1 || errors.Is(err, net.ErrClosed) {
		// the device already left; there is nothing to unlock
		return nil
	}
	return err
}

// BoardWSHandler upgrades the HTTP connection to a websocket for one board.
// It checks the seat token, locks the device to landscape for the lifetime of the
// connection, sends the board state and then reads drag events until the client leaves.
func BoardWSHandler(s *BoardServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardID, err := boardIDFromPath(r)
		if err != nil {
			http.Error(w, "Invalid board_id format", http.StatusBadRequest)
			return
		}
		b, ok := s.Store.GetBoard(boardID)
		if !ok {
			http.Error(w, "Board not found", http.StatusNotFound)
			return
		}
		if err := s.Seats.AuthorizeSeat(extractSeatToken(r), boardID); err != nil {
			s.Logger.Warnf("Seat check failed for board %s: %v", boardID, err)
			http.Error(w, "invalid seat token", http.StatusForbidden)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"board"},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			s.Logger.Warnf("WebSocket accept error for board %s: %v", boardID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "board" {
			c.Close(BadSubprotocolError, "Client must use the 'board' subprotocol.")
			return
		}
		middleware.LogWebSocketConnect(s.Logger, r.RemoteAddr, boardID)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		release := orientation.Acquire(ctx, &wsLocker{conn: c}, orientation.Landscape, s.Logger)
		defer release()

		s.addConn(boardID, c)
		defer s.removeConn(boardID, c)

		if err := writeEvent(ctx, c, stateEvent(b)); err != nil {
			middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, boardID, err)
			return
		}

		err = readBoardMessages(ctx, c, s, b, s.Logger)
		middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, boardID, err)
	}
}

// readBoardMessages reads client messages until the connection ends or the board is closed.
// A normal closure returns nil.
func readBoardMessages(ctx context.Context, c *websocket.Conn, s *BoardServer, b *board.Board, logger *logrus.Logger) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			logger.Warnf("Received non-text message type %d on board %s. Ignoring.", msgType, b.ID)
			continue
		}

		var msg BoardMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sendWsError(ctx, c, "Invalid JSON format.")
			continue
		}

		if _, live := s.Store.GetBoard(b.ID); !live {
			c.Close(BoardGoneError, "board closed")
			return nil
		}

		switch msg.Type {
		case "drag_end":
			if msg.CardID == "" {
				sendWsError(ctx, c, "drag_end requires card_id.")
				continue
			}
			// the resolution reaches this client through the board broadcast
			b.HandleDragEnded(board.DragEnded{CardID: msg.CardID, DX: msg.DX, DY: msg.DY})

		case "sync":
			if err := writeEvent(ctx, c, stateEvent(b)); err != nil {
				return err
			}

		case "ping":
			logger.Tracef("Received ping on board %s, sending pong.", b.ID)
			if err := writeMessage(ctx, c, map[string]string{"type": "pong"}); err != nil {
				return err
			}

		default:
			sendWsError(ctx, c, fmt.Sprintf("Unknown message type: %s", msg.Type))
		}
	}
}

func writeEvent(ctx context.Context, c *websocket.Conn, ev board.BoardEvent) error {
	return writeMessage(ctx, c, ev)
}

// writeMessage marshals a message and writes it with a timeout.
func writeMessage(ctx context.Context, c *websocket.Conn, message interface{}) error {
	msgBytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal websocket message: %w", err)
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.Write(writeCtx, websocket.MessageText, msgBytes)
}

// sendWsError sends a structured error message to the client.
func sendWsError(ctx context.Context, c *websocket.Conn, errorMsg string) {
	_ = writeMessage(ctx, c, map[string]interface{}{
		"type":    "error",
		"message": errorMsg,
	})
}

// boardWatchers reports how many websocket clients watch boardID.
func (s *BoardServer) boardWatchers(boardID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns[boardID])
}
