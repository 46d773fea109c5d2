// internal/handlers/board.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jason-s-yu/solitaire/internal/auth"
	"github.com/jason-s-yu/solitaire/internal/board"
)

type createBoardRequest struct {
	ScreenWidth  float64 `json:"screen_width"`
	ScreenHeight float64 `json:"screen_height"`
}

type createBoardResponse struct {
	BoardID    string            `json:"board_id"`
	Token      string            `json:"token"`
	Geometry   board.Geometry    `json:"geometry"`
	Placements []board.Placement `json:"placements"`
}

type boardStateResponse struct {
	BoardID    string            `json:"board_id"`
	Geometry   board.Geometry    `json:"geometry"`
	Placements []board.Placement `json:"placements"`
	Moves      int               `json:"moves"`
}

// CreateBoardHandler mounts a new board for the calling device and hands back its seat token.
func CreateBoardHandler(s *BoardServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBoardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid board payload", http.StatusBadRequest)
			return
		}
		b, err := s.NewBoardSession(req.ScreenWidth, req.ScreenHeight)
		if errors.Is(err, board.ErrInvalidGeometry) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, "failed to create board", http.StatusInternalServerError)
			return
		}

		token, err := s.Seats.CreateSeatToken(b.ID)
		if err != nil {
			s.Store.DeleteBoard(b.ID)
			s.Logger.WithError(err).Error("Failed to sign seat token")
			http.Error(w, "failed to create board", http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     auth.CookieName,
			Value:    token,
			HttpOnly: true,
			Path:     "/",
		})
		writeJSON(w, http.StatusCreated, createBoardResponse{
			BoardID:    b.ID.String(),
			Token:      token,
			Geometry:   b.Geometry,
			Placements: b.Placements(),
		})
	}
}

// GetBoardHandler returns the resting placement of every card.
func GetBoardHandler(s *BoardServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := s.lookupBoard(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, boardStateResponse{
			BoardID:    b.ID.String(),
			Geometry:   b.Geometry,
			Placements: b.Placements(),
			Moves:      b.MoveCount(),
		})
	}
}

// DragHandler resolves one released drag. Rejected moves are still 200: rejection
// is a normal outcome, reported in the body.
func DragHandler(s *BoardServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := s.lookupBoard(w, r)
		if !ok || !s.authorize(w, r, b) {
			return
		}
		var ev board.DragEnded
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			http.Error(w, "invalid drag payload", http.StatusBadRequest)
			return
		}
		if ev.CardID == "" {
			http.Error(w, "missing card_id", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, b.HandleDragEnded(ev))
	}
}

// CloseBoardHandler unmounts a board session.
func CloseBoardHandler(s *BoardServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := s.lookupBoard(w, r)
		if !ok || !s.authorize(w, r, b) {
			return
		}
		s.CloseBoardSession(r.Context(), b)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *BoardServer) lookupBoard(w http.ResponseWriter, r *http.Request) (*board.Board, bool) {
	id, err := boardIDFromPath(r)
	if err != nil {
		http.Error(w, "invalid board id", http.StatusBadRequest)
		return nil, false
	}
	b, ok := s.Store.GetBoard(id)
	if !ok {
		http.Error(w, "board not found", http.StatusNotFound)
		return nil, false
	}
	return b, true
}

func (s *BoardServer) authorize(w http.ResponseWriter, r *http.Request, b *board.Board) bool {
	if err := s.Seats.AuthorizeSeat(extractSeatToken(r), b.ID); err != nil {
		http.Error(w, "invalid seat token", http.StatusForbidden)
		return false
	}
	return true
}
