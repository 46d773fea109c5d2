package handlers

import (
	"net/http"

	"github.com/jason-s-yu/solitaire/internal/middleware"
)

// Routes builds the HTTP surface of the board service.
func (s *BoardServer) Routes() http.Handler {
	mux := http.NewServeMux()
	logged := middleware.LogMiddleware(s.Logger)

	mux.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})
	mux.Handle("GET /menu", logged(http.HandlerFunc(MenuHandler)))

	// board endpoints
	mux.Handle("POST /board/create", logged(CreateBoardHandler(s)))
	mux.Handle("GET /board/{id}", logged(GetBoardHandler(s)))
	mux.Handle("POST /board/{id}/drag", logged(DragHandler(s)))
	mux.Handle("DELETE /board/{id}", logged(CloseBoardHandler(s)))

	// board ws
	mux.Handle("GET /board/ws/{id}", logged(BoardWSHandler(s)))

	return mux
}
