// internal/handlers/board_ws_test.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/solitaire/internal/board"
	"github.com/jason-s-yu/solitaire/internal/orientation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialBoard(ctx context.Context, t *testing.T, srv *httptest.Server, boardID, token string) *websocket.Conn {
	t.Helper()
	c, _, err := websocket.Dial(ctx, srv.URL+"/board/ws/"+boardID, &websocket.DialOptions{
		Subprotocols: []string{"board"},
		HTTPHeader:   http.Header{"Authorization": []string{"Bearer " + token}},
	})
	require.NoError(t, err)
	return c
}

func readEvent(ctx context.Context, t *testing.T, c *websocket.Conn) board.BoardEvent {
	t.Helper()
	_, data, err := c.Read(ctx)
	require.NoError(t, err)
	var ev board.BoardEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func sendMessage(ctx context.Context, t *testing.T, c *websocket.Conn, msg BoardMessage) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, c.Write(ctx, websocket.MessageText, data))
}

// expectHandshake reads the landscape lock and the initial board state.
func expectHandshake(ctx context.Context, t *testing.T, c *websocket.Conn) board.BoardEvent {
	t.Helper()
	lock := readEvent(ctx, t, c)
	assert.Equal(t, board.EventOrientationLock, lock.Type)
	assert.Equal(t, string(orientation.Landscape), lock.Orientation)

	state := readEvent(ctx, t, c)
	require.Equal(t, board.EventBoardState, state.Type)
	return state
}

func TestBoardWebSocketDrag(t *testing.T) {
	s, pub := newTestServer(t)
	srv := httptest.NewServer(s.Routes())
	defer srv.Close()
	created := createBoard(t, s.Routes())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := dialBoard(ctx, t, srv, created.BoardID, created.Token)
	defer a.CloseNow()
	state := expectHandshake(ctx, t, a)
	require.NotNil(t, state.Geometry)
	assert.Equal(t, 700.0, state.Geometry.TableWidth)
	assert.Len(t, state.Placements, 4)

	b := dialBoard(ctx, t, srv, created.BoardID, created.Token)
	defer b.CloseNow()
	expectHandshake(ctx, t, b)
	assert.Equal(t, 2, s.boardWatchers(uuid.MustParse(created.BoardID)))

	// (250 + 350) / 100 = 6 -> last column
	sendMessage(ctx, t, a, BoardMessage{Type: "drag_end", CardID: "3", DX: 250, DY: -10})
	for _, c := range []*websocket.Conn{a, b} {
		ev := readEvent(ctx, t, c)
		assert.Equal(t, board.EventCardMoved, ev.Type)
		require.NotNil(t, ev.Move)
		assert.Equal(t, "3", ev.Move.CardID)
		assert.Equal(t, 2, ev.Move.From)
		assert.Equal(t, 6, ev.Move.To)
	}

	// (350 + 350) / 100 = 7, off the table
	sendMessage(ctx, t, b, BoardMessage{Type: "drag_end", CardID: "3", DX: 350})
	for _, c := range []*websocket.Conn{a, b} {
		ev := readEvent(ctx, t, c)
		assert.Equal(t, board.EventMoveRejected, ev.Type)
		require.NotNil(t, ev.Move)
		assert.Equal(t, 7, ev.Move.To)
	}

	sendMessage(ctx, t, a, BoardMessage{Type: "sync"})
	state = readEvent(ctx, t, a)
	require.Equal(t, board.EventBoardState, state.Type)
	assert.Equal(t, 6, state.Placements[2].Column)

	assert.Len(t, pub.Records(), 2)

	a.Close(websocket.StatusNormalClosure, "")
	assert.Eventually(t, func() bool {
		return s.boardWatchers(uuid.MustParse(created.BoardID)) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBoardWebSocketPingAndErrors(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Routes())
	defer srv.Close()
	created := createBoard(t, s.Routes())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := dialBoard(ctx, t, srv, created.BoardID, created.Token)
	defer c.CloseNow()
	expectHandshake(ctx, t, c)

	read := func() map[string]interface{} {
		_, data, err := c.Read(ctx)
		require.NoError(t, err)
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	sendMessage(ctx, t, c, BoardMessage{Type: "ping"})
	assert.Equal(t, "pong", read()["type"])

	sendMessage(ctx, t, c, BoardMessage{Type: "shuffle"})
	m := read()
	assert.Equal(t, "error", m["type"])
	assert.Contains(t, m["message"], "shuffle")

	sendMessage(ctx, t, c, BoardMessage{Type: "drag_end"})
	m = read()
	assert.Equal(t, "error", m["type"])

	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte("{oops")))
	m = read()
	assert.Equal(t, "Invalid JSON format.", m["message"])
}

func TestBoardWebSocketRefusals(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Routes())
	defer srv.Close()
	created := createBoard(t, s.Routes())
	other := createBoard(t, s.Routes())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, resp, err := websocket.Dial(ctx, srv.URL+"/board/ws/"+created.BoardID, &websocket.DialOptions{
		Subprotocols: []string{"board"},
		HTTPHeader:   http.Header{"Authorization": []string{"Bearer " + other.Token}},
	})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, resp, err = websocket.Dial(ctx, srv.URL+"/board/ws/"+uuid.NewString(), &websocket.DialOptions{
		Subprotocols: []string{"board"},
	})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	c, _, err := websocket.Dial(ctx, srv.URL+"/board/ws/"+created.BoardID+"?token="+created.Token, nil)
	require.NoError(t, err)
	defer c.CloseNow()
	_, _, err = c.Read(ctx)
	assert.Equal(t, websocket.StatusCode(BadSubprotocolError), websocket.CloseStatus(err))
}

func TestBoardWebSocketClosedBoard(t *testing.T) {
	s, pub := newTestServer(t)
	srv := httptest.NewServer(s.Routes())
	defer srv.Close()
	created := createBoard(t, s.Routes())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := dialBoard(ctx, t, srv, created.BoardID, created.Token)
	defer c.CloseNow()
	expectHandshake(ctx, t, c)

	done := make(chan int, 1)
	go func() {
		req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/board/"+created.BoardID, nil)
		req.Header.Set("Authorization", "Bearer "+created.Token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			done <- 0
			return
		}
		resp.Body.Close()
		done <- resp.StatusCode
	}()

	ev := readEvent(ctx, t, c)
	assert.Equal(t, board.EventBoardClosed, ev.Type)
	_, _, err := c.Read(ctx)
	assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))

	select {
	case code := <-done:
		assert.Equal(t, http.StatusNoContent, code)
	case <-ctx.Done():
		t.Fatal("close request did not finish")
	}

	recs := pub.Records()
	require.NotEmpty(t, recs)
	assert.Equal(t, "board_closed", recs[len(recs)-1].ActionType)
}
