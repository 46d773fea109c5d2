// internal/board/events.go
package board

// DragEnded is emitted by a client when a drag gesture on a card is released.
// DX and DY are the cumulative displacement from the card's resting position.
// An interrupted gesture never produces one.
type DragEnded struct {
	CardID string  `json:"card_id"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
}

// MoveResult is the outcome of resolving one DragEnded event.
// To holds the resolved index even when the move was rejected.
type MoveResult struct {
	CardID   string  `json:"card_id"`
	From     int     `json:"from"`
	To       int     `json:"to"`
	Accepted bool    `json:"accepted"`
	DX       float64 `json:"dx"`
	DY       float64 `json:"dy"`
	Seq      int     `json:"seq"`
}

// BoardEventType is an enum-like type for events sent to board clients.
type BoardEventType string

const (
	EventBoardState        BoardEventType = "board_state"
	EventCardMoved         BoardEventType = "card_moved"
	EventMoveRejected      BoardEventType = "move_rejected"
	EventOrientationLock   BoardEventType = "orientation_lock"
	EventOrientationUnlock BoardEventType = "orientation_unlock"
	EventBoardClosed       BoardEventType = "board_closed"
)

// BoardEvent holds data about an event broadcast to board clients in a consistent format.
type BoardEvent struct {
	Type        BoardEventType `json:"type"`
	Move        *MoveResult    `json:"move,omitempty"`
	Placements  []Placement    `json:"placements,omitempty"`
	Geometry    *Geometry      `json:"geometry,omitempty"`
	Orientation string         `json:"orientation,omitempty"`
}

// EventForMove builds the public event for a resolved drag.
func EventForMove(res MoveResult) BoardEvent {
	ev := BoardEvent{Type: EventMoveRejected, Move: &res}
	if res.Accepted {
		ev.Type = EventCardMoved
	}
	return ev
}
