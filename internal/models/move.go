// internal/models/move.go
package models

import "github.com/google/uuid"

// Move record action types.
const (
	ActionCardMoved    = "card_moved"
	ActionMoveRejected = "move_rejected"
	ActionBoardClosed  = "board_closed"
)

// MoveRecord holds the minimal info needed by the historian to log one drag resolution.
type MoveRecord struct {
	BoardID     uuid.UUID `json:"board_id"`
	ActionIndex int       `json:"action_index"`
	CardID      string    `json:"card_id"`
	ActionType  string    `json:"action_type"`
	FromColumn  int       `json:"from_column"`
	ToColumn    int       `json:"to_column"`
	DX          float64   `json:"dx"`
	DY          float64   `json:"dy"`
	Timestamp   int64     `json:"timestamp"` // epoch millis
}
