// internal/models/card.go
package models

// Card is a single card in play on the board.
// Value is display data only; Column is the one field that changes over a session.
type Card struct {
	ID     string `json:"id"`
	Value  string `json:"value"`
	Column int    `json:"column"`
}
