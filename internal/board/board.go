// internal/board/board.go
package board

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/solitaire/internal/models"
)

var (
	// ErrDuplicateCard is returned when a board is built with two cards sharing an id.
	ErrDuplicateCard = errors.New("duplicate card id")
	// ErrColumnOutOfRange is returned when a board is built with a card off the table.
	ErrColumnOutOfRange = errors.New("column out of range")
)

// OnMoveFunc is invoked after every drag resolution, accepted or not.
// It is called without the state lock held, one call at a time per board,
// in Seq order. It must not resolve drags on the same board.
type OnMoveFunc func(b *Board, res MoveResult)

// InitialCards returns the fixed card list a new board starts with.
func InitialCards() []models.Card {
	return []models.Card{
		{ID: "1", Value: "A♠", Column: 0},
		{ID: "2", Value: "K♥", Column: 1},
		{ID: "3", Value: "Q♣", Column: 2},
		{ID: "4", Value: "J♦", Column: 3},
	}
}

// Placement is the resting position of one card, derived from its column.
type Placement struct {
	CardID string  `json:"card_id"`
	Value  string  `json:"value"`
	Column int     `json:"column"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Board is the authoritative mapping of each in-play card to its column.
// All mutation goes through MoveCard or HandleDragEnded.
type Board struct {
	ID        uuid.UUID
	Geometry  Geometry
	CreatedAt time.Time

	// OnMove is used to broadcast and record resolutions. If nil, nothing is done.
	OnMove OnMoveFunc

	// emitMu orders resolution and OnMove; mu guards the card state.
	emitMu sync.Mutex

	mu       sync.Mutex
	cards    []models.Card
	index    map[string]int
	moves    int
	lastMove time.Time
}

// New builds a board from cards. The slice is copied.
func New(geometry Geometry, cards []models.Card) (*Board, error) {
	index := make(map[string]int, len(cards))
	for i, c := range cards {
		if _, dup := index[c.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCard, c.ID)
		}
		if !ValidColumn(c.Column) {
			return nil, fmt.Errorf("%w: card %q in column %d", ErrColumnOutOfRange, c.ID, c.Column)
		}
		index[c.ID] = i
	}
	now := time.Now()
	return &Board{
		ID:        uuid.New(),
		Geometry:  geometry,
		CreatedAt: now,
		cards:     append([]models.Card(nil), cards...),
		index:     index,
		lastMove:  now,
	}, nil
}

// NewDefault builds a board holding InitialCards.
func NewDefault(geometry Geometry) *Board {
	b, err := New(geometry, InitialCards())
	if err != nil {
		// InitialCards is a fixed, valid list.
		panic(err)
	}
	return b
}

// Cards returns a snapshot of the board. Later moves never alter it.
func (b *Board) Cards() []models.Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Card(nil), b.cards...)
}

// Card returns the card with id.
func (b *Board) Card(id string) (models.Card, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i, ok := b.index[id]
	if !ok {
		return models.Card{}, false
	}
	return b.cards[i], true
}

// MoveCard places card id in column. It reports false, leaving the board
// untouched, when the card is unknown or the column is off the table.
func (b *Board) MoveCard(id string, column int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.moveLocked(id, column)
	return ok
}

// moveLocked swaps in a new card slice with one entry replaced. Callers must hold mu.
func (b *Board) moveLocked(id string, column int) (from int, ok bool) {
	i, found := b.index[id]
	if !found {
		return -1, false
	}
	from = b.cards[i].Column
	if !ValidColumn(column) {
		return from, false
	}
	next := append([]models.Card(nil), b.cards...)
	next[i].Column = column
	b.cards = next
	return from, true
}

// HandleDragEnded resolves a released drag against the board geometry and applies it.
// Unknown cards and off-table resolutions are rejected with no state change.
func (b *Board) HandleDragEnded(ev DragEnded) MoveResult {
	to, _ := b.Geometry.ResolveColumn(ev.DX)

	b.emitMu.Lock()
	defer b.emitMu.Unlock()

	b.mu.Lock()
	from, accepted := b.moveLocked(ev.CardID, to)
	b.moves++
	seq := b.moves
	b.lastMove = time.Now()
	onMove := b.OnMove
	b.mu.Unlock()

	res := MoveResult{
		CardID:   ev.CardID,
		From:     from,
		To:       to,
		Accepted: accepted,
		DX:       ev.DX,
		DY:       ev.DY,
		Seq:      seq,
	}
	if onMove != nil {
		onMove(b, res)
	}
	return res
}

// Placements returns the resting position of every card.
func (b *Board) Placements() []Placement {
	cards := b.Cards()
	out := make([]Placement, len(cards))
	for i, c := range cards {
		out[i] = Placement{
			CardID: c.ID,
			Value:  c.Value,
			Column: c.Column,
			X:      b.Geometry.RestingX(c.Column),
			Y:      b.Geometry.CardTop,
		}
	}
	return out
}

// MoveCount is the number of drags resolved so far, accepted or not.
func (b *Board) MoveCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.moves
}

// LastActivity is the time of the last resolved drag, or creation time.
func (b *Board) LastActivity() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastMove
}

// Record converts a resolution into a historian record.
func (b *Board) Record(res MoveResult) models.MoveRecord {
	action := models.ActionMoveRejected
	if res.Accepted {
		action = models.ActionCardMoved
	}
	return models.MoveRecord{
		BoardID:     b.ID,
		ActionIndex: res.Seq,
		CardID:      res.CardID,
		ActionType:  action,
		FromColumn:  res.From,
		ToColumn:    res.To,
		DX:          res.DX,
		DY:          res.DY,
		Timestamp:   time.Now().UnixMilli(),
	}
}
