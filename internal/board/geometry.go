// internal/board/geometry.go
package board

import (
	"errors"
	"fmt"
	"math"
)

// Columns is the fixed number of tableau columns on the table.
const Columns = 7

// Default card dimensions and top offset, in device units.
const (
	DefaultCardWidth  = 80
	DefaultCardHeight = 120
	DefaultCardTop    = 40
)

// ErrInvalidGeometry is returned when screen or card dimensions are not positive.
var ErrInvalidGeometry = errors.New("invalid board geometry")

// Geometry holds the layout constants of a table. It is computed once from the
// device screen and never changes for the lifetime of a board.
type Geometry struct {
	TableWidth  float64 `json:"table_width"`
	ColumnWidth float64 `json:"column_width"`
	CardWidth   float64 `json:"card_width"`
	CardHeight  float64 `json:"card_height"`
	CardTop     float64 `json:"card_top"`
}

// NewGeometry derives the layout from the screen dimensions. The board is always
// played in landscape, so the long edge of the screen becomes the table width.
func NewGeometry(screenWidth, screenHeight, cardWidth, cardHeight float64) (Geometry, error) {
	if screenWidth <= 0 || screenHeight <= 0 {
		return Geometry{}, fmt.Errorf("%w: screen %vx%v", ErrInvalidGeometry, screenWidth, screenHeight)
	}
	if cardWidth <= 0 || cardHeight <= 0 {
		return Geometry{}, fmt.Errorf("%w: card %vx%v", ErrInvalidGeometry, cardWidth, cardHeight)
	}
	table := math.Max(screenWidth, screenHeight)
	return Geometry{
		TableWidth:  table,
		ColumnWidth: table / Columns,
		CardWidth:   cardWidth,
		CardHeight:  cardHeight,
		CardTop:     DefaultCardTop,
	}, nil
}

// ResolveColumn maps the cumulative drag displacement at release to a column.
// Drag deltas are relative to the card's start, so half the table width is added
// back before dividing. The bool is false when the index lands off the table;
// off-table indices are clamped to -1 or Columns so they always fit in an int4.
func (g Geometry) ResolveColumn(dx float64) (int, bool) {
	f := math.Floor((dx + g.TableWidth/2) / g.ColumnWidth)
	switch {
	case math.IsNaN(f) || f < 0:
		return -1, false
	case f >= Columns:
		return Columns, false
	}
	return int(f), true
}

// RestingX is the left edge of a card resting in column, centred in the column.
func (g Geometry) RestingX(column int) float64 {
	return float64(column)*g.ColumnWidth + (g.ColumnWidth-g.CardWidth)/2
}

// CenterDisplacement returns the drag displacement that resolves to the centre of column.
func (g Geometry) CenterDisplacement(column int) float64 {
	return (float64(column)+0.5)*g.ColumnWidth - g.TableWidth/2
}

// ValidColumn reports whether column is on the table.
func ValidColumn(column int) bool {
	return column >= 0 && column < Columns
}
