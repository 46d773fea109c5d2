package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jason-s-yu/solitaire/internal/board"
	"github.com/jason-s-yu/solitaire/internal/orientation"
)

// dragState tracks a mouse gesture on a card between press and release.
type dragState struct {
	cardID string
	value  string
	startX int
	startY int
	curX   int
	curY   int
}

func (d *dragState) dx() int { return d.curX - d.startX }
func (d *dragState) dy() int { return d.curY - d.startY }

func (m *Model) updateBoard(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "backspace":
			if m.drag != nil {
				m.cancelDrag("drag cancelled")
				return nil
			}
			if err := m.game.Back(); err != nil {
				m.setError(err.Error())
			}
		case "q":
			return m.quit()
		}

	case tea.BlurMsg:
		m.cancelDrag("drag cancelled")

	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			m.cancelDrag("drag cancelled")
			return
		}
		p, ok := m.cardAt(msg.X, msg.Y)
		if !ok {
			return
		}
		m.drag = &dragState{
			cardID: p.CardID,
			value:  p.Value,
			startX: msg.X,
			startY: msg.Y,
			curX:   msg.X,
			curY:   msg.Y,
		}

	case tea.MouseActionMotion:
		if m.drag != nil {
			m.drag.curX, m.drag.curY = msg.X, msg.Y
		}

	case tea.MouseActionRelease:
		if m.drag == nil {
			return
		}
		d := m.drag
		d.curX, d.curY = msg.X, msg.Y
		m.drag = nil

		res, err := m.game.Drag(board.DragEnded{
			CardID: d.cardID,
			DX:     float64(d.dx()),
			DY:     float64(d.dy()),
		})
		if err != nil {
			m.setError(err.Error())
			return
		}
		if res.Accepted {
			m.setStatus(fmt.Sprintf("%s moved to column %d", d.value, res.To+1))
		} else {
			m.setError(fmt.Sprintf("%s dropped off the table", d.value))
		}
	}
}

// cancelDrag abandons the gesture in progress. An interrupted drag never reaches the board.
func (m *Model) cancelDrag(reason string) {
	if m.drag == nil {
		return
	}
	m.logger.WithField("card", m.drag.cardID).Debug("Drag interrupted")
	m.drag = nil
	m.setStatus(reason)
}

// cardAt returns the topmost card whose face covers cell (x, y).
func (m *Model) cardAt(x, y int) (board.Placement, bool) {
	b := m.game.Board()
	if b == nil {
		return board.Placement{}, false
	}
	g := b.Geometry
	ps := b.Placements()
	for i := len(ps) - 1; i >= 0; i-- {
		p := ps[i]
		left, top := cell(p.X), cell(p.Y)
		if x >= left && x < left+int(g.CardWidth) && y >= top && y < top+int(g.CardHeight) {
			return p, true
		}
	}
	return board.Placement{}, false
}

func cell(v float64) int {
	return int(math.Round(v))
}

func (m *Model) viewBoard() string {
	b := m.game.Board()
	if b == nil {
		return statusErrStyle.Render(m.status) + "\n\n" + helpLine("esc", "back")
	}
	g := b.Geometry
	width := int(g.TableWidth)
	rows := tableTop + int(g.CardHeight) + 1

	canvas := make([][]rune, rows)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}
	for col := 0; col < board.Columns; col++ {
		label := strconv.Itoa(col + 1)
		x := int(float64(col)*g.ColumnWidth + g.ColumnWidth/2)
		putString(canvas, x, tableTop-1, label)
	}
	for _, p := range b.Placements() {
		if m.drag != nil && m.drag.cardID == p.CardID {
			continue
		}
		drawCard(canvas, cell(p.X), cell(p.Y), int(g.CardWidth), int(g.CardHeight), p.Value)
	}
	if d := m.drag; d != nil {
		if p, ok := placementOf(b, d.cardID); ok {
			drawCard(canvas, cell(p.X)+d.dx(), cell(p.Y)+d.dy(), int(g.CardWidth), int(g.CardHeight), p.Value)
		}
	}

	lines := make([]string, 0, rows+2)
	lines = append(lines, m.boardHeader(b))
	for _, row := range canvas[1:] {
		lines = append(lines, tableStyle.Render(string(row)))
	}
	if m.failed {
		lines = append(lines, statusErrStyle.Render(m.status))
	} else {
		lines = append(lines, statusOKStyle.Render(m.status))
	}
	lines = append(lines, helpLine("drag", "move a card", "esc", "menu", "q", "quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) boardHeader(b *board.Board) string {
	orient := "unlocked"
	if o, locked := m.locker.State(); locked {
		orient = string(o)
	}
	text := fmt.Sprintf(" %s  moves: %d  orientation: %s", titleStyle.Render("New Game"), b.MoveCount(), orient)
	return headerStyle.Render(text)
}

// Orientation reports the lock the board screen currently holds.
func (m *Model) Orientation() (orientation.Orientation, bool) {
	return m.locker.State()
}

func placementOf(b *board.Board, id string) (board.Placement, bool) {
	for _, p := range b.Placements() {
		if p.CardID == id {
			return p, true
		}
	}
	return board.Placement{}, false
}

// drawCard draws a boxed card with its value in the corners, clipped to the canvas.
func drawCard(canvas [][]rune, x, y, w, h int, value string) {
	if w < 2 || h < 2 {
		return
	}
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			ch := ' '
			switch {
			case r == 0 && c == 0:
				ch = '┌'
			case r == 0 && c == w-1:
				ch = '┐'
			case r == h-1 && c == 0:
				ch = '└'
			case r == h-1 && c == w-1:
				ch = '┘'
			case r == 0 || r == h-1:
				ch = '─'
			case c == 0 || c == w-1:
				ch = '│'
			}
			putRune(canvas, x+c, y+r, ch)
		}
	}
	putString(canvas, x+1, y+1, value)
	v := []rune(value)
	putString(canvas, x+w-1-len(v), y+h-2, value)
}

func putString(canvas [][]rune, x, y int, s string) {
	for i, r := range []rune(s) {
		putRune(canvas, x+i, y, r)
	}
}

func putRune(canvas [][]rune, x, y int, r rune) {
	if y < 0 || y >= len(canvas) || x < 0 || x >= len(canvas[y]) {
		return
	}
	canvas[y][x] = r
}
