// Package tui is the terminal client: the home menu and the board, driven by the mouse.
package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jason-s-yu/solitaire/internal/board"
	"github.com/jason-s-yu/solitaire/internal/navigation"
	"github.com/jason-s-yu/solitaire/internal/orientation"
	"github.com/jason-s-yu/solitaire/internal/screen"
	"github.com/sirupsen/logrus"
)

// Terminal layout, in cells.
const (
	defaultWidth  = 80
	defaultHeight = 24

	cardCellsWide = 7
	cardCellsHigh = 5
	// tableTop is the first row cards rest on; row 0 is the header, row 1 the column labels.
	tableTop = 2
)

// Model is the bubbletea model of the terminal client. The current screen is
// whatever the router says; route changes mount and unmount the board.
type Model struct {
	router *navigation.StackRouter
	menu   *screen.MenuScreen
	game   *screen.BoardScreen
	locker *orientation.Recorder
	logger *logrus.Logger

	width, height int
	cursor        int

	drag   *dragState
	status string
	failed bool
}

// NewModel builds the client at the home menu. A nil logger discards output.
func NewModel(logger *logrus.Logger) *Model {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	m := &Model{
		router: navigation.NewStackRouter(),
		locker: &orientation.Recorder{},
		logger: logger,
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.menu = screen.NewMenuScreen(m.router)
	m.game = screen.NewBoardScreen(board.Geometry{}, m.router, m.locker, logger)
	m.game.OnMove = m.onMove
	m.router.OnChange = m.routeChanged
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Current is the screen on top of the history stack.
func (m *Model) Current() navigation.Target {
	return m.router.Current()
}

// Board returns the mounted board, or nil off the board screen.
func (m *Model) Board() *board.Board {
	return m.game.Board()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.cancelDrag("window resized")
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
	}

	switch m.router.Current() {
	case navigation.Root:
		return m, m.updateMenu(msg)
	case navigation.NewGame:
		return m, m.updateBoard(msg)
	default:
		return m, m.updatePage(msg)
	}
}

func (m *Model) View() string {
	switch m.router.Current() {
	case navigation.Root:
		return m.viewMenu()
	case navigation.NewGame:
		return m.viewBoard()
	default:
		return m.viewPage()
	}
}

// quit releases the board, if any, before the program exits.
func (m *Model) quit() tea.Cmd {
	m.game.Unmount()
	return tea.Quit
}

// routeChanged mounts the board when the board screen is entered and
// unmounts it as soon as it is left, whichever way it was left.
func (m *Model) routeChanged(from, to navigation.Target) {
	m.logger.WithFields(logrus.Fields{"from": from, "to": to}).Debug("Route changed")
	if from == navigation.NewGame && to != navigation.NewGame {
		m.drag = nil
		m.game.Unmount()
	}
	if to != navigation.NewGame {
		return
	}

	g, err := terminalGeometry(m.width, m.height)
	if err != nil {
		m.setError(err.Error())
		return
	}
	m.game.Geometry = g
	if _, err := m.game.Mount(context.Background()); err != nil {
		m.setError(err.Error())
		return
	}
	m.status, m.failed = "", false
}

func (m *Model) onMove(b *board.Board, res board.MoveResult) {
	m.logger.WithFields(logrus.Fields{
		"board":    b.ID,
		"card":     res.CardID,
		"from":     res.From,
		"to":       res.To,
		"accepted": res.Accepted,
	}).Info("Drag resolved")
}

func (m *Model) setStatus(s string) {
	m.status, m.failed = s, false
}

func (m *Model) setError(s string) {
	m.status, m.failed = s, true
}

// terminalGeometry lays the table out across the terminal.
func terminalGeometry(width, height int) (board.Geometry, error) {
	if width <= 0 || height <= 0 {
		width, height = defaultWidth, defaultHeight
	}
	g, err := board.NewGeometry(float64(width), float64(height), cardCellsWide, cardCellsHigh)
	if err != nil {
		return board.Geometry{}, err
	}
	g.CardTop = tableTop
	return g, nil
}
