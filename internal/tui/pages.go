package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jason-s-yu/solitaire/internal/navigation"
)

const howToText = `Drag a card with the mouse and release it.
Where it lands depends only on how far you dragged it, not where it started:
releasing a card without moving it drops it in the middle column (4), and every
column width dragged right or left moves it one column further that way.
A drop that would land past the first or last column is refused and the card stays put.
Press esc on the board to return to the menu.`

// pageContent holds the static screens reachable from the menu.
var pageContent = map[navigation.Target]struct {
	title string
	body  string
}{
	navigation.ResumeGame: {"Resume Game", "No saved game to resume."},
	navigation.Stats:      {"Stats", "No games played yet."},
	navigation.HowTo:      {"How To", howToText},
}

func (m *Model) updatePage(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "esc", "backspace", "left", "h":
		if err := m.router.GoBack(); err != nil {
			m.logger.WithError(err).Debug("Back ignored")
		}
	case "q":
		return m.quit()
	}
	return nil
}

func (m *Model) viewPage() string {
	page, ok := pageContent[m.router.Current()]
	if !ok {
		page.title = string(m.router.Current())
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(page.title))
	b.WriteString("\n\n")
	if page.body != "" {
		b.WriteString(bodyStyle.Render(page.body))
		b.WriteString("\n\n")
	}
	b.WriteString(helpLine("esc", "back", "q", "quit"))
	return b.String()
}
