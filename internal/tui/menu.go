package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// menuTop is the row of the first menu entry.
const menuTop = 2

func (m *Model) updateMenu(msg tea.Msg) tea.Cmd {
	entries := len(m.menu.Menu.Entries)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q":
			return m.quit()
		case "up", "k":
			m.cursor = (m.cursor + entries - 1) % entries
		case "down", "j", "tab":
			m.cursor = (m.cursor + 1) % entries
		case "enter", " ":
			m.selectEntry(m.cursor)
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			m.selectEntry(int(key[0] - '1'))
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if i := msg.Y - menuTop; i >= 0 && i < entries {
			m.cursor = i
			m.selectEntry(i)
		}
	}
	return nil
}

func (m *Model) selectEntry(i int) {
	if err := m.menu.Select(i); err != nil {
		m.logger.WithError(err).Debug("Menu selection ignored")
		return
	}
	m.cursor = i
}

func (m *Model) viewMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.menu.Menu.Title))
	b.WriteString("\n\n")
	for i, e := range m.menu.Menu.Entries {
		line := fmt.Sprintf("%d. %s", i+1, e.Label)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(entryStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpLine("↑/↓", "move", "enter", "select", "q", "quit"))
	return b.String()
}
