package navigation

import (
	"errors"
	"fmt"
)

var ErrNoSuchEntry = errors.New("no such menu entry")

// MenuTitle is shown above the menu entries.
const MenuTitle = "Solitaire"

type MenuEntry struct {
	Label  string `json:"label"`
	Target Target `json:"target"`
}

// Menu is the stateless home menu.
type Menu struct {
	Title   string      `json:"title"`
	Entries []MenuEntry `json:"entries"`
}

// HomeMenu returns the home menu in display order.
func HomeMenu() Menu {
	return Menu{
		Title: MenuTitle,
		Entries: []MenuEntry{
			{Label: "New Game", Target: NewGame},
			{Label: "Resume Game", Target: ResumeGame},
			{Label: "Stats", Target: Stats},
			{Label: "How To", Target: HowTo},
		},
	}
}

// Select navigates to the target of entry i.
func (m Menu) Select(i int, r Router) error {
	if i < 0 || i >= len(m.Entries) {
		return fmt.Errorf("%w: %d", ErrNoSuchEntry, i)
	}
	return r.Navigate(m.Entries[i].Target)
}
