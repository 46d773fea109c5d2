package screen

import (
	"github.com/jason-s-yu/solitaire/internal/navigation"
)

// MenuScreen is the home screen. It holds no state of its own.
type MenuScreen struct {
	Menu   navigation.Menu
	Router navigation.Router
}

func NewMenuScreen(r navigation.Router) *MenuScreen {
	return &MenuScreen{Menu: navigation.HomeMenu(), Router: r}
}

// Select navigates to the target of menu entry i.
func (s *MenuScreen) Select(i int) error {
	return s.Menu.Select(i, s.Router)
}
