package navigation

import (
	"errors"
	"fmt"
	"sync"
)

// Target names a navigable screen.
type Target string

const (
	Root       Target = "/"
	NewGame    Target = "NewGame"
	ResumeGame Target = "ResumeGame"
	Stats      Target = "Stats"
	HowTo      Target = "HowTo"
)

var (
	ErrUnknownTarget = errors.New("unknown navigation target")
	ErrAtRoot        = errors.New("already at root")
)

// Targets lists every target a router accepts.
var Targets = []Target{Root, NewGame, ResumeGame, Stats, HowTo}

// Valid reports whether t is a known target.
func (t Target) Valid() bool {
	for _, known := range Targets {
		if t == known {
			return true
		}
	}
	return false
}

// Router is the routing collaborator the screens navigate with.
type Router interface {
	Navigate(target Target) error
	GoBack() error
	Current() Target
}

// StackRouter keeps a history stack that always starts at Root.
// Navigating to Root unwinds the stack instead of pushing a second root.
type StackRouter struct {
	mu    sync.Mutex
	items []Target

	// OnChange, if set, is called with the new current target after every change.
	OnChange func(from, to Target)
}

func NewStackRouter() *StackRouter {
	return &StackRouter{items: []Target{Root}}
}

func (r *StackRouter) Navigate(target Target) error {
	if !target.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
	r.mu.Lock()
	from := r.items[len(r.items)-1]
	if target == Root {
		r.items = r.items[:1]
	} else {
		r.items = append(r.items, target)
	}
	onChange := r.OnChange
	r.mu.Unlock()

	if onChange != nil {
		onChange(from, target)
	}
	return nil
}

func (r *StackRouter) GoBack() error {
	r.mu.Lock()
	if len(r.items) == 1 {
		r.mu.Unlock()
		return ErrAtRoot
	}
	from := r.items[len(r.items)-1]
	r.items = r.items[:len(r.items)-1]
	to := r.items[len(r.items)-1]
	onChange := r.OnChange
	r.mu.Unlock()

	if onChange != nil {
		onChange(from, to)
	}
	return nil
}

func (r *StackRouter) Current() Target {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[len(r.items)-1]
}

// Depth is the number of entries on the history stack, root included.
func (r *StackRouter) Depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
