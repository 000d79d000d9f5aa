package style

import (
	"strings"
	"sync"
)

// State carries the interaction flags that select class variants.
type State uint8

const (
	// StateHover is set while the pointer is over the node.
	StateHover State = 1 << iota
	// StateFocus is set while the node holds keyboard focus.
	StateFocus
	// StatePress is set while a pointer button is down on the node.
	StatePress
)

// Hovered reports whether the hover flag is set.
func (s State) Hovered() bool { return s&StateHover != 0 }

// Focused reports whether the focus flag is set.
func (s State) Focused() bool { return s&StateFocus != 0 }

// Pressed reports whether the press flag is set.
func (s State) Pressed() bool { return s&StatePress != 0 }

// Resolver maps a node's class attribute to a resolved style. Resolution
// must be pure: for a given (class, state) pair the same properties come
// back every time, so results may be cached and shared. A class string is
// a whitespace-separated list of class names merged left to right over the
// default style; unknown names are ignored.
type Resolver interface {
	Resolve(class string, state State) *Style
}

// Class is one named entry in a Sheet: a base partial plus optional
// variants merged on top when the matching interaction state is active.
type Class struct {
	Base  Partial
	Hover *Partial
	Focus *Partial
	Press *Partial
}

// Sheet is the built-in Resolver. Definitions come from ParseSheet or
// Define; resolved styles are cached per (class, state) pair.
type Sheet struct {
	mu      sync.RWMutex
	classes map[string]Class
	cache   map[resolveKey]*Style
}

type resolveKey struct {
	class string
	state State
}

// NewSheet returns an empty stylesheet.
func NewSheet() *Sheet {
	return &Sheet{
		classes: make(map[string]Class),
		cache:   make(map[resolveKey]*Style),
	}
}

// Define adds or replaces a class and invalidates the resolve cache.
func (s *Sheet) Define(name string, c Class) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes[name] = c
	s.cache = make(map[resolveKey]*Style)
}

// Resolve implements Resolver. The returned style is shared across calls
// with the same key and must not be mutated.
func (s *Sheet) Resolve(class string, state State) *Style {
	key := resolveKey{class: class, state: state}
	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return cached
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.cache[key]; ok {
		return cached
	}
	resolved := s.resolveLocked(class, state)
	s.cache[key] = resolved
	return resolved
}

func (s *Sheet) resolveLocked(class string, state State) *Style {
	st := Default()
	names := strings.Fields(class)

	for _, name := range names {
		if def, ok := s.classes[name]; ok {
			def.Base.ApplyTo(&st)
		}
	}
	// Variants layer over every base in a fixed order so that, e.g., a
	// pressed node keeps its hover overrides underneath the press ones.
	if state.Hovered() {
		for _, name := range names {
			if def, ok := s.classes[name]; ok {
				def.Hover.ApplyTo(&st)
			}
		}
	}
	if state.Focused() {
		for _, name := range names {
			if def, ok := s.classes[name]; ok {
				def.Focus.ApplyTo(&st)
			}
		}
	}
	if state.Pressed() {
		for _, name := range names {
			if def, ok := s.classes[name]; ok {
				def.Press.ApplyTo(&st)
			}
		}
	}
	return &st
}
