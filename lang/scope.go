package lang

import (
	"slices"
)

// Mode selects the frame an assignment writes to.
type Mode int

const (
	// ModeLocal writes to the innermost frame only.
	ModeLocal Mode = iota
	// ModeClosest overwrites the innermost frame already binding the symbol,
	// or declares it in the innermost frame.
	ModeClosest
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "Local"

	case ModeClosest:
		return "Closest"

	default:
		return "Unknown"
	}
}

// Scope is a stack of variable frames. The first frame is the root and can
// never be left.
//
// A Scope is owned by a single render at a time and is not safe for
// concurrent use.
type Scope struct {
	frames []*Map
}

// NewScope returns a scope with an empty root frame.
func NewScope() *Scope {
	return &Scope{frames: []*Map{{}}}
}

// NewScopeFrom returns a scope whose root frame holds the given bindings.
func NewScopeFrom(vars map[string]Value) *Scope {
	s := NewScope()

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}

	slices.Sort(names)

	for _, name := range names {
		s.Set(String(name), vars[name], ModeLocal)
	}

	return s
}

// Depth returns the number of frames, including the root.
func (s *Scope) Depth() int { return len(s.frames) }

// Enter pushes a fresh innermost frame.
func (s *Scope) Enter() {
	s.frames = append(s.frames, &Map{})
}

// Leave pops the innermost frame. It fails with [ErrScopeUnderflow] if only
// the root frame remains.
func (s *Scope) Leave() error {
	if len(s.frames) <= 1 {
		return ErrScopeUnderflow
	}

	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]

	return nil
}

// Get searches the frames from innermost to outermost for symbol.
func (s *Scope) Get(symbol Value) (Value, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].Get(symbol); ok {
			return v, true
		}
	}

	return Void, false
}

// Set binds symbol to value in the frame selected by mode.
func (s *Scope) Set(symbol, value Value, mode Mode) {
	if mode == ModeClosest {
		for i := len(s.frames) - 1; i >= 0; i-- {
			if s.frames[i].Has(symbol) {
				s.frames[i].set(symbol, value)

				return
			}
		}
	}

	s.frames[len(s.frames)-1].set(symbol, value)
}

// At returns the value bound to symbol, or [Void] if there is none.
// Symbols may be any Value, not only strings.
func (s *Scope) At(symbol Value) Value {
	v, _ := s.Get(symbol)

	return v
}

// Bind binds symbol to value using [ModeClosest].
func (s *Scope) Bind(symbol, value Value) {
	s.Set(symbol, value, ModeClosest)
}

// Lookup is [Scope.At] for a string symbol.
func (s *Scope) Lookup(name string) Value { return s.At(String(name)) }

// Assign is [Scope.Bind] for a string symbol.
func (s *Scope) Assign(name string, value Value) { s.Bind(String(name), value) }

// Reset discards every binding and frame, leaving an empty root frame.
// Functions defined before the reset keep the frames they captured.
func (s *Scope) Reset() {
	clear(s.frames)
	s.frames = append(s.frames[:0], &Map{})
}

// Symbols returns the distinct string symbols visible from the innermost
// frame, innermost bindings first.
func (s *Scope) Symbols() []string {
	seen := make(map[string]struct{})

	var out []string

	for i := len(s.frames) - 1; i >= 0; i-- {
		for k := range s.frames[i].All() {
			if k.Kind() != KindString {
				continue
			}

			name := k.AsString()
			if _, ok := seen[name]; ok {
				continue
			}

			seen[name] = struct{}{}
			out = append(out, name)
		}
	}

	return out
}

// capture returns the frames visible to a function defined now. The frames
// themselves are shared, so bindings added to them later remain visible;
// frames pushed after the definition are not.
func (s *Scope) capture() []*Map {
	return slices.Clone(s.frames)
}

// call returns the scope a function body runs in: the captured frames
// extended with a fresh frame for the parameters.
func call(captured []*Map) *Scope {
	frames := make([]*Map, len(captured), len(captured)+1)
	copy(frames, captured)

	return &Scope{frames: append(frames, &Map{})}
}
