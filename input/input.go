// Package input implements the interpreter/action state machine (§4.H):
// named actions, bound to one or more interpreter functions, folded once
// per tick into an action set. Two kinds of interpreter can be bound: a
// polling Interpreter, read once per GenerateState regardless of what
// happened, and an event-driven EventInterpreter, which only contributes
// when a fed Event satisfies its IsMatch. Grounded on
// original_source/libs/basic/include/hades/input.hpp's input_interpreter
// / input_event_interpreter<Event> split; concrete input sources
// (keyboard, mouse, joystick, a platform event queue) are "SFML-facing
// registrars" outside this package — anything able to produce an Action
// on demand, or match/consume an Event, can be added as an interpreter.
package input

import (
	"errors"
	"sync"

	"github.com/cyanskies/hades/uid"
)

var (
	ErrActionExists       = errors.New("input: action already created")
	ErrActionNotFound     = errors.New("input: action not found")
	ErrActionNotRebindable = errors.New("input: action is not rebindable")
	ErrInterpreterNotFound = errors.New("input: interpreter not found")
	ErrNotImplemented      = errors.New("input: not implemented")
)

// BindJoystickAxis would bind a joystick axis to an action the way Bind
// binds a named interpreter. The original SFML-facing registrar never
// finished this (its bindJoyMoveString stub just returns false), and
// SPEC_FULL keeps that gap rather than inventing joystick semantics the
// source never specified.
func (s *System) BindJoystickAxis(action uid.ID, joystick, axis int) (bool, error) {
	return false, ErrNotImplemented
}

// Action is one action's state for a tick: whether it's active, and its
// two axes. Stick-like actions clamp their axes to [0, 100]; positional
// actions (mouse position) carry raw, unclamped window coordinates.
type Action struct {
	ID     uid.ID
	Active bool
	XAxis  int32
	YAxis  int32
}

// Merge combines two contributions to the same action: active is OR'd,
// each axis takes the larger (signed maximum) contribution. Per DESIGN NOTES §9
// this is deliberately max, not average — two interpreters both reporting
// a press produce the stronger signal, not a cancelled one.
func Merge(a, b Action, clamp bool) Action {
	m := Action{
		ID:     a.ID,
		Active: a.Active || b.Active,
		XAxis:  maxInt32(a.XAxis, b.XAxis),
		YAxis:  maxInt32(a.YAxis, b.YAxis),
	}
	if clamp {
		m.XAxis = clampInt32(m.XAxis, 0, 100)
		m.YAxis = clampInt32(m.YAxis, 0, 100)
	}
	return m
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Interpreter reads the current state of some input device and reports
// an Action. It's called once per GenerateState, regardless of how many
// actions it's bound to.
type Interpreter func() Action

// Event is a single platform input event (a key press, a mouse click, a
// window message) fed into GenerateState by the concrete backend. The
// core places no constraints on its shape — only the EventInterpreters
// bound to it need to understand it — mirroring how input_event_system_t
// is templated on the platform's own event type.
type Event any

// EventInterpreter is the event-driven counterpart to Interpreter:
// rather than polling a device's current state, it inspects one fed
// Event at a time. IsMatch reports whether this interpreter claims the
// event; EventCheck is then called with that event and whether some
// other interpreter already claimed it this GenerateState call (events
// can be consumed by more than one action), returning the Action
// contribution for that one event. Grounded on
// input_event_interpreter<Event>'s is_match/event_check pair — the
// documented "any (is_match, event_check) pair suffices to add a new
// input source" contract.
type EventInterpreter struct {
	IsMatch    func(Event) bool
	EventCheck func(handled bool, e Event) Action
}

// ActionSet is the full per-tick snapshot: one merged Action per action
// id that has a polling Interpreter bound or that a bound
// EventInterpreter matched an event for in this GenerateState call.
type ActionSet map[uid.ID]Action

type actionDecl struct {
	rebindable bool
	positional bool
}

// System is the per-player (or per-device) input state machine: the
// registered action declarations, the named interpreter pool, and the
// action-to-interpreter bindings that GenerateState folds each tick.
type System struct {
	reg *uid.Registry

	mu               sync.Mutex
	actions          map[uid.ID]actionDecl
	interpreters     map[uid.ID]Interpreter
	eventInterpreters map[uid.ID]EventInterpreter
	interpreterNames map[string]uid.ID
	bindings         map[uid.ID][]uid.ID // action -> bound interpreter ids, bind order preserved

	previous ActionSet
}

// NewSystem creates an input system with no actions or interpreters
// registered.
func NewSystem(reg *uid.Registry) *System {
	return &System{
		reg:               reg,
		actions:           make(map[uid.ID]actionDecl),
		interpreters:      make(map[uid.ID]Interpreter),
		eventInterpreters: make(map[uid.ID]EventInterpreter),
		interpreterNames:  make(map[string]uid.ID),
		bindings:          make(map[uid.ID][]uid.ID),
		previous:          make(ActionSet),
	}
}

// Create registers an action. positional actions (e.g. mouse position)
// skip axis clamping in Merge.
func (s *System) Create(action uid.ID, rebindable, positional bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.actions[action]; exists {
		return ErrActionExists
	}
	s.actions[action] = actionDecl{rebindable: rebindable, positional: positional}
	return nil
}

// AddInterpreter registers a named input source and returns its id, for
// later use with Bind/Unbind.
func (s *System) AddInterpreter(name string, fn Interpreter) uid.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.reg.MakeNamed(name)
	s.interpreters[id] = fn
	s.interpreterNames[name] = id
	return id
}

// AddEventInterpreter registers a named event-driven input source and
// returns its id, for later use with Bind/Unbind — the same binding path
// polling Interpreters use, so a caller can swap one kind for the other
// without touching any action declaration.
func (s *System) AddEventInterpreter(name string, ei EventInterpreter) uid.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.reg.MakeNamed(name)
	s.eventInterpreters[id] = ei
	s.interpreterNames[name] = id
	return id
}

// Bind attaches a named interpreter to an action. Rebinding a
// non-rebindable action is rejected once it already has a binding.
func (s *System) Bind(action uid.ID, interpreterName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	decl, ok := s.actions[action]
	if !ok {
		return ErrActionNotFound
	}
	interpID, ok := s.interpreterNames[interpreterName]
	if !ok {
		return ErrInterpreterNotFound
	}
	if !decl.rebindable && len(s.bindings[action]) > 0 {
		return ErrActionNotRebindable
	}
	for _, bound := range s.bindings[action] {
		if bound == interpID {
			return nil // already bound
		}
	}
	s.bindings[action] = append(s.bindings[action], interpID)
	return nil
}

// Unbind detaches one interpreter from an action.
func (s *System) Unbind(action uid.ID, interpreterName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	interpID, ok := s.interpreterNames[interpreterName]
	if !ok {
		return
	}
	bound := s.bindings[action]
	for i, id := range bound {
		if id == interpID {
			s.bindings[action] = append(bound[:i], bound[i+1:]...)
			return
		}
	}
}

// UnbindAll detaches every interpreter from an action.
func (s *System) UnbindAll(action uid.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bindings, action)
}

// pollLocked folds every bound polling Interpreter into one Action per
// action, applying the positional-aware clamp exactly once regardless of
// how many interpreters are bound (§3 "Input action": stick-like actions
// clamp to [0,100]). Must be called with s.mu held.
func (s *System) pollLocked() ActionSet {
	next := make(ActionSet, len(s.bindings))
	polled := make(map[uid.ID]Action, len(s.interpreters))
	for action, interpIDs := range s.bindings {
		decl := s.actions[action]
		var merged Action
		count := 0
		for _, id := range interpIDs {
			fn, ok := s.interpreters[id]
			if !ok {
				continue // bound to an EventInterpreter instead, folded in by GenerateState
			}
			a, seen := polled[id]
			if !seen {
				a = fn()
				polled[id] = a
			}
			if count == 0 {
				merged = a
			} else {
				merged = Merge(merged, a, false)
			}
			count++
		}
		if count == 0 {
			continue
		}
		merged.ID = action
		if !decl.positional {
			merged.XAxis = clampInt32(merged.XAxis, 0, 100)
			merged.YAxis = clampInt32(merged.YAxis, 0, 100)
		}
		next[action] = merged
	}
	return next
}

// GenerateState runs every bound polling interpreter, then folds in any
// fed events against the bound EventInterpreters, merges everything per
// action, replaces the stored previous state, and returns the new set.
// Grounded on input_event_system_t<Event>::generate_state(const
// std::vector<checked_event>&): handled tracks, per event, whether an
// earlier EventInterpreter already claimed it this call, the Go
// equivalent of the original's checked_event bool flag.
func (s *System) GenerateState(events ...Event) ActionSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.pollLocked()

	for _, ev := range events {
		handled := false
		for action, interpIDs := range s.bindings {
			decl := s.actions[action]
			for _, id := range interpIDs {
				ei, ok := s.eventInterpreters[id]
				if !ok {
					continue
				}
				if !ei.IsMatch(ev) {
					continue
				}
				a := ei.EventCheck(handled, ev)
				a.ID = action
				if cur, exists := next[action]; exists {
					next[action] = Merge(cur, a, !decl.positional)
				} else {
					if !decl.positional {
						a.XAxis = clampInt32(a.XAxis, 0, 100)
						a.YAxis = clampInt32(a.YAxis, 0, 100)
					}
					next[action] = a
				}
				handled = true
			}
		}
	}

	s.previous = next
	return next
}

// InputState returns the last action set produced by GenerateState.
func (s *System) InputState() ActionSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previous
}
