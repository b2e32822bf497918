// Package object implements the game-state data model (§4.J): entities
// addressed by a stable id, each owning a typed table of time-indexed
// variable curves, plus the split between persistent GameState and
// non-persistent ExtraState the spec calls for. Grounded on
// original_source/libs/core/include/hades/game_state.hpp for the
// field/colony layout and on the teacher's components/*.go +
// main.go ecs.World wiring for the live entity colony underneath it.
package object

import (
	"github.com/cyanskies/hades/curve"
	"github.com/cyanskies/hades/uid"
)

// EntityID is the strong, persistent identifier for a game-world entity.
// It is a plain alias of uid.ID: both are "opaque handle, zero reserved
// as none". Entity ids are not drawn from the uid allocator; each
// GameState mints them from its own counter (GameState.NextEntityID).
type EntityID = uid.ID

// BadEntity is the reserved "no entity" value.
const BadEntity = uid.None

// VariableID names one of an entity's variables (e.g. "health",
// "position.x"); interned the same way as any other UniqueId.
type VariableID = uid.ID

// CurveKind selects which of the three keyframe containers (§4.F) backs a
// variable. Linear is only meaningful for Lerpable value types; see
// NewLinearCurve.
type CurveKind uint8

const (
	KindStep CurveKind = iota
	KindLinear
	KindPulse
)

// Curve is one variable's live keyframe container. Exactly one of Step,
// Linear, or Pulse in curve_ package terms backs it, selected by Kind; the
// concrete container is boxed so Curve[T] doesn't need T to satisfy
// curve.Lerpable just to declare an unused Linear field.
type Curve[T curve.Value] struct {
	Kind CurveKind
	Sync bool // only sync-flagged variables are included in an export (§4.K)

	step   *curve.Step[T]
	linear any // *curve.Linear[T], set only when Kind == KindLinear
	pulse  *curve.Pulse[T]
}

// NewStepCurve creates a step-backed variable.
func NewStepCurve[T curve.Value](def T, sync bool) *Curve[T] {
	return &Curve[T]{Kind: KindStep, Sync: sync, step: curve.NewStep(def)}
}

// NewLinearCurve creates a linear-backed variable. T must be lerpable
// (arithmetic or Vec2); bool/string/uid.ID variables cannot use this
// constructor, matching curve.Linear's own constraint.
func NewLinearCurve[T curve.Lerpable](def T, sync bool) *Curve[T] {
	return &Curve[T]{Kind: KindLinear, Sync: sync, linear: curve.NewLinear(def)}
}

// NewPulseCurve creates a pulse-backed (event) variable.
func NewPulseCurve[T curve.Value](def T, sync bool) *Curve[T] {
	return &Curve[T]{Kind: KindPulse, Sync: sync, pulse: curve.NewPulse(def)}
}

// Get returns the variable's value at t, dispatching to whichever concrete
// curve backs it.
func (c *Curve[T]) Get(t curve.Time) T {
	switch c.Kind {
	case KindStep:
		return c.step.Get(t)
	case KindLinear:
		return c.linear.(interface{ Get(curve.Time) T }).Get(t)
	case KindPulse:
		_, v, _ := c.pulse.Get(t)
		return v
	default:
		var zero T
		return zero
	}
}

// Set places a keyframe at t.
func (c *Curve[T]) Set(t curve.Time, v T) {
	switch c.Kind {
	case KindStep:
		c.step.Set(t, v)
	case KindLinear:
		c.linear.(interface{ Set(curve.Time, T) }).Set(t, v)
	case KindPulse:
		c.pulse.Set(t, v)
	}
}

// ReplaceKeyframes deletes every keyframe with At >= t, then sets (t, v).
func (c *Curve[T]) ReplaceKeyframes(t curve.Time, v T) {
	switch c.Kind {
	case KindStep:
		c.step.ReplaceKeyframes(t, v)
	case KindLinear:
		c.linear.(interface{ ReplaceKeyframes(curve.Time, T) }).ReplaceKeyframes(t, v)
	case KindPulse:
		c.pulse.ReplaceKeyframes(t, v)
	}
}

// Keyframes returns every keyframe in time order.
func (c *Curve[T]) Keyframes() []curve.Keyframe[T] {
	switch c.Kind {
	case KindStep:
		return c.step.Keyframes()
	case KindLinear:
		return c.linear.(interface{ Keyframes() []curve.Keyframe[T] }).Keyframes()
	case KindPulse:
		return c.pulse.Keyframes()
	default:
		return nil
	}
}

// KeyframesSince returns only the keyframes with At > since, the slice an
// export bundle (§4.K "Change export") needs.
func (c *Curve[T]) KeyframesSince(since curve.Time) []curve.Keyframe[T] {
	all := c.Keyframes()
	i := 0
	for i < len(all) && all[i].At <= since {
		i++
	}
	out := make([]curve.Keyframe[T], len(all)-i)
	copy(out, all[i:])
	return out
}

// Object is a game_obj: an entity's live typed variable table, one map per
// supported value type per §4.J ("for each supported value type a vector
// of {variable_id, curve<T>*}").
type Object struct {
	ID EntityID

	Ints    map[VariableID]*Curve[int64]
	Floats  map[VariableID]*Curve[float64]
	Bools   map[VariableID]*Curve[bool]
	Strings map[VariableID]*Curve[string]
	Vecs    map[VariableID]*Curve[curve.Vec2]
}

// NewObject creates an Object with empty variable tables for id.
func NewObject(id EntityID) *Object {
	return &Object{
		ID:      id,
		Ints:    make(map[VariableID]*Curve[int64]),
		Floats:  make(map[VariableID]*Curve[float64]),
		Bools:   make(map[VariableID]*Curve[bool]),
		Strings: make(map[VariableID]*Curve[string]),
		Vecs:    make(map[VariableID]*Curve[curve.Vec2]),
	}
}
