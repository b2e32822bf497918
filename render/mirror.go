// Package render implements the consuming side of the simulation's change
// export (§4.L): a Mirror that folds exported keyframes into its own
// curve store, and MakeFrameAt, which walks that store and hands
// per-entity state to a RenderInterface. There is no drawing code here —
// sprite batching, tile triangulation, camera math and font/atlas drawing
// are explicitly out of the core's scope and live in cmd/hadesdemo
// instead. Grounded on renderer/'s split between consuming simulation
// state and issuing draw calls (e.g. renderer/particles.go's Draw taking
// a plain slice rather than touching the simulation's own types).
package render

import (
	"sync"

	"github.com/cyanskies/hades/curve"
	"github.com/cyanskies/hades/object"
)

type key struct {
	Entity   object.EntityID
	Variable object.VariableID
}

// Mirror is the render-side curve store: a lagging copy of whatever
// sync-flagged variables the simulation has exported so far. Linear
// curves back float64 and Vec2 so MakeFrameAt can interpolate between the
// last two received keyframes; int64, bool and string are held as Step
// (int64 included, although it is lerpable).
type Mirror struct {
	mu sync.Mutex

	ints    map[key]*curve.Step[int64]
	floats  map[key]*curve.Linear[float64]
	bools   map[key]*curve.Step[bool]
	strings map[key]*curve.Step[string]
	vecs    map[key]*curve.Linear[curve.Vec2]

	entities map[object.EntityID]struct{}
}

// NewMirror constructs an empty render mirror.
func NewMirror() *Mirror {
	return &Mirror{
		ints:     make(map[key]*curve.Step[int64]),
		floats:   make(map[key]*curve.Linear[float64]),
		bools:    make(map[key]*curve.Step[bool]),
		strings:  make(map[key]*curve.Step[string]),
		vecs:     make(map[key]*curve.Linear[curve.Vec2]),
		entities: make(map[object.EntityID]struct{}),
	}
}

// InputUpdates merges an exported change bundle into the mirror (§4.L
// "input_updates"): for each keyframe, look up or create the destination
// curve by (entity, variable) and Set it, preserving ordering and
// deduping against existing keys the way curve.Set already does.
func (m *Mirror) InputUpdates(exp object.Export) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, f := range exp.Ints {
		k := key{f.Entity, f.Variable}
		c, ok := m.ints[k]
		if !ok {
			c = curve.NewStep[int64](0)
			m.ints[k] = c
		}
		m.entities[f.Entity] = struct{}{}
		for _, kf := range f.Keyframes {
			c.Set(kf.At, kf.Value)
		}
	}
	for _, f := range exp.Floats {
		k := key{f.Entity, f.Variable}
		c, ok := m.floats[k]
		if !ok {
			c = curve.NewLinear[float64](0)
			m.floats[k] = c
		}
		m.entities[f.Entity] = struct{}{}
		for _, kf := range f.Keyframes {
			c.Set(kf.At, kf.Value)
		}
	}
	for _, f := range exp.Bools {
		k := key{f.Entity, f.Variable}
		c, ok := m.bools[k]
		if !ok {
			c = curve.NewStep[bool](false)
			m.bools[k] = c
		}
		m.entities[f.Entity] = struct{}{}
		for _, kf := range f.Keyframes {
			c.Set(kf.At, kf.Value)
		}
	}
	for _, f := range exp.Strings {
		k := key{f.Entity, f.Variable}
		c, ok := m.strings[k]
		if !ok {
			c = curve.NewStep[string]("")
			m.strings[k] = c
		}
		m.entities[f.Entity] = struct{}{}
		for _, kf := range f.Keyframes {
			c.Set(kf.At, kf.Value)
		}
	}
	for _, f := range exp.Vecs {
		k := key{f.Entity, f.Variable}
		c, ok := m.vecs[k]
		if !ok {
			c = curve.NewLinear[curve.Vec2](curve.Vec2{})
			m.vecs[k] = c
		}
		m.entities[f.Entity] = struct{}{}
		for _, kf := range f.Keyframes {
			c.Set(kf.At, kf.Value)
		}
	}
}

// EntityCount reports how many distinct entities the mirror has ever seen
// a keyframe for.
func (m *Mirror) EntityCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entities)
}
