package render

import (
	"github.com/cyanskies/hades/curve"
	"github.com/cyanskies/hades/object"
)

// Mission mirrors the mission file's data shape (§6 "Mission file"): the
// player-name to player-entity binding and the ordered levels making up a
// play session. The core only carries this as plain data for
// MakeFrameAt's signature; loading/ordering levels belongs to the mission
// editor, out of scope here.
type Mission struct {
	Players []PlayerBinding
	Levels  []string
}

// PlayerBinding is one entry of a Mission's players map, as a slice
// rather than a map so mission data stays deterministically ordered.
type PlayerBinding struct {
	Name   string
	Entity object.EntityID
}

// EntityFrame is one entity's fully reconstructed, interpolated state at
// a point in time: every variable the mirror has ever received for that
// entity, keyed the same way the simulation side keys them. Turning this
// into sprites/drawables/layers is a cmd/hadesdemo concern (§1 Non-goals
// excludes sprite batching and drawing from the core).
type EntityFrame struct {
	Entity  object.EntityID
	Ints    map[object.VariableID]int64
	Floats  map[object.VariableID]float64
	Bools   map[object.VariableID]bool
	Strings map[object.VariableID]string
	Vecs    map[object.VariableID]curve.Vec2
}

// RenderInterface is the render_interface consumer (§4.L): whatever
// drawable/sprite/layer system cmd/hadesdemo wires up need only implement
// this to receive a frame per live entity.
type RenderInterface interface {
	Draw(frame EntityFrame)
}

// MakeFrameAt walks the mirror and calls out.Draw once per entity with
// its variables interpolated (or held, for non-lerpable types) at t.
// mission is accepted for parity with the spec's signature; the core
// does no filtering by it, leaving level/player scoping to the consumer.
func (m *Mirror) MakeFrameAt(t curve.Time, mission *Mission, out RenderInterface) {
	m.mu.Lock()
	entities := make([]object.EntityID, 0, len(m.entities))
	for e := range m.entities {
		entities = append(entities, e)
	}
	m.mu.Unlock()

	for _, e := range entities {
		out.Draw(m.frameFor(e, t))
	}
}

func (m *Mirror) frameFor(entity object.EntityID, t curve.Time) EntityFrame {
	m.mu.Lock()
	defer m.mu.Unlock()

	frame := EntityFrame{
		Entity:  entity,
		Ints:    make(map[object.VariableID]int64),
		Floats:  make(map[object.VariableID]float64),
		Bools:   make(map[object.VariableID]bool),
		Strings: make(map[object.VariableID]string),
		Vecs:    make(map[object.VariableID]curve.Vec2),
	}
	for k, c := range m.ints {
		if k.Entity == entity {
			frame.Ints[k.Variable] = c.Get(t)
		}
	}
	for k, c := range m.floats {
		if k.Entity == entity {
			frame.Floats[k.Variable] = c.Get(t)
		}
	}
	for k, c := range m.bools {
		if k.Entity == entity {
			frame.Bools[k.Variable] = c.Get(t)
		}
	}
	for k, c := range m.strings {
		if k.Entity == entity {
			frame.Strings[k.Variable] = c.Get(t)
		}
	}
	for k, c := range m.vecs {
		if k.Entity == entity {
			frame.Vecs[k.Variable] = c.Get(t)
		}
	}
	return frame
}
