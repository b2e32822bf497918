package render

import (
	"testing"

	"github.com/cyanskies/hades/curve"
	"github.com/cyanskies/hades/object"
)

type capture struct {
	frames []EntityFrame
}

func (c *capture) Draw(f EntityFrame) {
	c.frames = append(c.frames, f)
}

func TestInputUpdatesThenMakeFrameAt(t *testing.T) {
	m := NewMirror()
	entity := object.EntityID(1)
	posVar := object.VariableID(1)

	m.InputUpdates(object.Export{
		Floats: []object.ExportedField[float64]{
			{
				Entity:   entity,
				Variable: posVar,
				Keyframes: []curve.Keyframe[float64]{
					{At: 0, Value: 0},
					{At: 100, Value: 10},
				},
			},
		},
	})

	if got := m.EntityCount(); got != 1 {
		t.Fatalf("EntityCount = %d, want 1", got)
	}

	out := &capture{}
	m.MakeFrameAt(50, &Mission{}, out)

	if len(out.frames) != 1 {
		t.Fatalf("want 1 frame, got %d", len(out.frames))
	}
	f := out.frames[0]
	if f.Entity != entity {
		t.Fatalf("frame entity = %v, want %v", f.Entity, entity)
	}
	if got := f.Floats[posVar]; got < 4.9 || got > 5.1 {
		t.Fatalf("interpolated float = %v, want ~5", got)
	}
}

func TestInputUpdatesDedupesSameTimestamp(t *testing.T) {
	m := NewMirror()
	entity := object.EntityID(1)
	hpVar := object.VariableID(2)

	m.InputUpdates(object.Export{
		Ints: []object.ExportedField[int64]{
			{Entity: entity, Variable: hpVar, Keyframes: []curve.Keyframe[int64]{{At: 0, Value: 100}}},
		},
	})
	m.InputUpdates(object.Export{
		Ints: []object.ExportedField[int64]{
			{Entity: entity, Variable: hpVar, Keyframes: []curve.Keyframe[int64]{{At: 0, Value: 50}}},
		},
	})

	out := &capture{}
	m.MakeFrameAt(0, nil, out)
	if got := out.frames[0].Ints[hpVar]; got != 50 {
		t.Fatalf("second InputUpdates at the same timestamp should overwrite, got %v", got)
	}
}

func TestMakeFrameAtWithNoEntitiesDrawsNothing(t *testing.T) {
	m := NewMirror()
	out := &capture{}
	m.MakeFrameAt(0, nil, out)
	if len(out.frames) != 0 {
		t.Fatalf("want no frames for an empty mirror, got %d", len(out.frames))
	}
}
