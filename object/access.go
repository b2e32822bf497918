package object

import "github.com/cyanskies/hades/curve"

// MakeObject allocates a fresh entity id from gs and spawns a game_obj for
// it in the live colony (§4.J "make_object"). The returned Ref is the
// handle every other operation re-resolves through.
func MakeObject(gs *GameState, es *ExtraState) Ref {
	obj := NewObject(gs.NextEntityID())
	return es.Objects.Spawn(obj)
}

// GetObject re-resolves ref through the live colony (§4.J "get_object").
func GetObject(es *ExtraState, ref Ref) (*Object, bool) {
	return es.Objects.Resolve(ref)
}

// ObjectInt returns obj's int variable id, creating it (Step-backed unless
// kind says otherwise) at its first access and registering it with gs so
// it participates in save/export. This is the §4.J
// "get_object_property_ref<CurveKind, T>" accessor specialised to int64;
// ObjectFloat/ObjectBool/ObjectString/ObjectVec2 are its siblings for the
// other value types; uid.ID-valued variables have no accessor here.
func ObjectInt(gs *GameState, obj *Object, id VariableID, kind CurveKind, def int64, sync bool) *Curve[int64] {
	if c, ok := obj.Ints[id]; ok {
		return c
	}
	var c *Curve[int64]
	switch kind {
	case KindLinear:
		c = NewLinearCurve(def, sync)
	case KindPulse:
		c = NewPulseCurve(def, sync)
	default:
		c = NewStepCurve(def, sync)
	}
	obj.Ints[id] = c
	AddField(gs, obj.ID, id, c)
	return c
}

// ObjectFloat is ObjectInt's float64 counterpart.
func ObjectFloat(gs *GameState, obj *Object, id VariableID, kind CurveKind, def float64, sync bool) *Curve[float64] {
	if c, ok := obj.Floats[id]; ok {
		return c
	}
	var c *Curve[float64]
	switch kind {
	case KindLinear:
		c = NewLinearCurve(def, sync)
	case KindPulse:
		c = NewPulseCurve(def, sync)
	default:
		c = NewStepCurve(def, sync)
	}
	obj.Floats[id] = c
	AddField(gs, obj.ID, id, c)
	return c
}

// ObjectVec2 is ObjectInt's Vec2 counterpart; Vec2 is lerpable so Linear
// is meaningful here too.
func ObjectVec2(gs *GameState, obj *Object, id VariableID, kind CurveKind, def curve.Vec2, sync bool) *Curve[curve.Vec2] {
	if c, ok := obj.Vecs[id]; ok {
		return c
	}
	var c *Curve[curve.Vec2]
	switch kind {
	case KindLinear:
		c = NewLinearCurve(def, sync)
	case KindPulse:
		c = NewPulseCurve(def, sync)
	default:
		c = NewStepCurve(def, sync)
	}
	obj.Vecs[id] = c
	AddField(gs, obj.ID, id, c)
	return c
}

// ObjectBool is ObjectInt's bool counterpart. bool has no lerp, so a
// KindLinear request degrades to Step rather than failing — the value
// still exists and can be read/written, it just never interpolates.
func ObjectBool(gs *GameState, obj *Object, id VariableID, kind CurveKind, def bool, sync bool) *Curve[bool] {
	if c, ok := obj.Bools[id]; ok {
		return c
	}
	var c *Curve[bool]
	if kind == KindPulse {
		c = NewPulseCurve(def, sync)
	} else {
		c = NewStepCurve(def, sync)
	}
	obj.Bools[id] = c
	AddField(gs, obj.ID, id, c)
	return c
}

// ObjectString is ObjectInt's string counterpart, with the same
// Linear-degrades-to-Step behaviour as ObjectBool.
func ObjectString(gs *GameState, obj *Object, id VariableID, kind CurveKind, def string, sync bool) *Curve[string] {
	if c, ok := obj.Strings[id]; ok {
		return c
	}
	var c *Curve[string]
	if kind == KindPulse {
		c = NewPulseCurve(def, sync)
	} else {
		c = NewStepCurve(def, sync)
	}
	obj.Strings[id] = c
	AddField(gs, obj.ID, id, c)
	return c
}
