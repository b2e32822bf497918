package object

import (
	"sync"

	"github.com/mlange-42/ark/ecs"
)

// Ref is an object_ref: a stable entity id plus the live ecs.Entity it
// last resolved to. The Entity field may be stale (the underlying ark
// entity can have been recycled) — callers must always pass a Ref through
// World.Resolve before dereferencing its Object, never read through
// Entity directly (§9 DESIGN NOTES, "cyclic references between game_obj
// and game_state").
type Ref struct {
	ID     EntityID
	Entity ecs.Entity
}

// objComponent is the sole ark component this package defines: a pointer
// back to the Object owning this ecs.Entity. Every other subsystem's
// per-entity data lives in Object's own curve tables, not as additional
// ark components, so the colony here only ever needs this one mapper.
type objComponent struct {
	obj *Object
}

// World is the non-persistent entity colony (§4.J "extra_state"): a live
// ark ecs.World used purely as an arena+generation allocator for Objects,
// plus the stable-id -> live-entity index Resolve uses to tolerate a
// stale Ref.
type World struct {
	mu     sync.RWMutex
	ecs    *ecs.World
	objMap *ecs.Map[objComponent]
	byID   map[EntityID]ecs.Entity
}

// NewWorld constructs an empty object colony.
func NewWorld() *World {
	w := ecs.NewWorld()
	return &World{
		ecs:    w,
		objMap: ecs.NewMap[objComponent](w),
		byID:   make(map[EntityID]ecs.Entity),
	}
}

// Spawn adds obj to the live colony under its own ID and returns a fresh
// Ref for it.
func (w *World) Spawn(obj *Object) Ref {
	w.mu.Lock()
	defer w.mu.Unlock()
	e := w.objMap.NewEntity(&objComponent{obj: obj})
	w.byID[obj.ID] = e
	return Ref{ID: obj.ID, Entity: e}
}

// Resolve re-fetches the live Object for ref through the colony, keyed by
// ref.ID rather than trusting ref.Entity directly. It reports false if the
// entity has since been destroyed.
func (w *World) Resolve(ref Ref) (*Object, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.byID[ref.ID]
	if !ok || !w.objMap.Has(e) {
		return nil, false
	}
	return w.objMap.Get(e).obj, true
}

// Get is a convenience lookup by entity id alone, for call sites that
// don't carry a Ref (e.g. a system resolving a neighbour by id).
func (w *World) Get(id EntityID) (*Object, bool) {
	w.mu.RLock()
	e, ok := w.byID[id]
	w.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return w.Resolve(Ref{ID: id, Entity: e})
}

// Destroy removes an entity from the live colony. Structural mutation
// like this is only safe between ticks (§5 "Object colony ... not
// thread-safe against structural mutation"), so callers invoke it between
// ticks; detaching an entity from a system during a tick is staged
// separately through Attachment.Disconnect.
func (w *World) Destroy(id EntityID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.byID[id]; ok {
		w.ecs.RemoveEntity(e)
		delete(w.byID, id)
	}
}

// Len reports how many live objects the colony holds.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.byID)
}

// ExtraState is the rest of §4.J's non-persistent derived data: the live
// object colony (World) plus a per-level scratch key/value map used by
// systems that need shared, tick-local working state (e.g. a spatial grid
// rebuilt once per tick and read by many systems).
type ExtraState struct {
	Objects *World

	mu      sync.Mutex
	scratch map[string]any
}

// NewExtraState constructs an ExtraState with a fresh, empty colony.
func NewExtraState() *ExtraState {
	return &ExtraState{
		Objects: NewWorld(),
		scratch: make(map[string]any),
	}
}

// Scratch returns a named scratch slot, or nil if it has never been set;
// reading does not create the slot.
func (es *ExtraState) Scratch(key string) any {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.scratch[key]
}

// SetScratch writes a named scratch slot.
func (es *ExtraState) SetScratch(key string, v any) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.scratch[key] = v
}
